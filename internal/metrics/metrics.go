// Package metrics 换班市场的 Prometheus 指标
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 接单结果标签
const (
	OutcomeClaimed     = "claimed"
	OutcomeConflict    = "conflict"
	OutcomeBlocked     = "blocked"
	OutcomeUnavailable = "unavailable"
	OutcomeRejected    = "rejected"
	OutcomeError       = "error"
)

var (
	dropsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_drops_total",
		Help: "Total number of shifts dropped to the marketplace",
	})

	pickupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_pickups_total",
		Help: "Total number of pickup attempts by outcome",
	}, []string{"outcome"})

	cancellationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_cancellations_total",
		Help: "Total number of cancelled exchange requests by kind",
	}, []string{"kind"})

	compensationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_compensations_total",
		Help: "Total number of compensated saga steps",
	}, []string{"saga", "step"})

	compensationFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_compensation_failures_total",
		Help: "Total number of saga steps whose compensation failed after retries",
	}, []string{"saga", "step"})

	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests by route and status",
	}, []string{"method", "route", "status"})
)

func init() {
	prometheus.MustRegister(dropsTotal)
	prometheus.MustRegister(pickupsTotal)
	prometheus.MustRegister(cancellationsTotal)
	prometheus.MustRegister(compensationsTotal)
	prometheus.MustRegister(compensationFailuresTotal)
	prometheus.MustRegister(httpRequestsTotal)
}

// ObserveRequest 记录一次 HTTP 请求；route 使用路由模板而非原始路径
func ObserveRequest(method, route string, status int) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Recorder 业务层使用的指标接口，测试中可替换
type Recorder interface {
	Drop()
	Pickup(outcome string)
	Cancellation(kind string)
	Compensated(saga, step string)
	CompensationFailed(saga, step string, err error)
}

type promRecorder struct{}

// NewRecorder 基于全局注册表的 Recorder，同时实现 saga.Observer
func NewRecorder() Recorder { return promRecorder{} }

func (promRecorder) Drop() { dropsTotal.Inc() }
func (promRecorder) Pickup(outcome string) { pickupsTotal.WithLabelValues(outcome).Inc() }
func (promRecorder) Cancellation(kind string) { cancellationsTotal.WithLabelValues(kind).Inc() }
func (promRecorder) Compensated(saga, step string) {
	compensationsTotal.WithLabelValues(saga, step).Inc()
}
func (promRecorder) CompensationFailed(saga, step string, _ error) {
	compensationFailuresTotal.WithLabelValues(saga, step).Inc()
}

// Nop 丢弃所有指标
type Nop struct{}

func (Nop) Drop() {}
func (Nop) Pickup(string) {}
func (Nop) Cancellation(string) {}
func (Nop) Compensated(string, string) {}
func (Nop) CompensationFailed(string, string, error) {}

// Handler /metrics 端点
func Handler() http.Handler {
	return promhttp.Handler()
}
