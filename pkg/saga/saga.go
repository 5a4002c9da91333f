// Package saga 按顺序执行一组 (正向动作, 补偿动作) 步骤。
//
// 跨表写入没有数据库事务边界时使用：任一步失败，已成功步骤的补偿动作按逆序执行。
// 补偿动作带重试；补偿仍失败时只记录日志并通知 Observer，调用方拿到的始终是
// 触发回滚的原始错误。
package saga

import (
	"context"
	"errors"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"go.uber.org/zap"
)

// Step 单个步骤
type Step struct {
	Name string
	// Action 正向动作
	Action func(ctx context.Context) error
	// Compensate 撤销 Action 的效果；为 nil 表示无需补偿
	Compensate func(ctx context.Context) error
}

// Observer 补偿事件回调（指标上报）
type Observer interface {
	Compensated(saga, step string)
	CompensationFailed(saga, step string, err error)
}

type nopObserver struct{}

func (nopObserver) Compensated(string, string) {}
func (nopObserver) CompensationFailed(string, string, error) {}

// Options 补偿重试参数
type Options struct {
	// Retries 补偿失败后的重试次数（不含首次）
	Retries int
	// Backoff 首次重试间隔，之后指数退避，上限为 8 倍
	Backoff time.Duration
	// AbortOn 命中（errors.Is）这些错误时不再重试，例如条件更新未命中
	AbortOn []error
}

// Runner 执行器，无状态，可被并发复用
type Runner struct {
	logger   *zap.Logger
	retry    retrypolicy.RetryPolicy[any]
	abortOn  []error
	observer Observer
}

// NewRunner 创建执行器；observer 可为 nil
func NewRunner(opts Options, logger *zap.Logger, observer Observer) *Runner {
	builder := retrypolicy.NewBuilder[any]().
		WithMaxRetries(opts.Retries).
		ReturnLastFailure()
	if opts.Backoff > 0 {
		builder = builder.WithBackoff(opts.Backoff, 8*opts.Backoff)
	}
	if len(opts.AbortOn) > 0 {
		builder = builder.AbortOnErrors(opts.AbortOn...)
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Runner{
		logger:   logger,
		retry:    builder.Build(),
		abortOn:  opts.AbortOn,
		observer: observer,
	}
}

// Run 依次执行 steps；第 i 步失败时逆序补偿第 0..i-1 步并返回原始错误
func (r *Runner) Run(ctx context.Context, name string, steps ...Step) error {
	for i, step := range steps {
		err := step.Action(ctx)
		if err == nil {
			continue
		}

		r.logger.Debug("saga 步骤失败，开始补偿",
			zap.String("saga", name),
			zap.String("step", step.Name),
			zap.Error(err),
		)
		r.compensate(ctx, name, steps[:i])
		return err
	}
	return nil
}

func (r *Runner) compensate(ctx context.Context, name string, done []Step) {
	// 调用方断开连接也必须把补偿做完
	cctx := context.WithoutCancel(ctx)

	for i := len(done) - 1; i >= 0; i-- {
		step := done[i]
		if step.Compensate == nil {
			continue
		}

		err := failsafe.With[any](r.retry).WithContext(cctx).Run(func() error {
			return step.Compensate(cctx)
		})
		if err != nil && r.aborted(err) {
			r.logger.Error("saga 补偿被条件守卫拒绝，未重试，需人工介入",
				zap.String("saga", name),
				zap.String("step", step.Name),
				zap.Error(err),
			)
			r.observer.CompensationFailed(name, step.Name, err)
			continue
		}
		if err != nil {
			r.logger.Error("saga 补偿失败，需人工介入",
				zap.String("saga", name),
				zap.String("step", step.Name),
				zap.Error(err),
			)
			r.observer.CompensationFailed(name, step.Name, err)
			continue
		}

		r.logger.Warn("saga 步骤已补偿",
			zap.String("saga", name),
			zap.String("step", step.Name),
		)
		r.observer.Compensated(name, step.Name)
	}
}

func (r *Runner) aborted(err error) bool {
	for _, target := range r.abortOn {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
