package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counters(t *testing.T) {
	r := NewRecorder()

	before := testutil.ToFloat64(pickupsTotal.WithLabelValues(OutcomeConflict))
	r.Pickup(OutcomeConflict)
	r.Pickup(OutcomeConflict)
	assert.Equal(t, before+2, testutil.ToFloat64(pickupsTotal.WithLabelValues(OutcomeConflict)))

	beforeFail := testutil.ToFloat64(compensationFailuresTotal.WithLabelValues("pickup", "reassign"))
	r.CompensationFailed("pickup", "reassign", errors.New("db down"))
	assert.Equal(t, beforeFail+1, testutil.ToFloat64(compensationFailuresTotal.WithLabelValues("pickup", "reassign")))

	beforeDrop := testutil.ToFloat64(dropsTotal)
	r.Drop()
	assert.Equal(t, beforeDrop+1, testutil.ToFloat64(dropsTotal))
}

func TestHandler_ExposesMarketplaceMetrics(t *testing.T) {
	NewRecorder().Cancellation("reversal")

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "marketplace_cancellations_total"))
}

func TestObserveRequest(t *testing.T) {
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "/api/v1/marketplace/pickup", "409"))
	ObserveRequest("POST", "/api/v1/marketplace/pickup", http.StatusConflict)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "/api/v1/marketplace/pickup", "409")))

	ObserveRequest("GET", "", http.StatusNotFound)
	assert.GreaterOrEqual(t, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unmatched", "404")), 1.0)
}
