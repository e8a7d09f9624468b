package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordOutcome(t *testing.T) {
	before := testutil.ToFloat64(outcomes.WithLabelValues("membership.Join", "joined"))

	RecordOutcome("membership.Join", "joined")
	RecordOutcome("membership.Join", "joined")

	after := testutil.ToFloat64(outcomes.WithLabelValues("membership.Join", "joined"))
	assert.Equal(t, before+2, after)
}

func TestHandlerExposesMetrics(t *testing.T) {
	RecordOutcome("event.RSVP", "confirmed")
	ObserveRequest("POST /api/events/{id}/rsvp", http.StatusOK, 12*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `fitcircle_coordination_outcomes_total{operation="event.RSVP",outcome="confirmed"}`)
	assert.Contains(t, string(body), `fitcircle_http_request_duration_seconds_count{route="POST /api/events/{id}/rsvp",status="200"}`)
}
