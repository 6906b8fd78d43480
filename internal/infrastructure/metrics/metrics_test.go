package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	m := New()
	m.ShipmentTransition("DEPARTED")
	m.ShipmentTransition("DEPARTED")
	m.EmailSent("invoice_issued", "suppressed")
	m.JobRun("expiry", "ok")
	m.ObserveHTTP("GET", "/api/shipments", 200, 15*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("DEPARTED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.emails.WithLabelValues("invoice_issued", "suppressed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobs.WithLabelValues("expiry", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpTotal.WithLabelValues("GET", "/api/shipments", "200")))
}

func TestHandler_Exposicion(t *testing.T) {
	m := New()
	m.ShipmentTransition("DELIVERED")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `freight_shipment_transitions_total{status="DELIVERED"} 1`))
	assert.True(t, strings.Contains(string(body), "go_goroutines"))
}
