// Package metrics expone los colectores Prometheus del servicio.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "freight"

// Metrics agrupa los colectores. Implementa shipment.Recorder, notification.Recorder y
// scheduler.Recorder.
type Metrics struct {
	registry    *prometheus.Registry
	httpTotal   *prometheus.CounterVec
	httpLatency *prometheus.HistogramVec
	transitions *prometheus.CounterVec
	emails      *prometheus.CounterVec
	jobs        *prometheus.CounterVec
}

// New registra los colectores en un registry propio (más los de proceso y runtime de Go).
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "Peticiones HTTP atendidas por método, ruta y status.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "Latencia de las peticiones HTTP.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "shipment_transitions_total",
			Help: "Transiciones de estado de embarques aplicadas.",
		}, []string{"status"}),
		emails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "emails_total",
			Help: "Correos por plantilla y resultado (sent, suppressed, skipped, failed).",
		}, []string{"template", "result"}),
		jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "jobs_total",
			Help: "Ejecuciones de trabajos programados por resultado.",
		}, []string{"job", "result"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpTotal, m.httpLatency, m.transitions, m.emails, m.jobs,
	)
	return m
}

// ObserveHTTP registra una petición atendida.
func (m *Metrics) ObserveHTTP(method, route string, status int, took time.Duration) {
	m.httpTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(took.Seconds())
}

// ShipmentTransition implementa shipment.Recorder.
func (m *Metrics) ShipmentTransition(status string) {
	m.transitions.WithLabelValues(status).Inc()
}

// EmailSent implementa notification.Recorder.
func (m *Metrics) EmailSent(template, result string) {
	m.emails.WithLabelValues(template, result).Inc()
}

// JobRun implementa scheduler.Recorder.
func (m *Metrics) JobRun(job, result string) {
	m.jobs.WithLabelValues(job, result).Inc()
}

// Handler exposición en formato texto para /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry para pruebas y colectores adicionales.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
