package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Failure stages for CadastroFailures.
const (
	StageProtocol  = "protocol"
	StageDocuments = "documents"
	StageDecode    = "decode"
	StagePersist   = "persist"
	StageLookup    = "lookup"
)

// Metrics holds the Prometheus collectors for the registration service.
type Metrics struct {
	CadastrosCreated    prometheus.Counter
	CadastroFailures    *prometheus.CounterVec
	DocumentsStored     prometheus.Counter
	DocumentsSkipped    prometheus.Counter
	HTTPRequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New creates the collectors and registers them with reg. A nil reg gets a
// fresh registry, so tests can build as many instances as they like.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)
	return &Metrics{
		CadastrosCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "canaa_cadastros_created_total",
			Help: "Total number of registrations committed",
		}),
		CadastroFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "canaa_cadastro_failures_total",
			Help: "Total number of failed registrations by stage",
		}, []string{"stage"}),
		DocumentsStored: factory.NewCounter(prometheus.CounterOpts{
			Name: "canaa_documents_stored_total",
			Help: "Total number of supporting documents stored",
		}),
		DocumentsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "canaa_documents_skipped_total",
			Help: "Total number of uploads skipped for a disallowed extension",
		}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "canaa_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"route", "method", "code"}),
		registry: reg,
	}
}

// Registry returns the registry the collectors belong to.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) IncrementCadastrosCreated() {
	m.CadastrosCreated.Inc()
}

func (m *Metrics) IncrementFailure(stage string) {
	m.CadastroFailures.WithLabelValues(stage).Inc()
}

func (m *Metrics) AddDocuments(stored, skipped int) {
	m.DocumentsStored.Add(float64(stored))
	m.DocumentsSkipped.Add(float64(skipped))
}

// ObserveRequest records the duration of a request.
// Call with time.Now() at the start of the request.
func (m *Metrics) ObserveRequest(route, method string, code int, start time.Time) {
	m.HTTPRequestDuration.WithLabelValues(route, method, strconv.Itoa(code)).Observe(time.Since(start).Seconds())
}
