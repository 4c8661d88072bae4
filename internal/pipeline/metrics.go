package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the pipeline's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	documents *prometheus.CounterVec
	pages     *prometheus.CounterVec
	duration  prometheus.Histogram
}

// NewMetrics creates and registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "invoice_documents_total",
			Help: "Documents processed, by outcome.",
		}, []string{"outcome"}),
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "invoice_pages_total",
			Help: "Pages processed, by text origin and outcome.",
		}, []string{"origin", "outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "invoice_processing_seconds",
			Help:    "Wall time of one document through the pipeline.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
	}
	if reg != nil {
		reg.MustRegister(m.documents, m.pages, m.duration)
	}
	return m
}

func (m *Metrics) observePage(origin, outcome string) {
	if m == nil {
		return
	}
	m.pages.WithLabelValues(origin, outcome).Inc()
}

func (m *Metrics) observeDocument(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(outcome).Inc()
	m.duration.Observe(d.Seconds())
}
