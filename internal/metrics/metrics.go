package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
// Collectors are registered on a private registry so a process (or a test)
// can create more than one Metrics without duplicate registration panics
type Metrics struct {
	Registry *prometheus.Registry

	// Lookup Metrics
	LookupsTotal *prometheus.CounterVec
	LookupErrors *prometheus.CounterVec

	// Fetch Metrics
	FetchDuration *prometheus.HistogramVec
	DocumentSize  *prometheus.HistogramVec

	// Extraction Metrics
	FieldsExtracted *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		LookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "geo_lookups_total",
				Help: "Total number of IP geolocation lookups by result",
			},
			[]string{"result"},
		),

		LookupErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "geo_lookup_errors_total",
				Help: "Total number of failed lookups by error type",
			},
			[]string{"error_type"},
		),

		FetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "geo_fetch_duration_seconds",
				Help:    "Document fetch latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),

		DocumentSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "geo_document_size_bytes",
				Help:    "Size of fetched geolocation documents in bytes",
				Buckets: prometheus.ExponentialBuckets(64, 4, 6),
			},
			[]string{"source"},
		),

		FieldsExtracted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "geo_fields_extracted_total",
				Help: "Total number of populated fields by name",
			},
			[]string{"field"},
		),
	}
}

// WriteTextfile writes the current metric values in the text exposition
// format, for pickup by the node exporter textfile collector
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
