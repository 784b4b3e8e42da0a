package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every solrq metric.
const Namespace = "solrq"

// Solr collects metrics for outbound search requests and the response cache.
type Solr struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	CacheTotal      *prometheus.CounterVec
}

// NewSolr creates the collectors and registers them with reg.
// A nil reg leaves them unregistered. Collectors already registered on reg
// are reused, so several clients may share one registry.
func NewSolr(reg prometheus.Registerer) (*Solr, error) {
	m := &Solr{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "solr_requests_total",
				Help:      "Total number of requests sent to the search server",
			},
			[]string{"path", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "solr_request_duration_seconds",
				Help:      "Search server request duration in seconds",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"path"},
		),
		CacheTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "response_cache_total",
				Help:      "Response cache lookups by result",
			},
			[]string{"result"}, // "hit" / "miss" / "shared"
		),
	}
	if reg == nil {
		return m, nil
	}

	var err error
	if m.RequestsTotal, err = Register(reg, m.RequestsTotal); err != nil {
		return nil, err
	}
	if m.RequestDuration, err = Register(reg, m.RequestDuration); err != nil {
		return nil, err
	}
	if m.CacheTotal, err = Register(reg, m.CacheTotal); err != nil {
		return nil, err
	}
	return m, nil
}

// Register registers c on reg, or returns the collector already registered
// under the same description.
func Register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, err
	}
	return c, nil
}
