package udaf

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rulego/udaf/aggregator"
	"github.com/rulego/udaf/types"
)

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

type metrics struct {
	distillations *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	cacheHits     prometheus.Counter
	cacheMisses   prometheus.Counter
}

// newMetrics creates the compiler metrics. A nil registerer leaves them unregistered.
func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		distillations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "udaf",
			Name:      "distillations_total",
			Help:      "Total number of distillations by aggregation kind and outcome.",
		}, []string{"kind", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "udaf",
			Name:      "distillation_duration_seconds",
			Help:      "Time spent distilling an expression.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"kind"}),
		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "udaf",
			Name:      "metadata_cache_hits_total",
			Help:      "Metadata lookups answered from the cache.",
		}),
		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "udaf",
			Name:      "metadata_cache_misses_total",
			Help:      "Metadata lookups sent to the metadata service.",
		}),
	}
}

func (m *metrics) observe(kind aggregator.Kind, err error, elapsed time.Duration) {
	m.duration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
	m.distillations.WithLabelValues(string(kind), outcome(err)).Inc()
}

// outcome labels a failure with its compile error type when it has one.
func outcome(err error) string {
	if err == nil {
		return outcomeSuccess
	}
	var ce *types.CompileError
	if errors.As(err, &ce) {
		return ce.Type.String()
	}
	return outcomeError
}
