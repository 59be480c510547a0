// Package metrics exposes the Prometheus collectors of the highlights service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultNamespace = "highlights"

// Option applies a configuration option to the Recorder.
type Option func(*Recorder)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(r *Recorder) {
		if namespace != "" {
			r.namespace = namespace
		}
	}
}

// WithRegistry sets the registry metrics are registered on and served from.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(r *Recorder) {
		if registry != nil {
			r.registry = registry
		}
	}
}

// WithRuntimeCollectors adds the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(r *Recorder) {
		r.runtime = true
	}
}

// Recorder owns the service collectors. A nil *Recorder is a valid no-op.
type Recorder struct {
	namespace string
	registry  *prometheus.Registry
	runtime   bool

	upstreamFailures *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	duplicateFeedIDs prometheus.Counter
	feedSessions     prometheus.Gauge
	fixturesMissing  prometheus.Counter
}

func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{
		namespace: defaultNamespace,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(r)
	}

	auto := promauto.With(r.registry)
	if r.runtime {
		r.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	r.upstreamFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "upstream_fetch_failures_total",
		Help:      "Upstream fetches that failed and were omitted from their batch.",
	}, []string{"source", "operation"})

	r.upstreamLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Latency of upstream HTTP requests.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"source", "outcome"})

	r.duplicateFeedIDs = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "feed_duplicate_ids_total",
		Help:      "Feed item ids that collided with an earlier item in the same composed feed.",
	})

	r.feedSessions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Name:      "feed_sessions",
		Help:      "Live feed sessions held in memory.",
	})

	r.fixturesMissing = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "fixtures_missing_total",
		Help:      "Fixtures dropped from a listing because their match detail could not be resolved.",
	})

	return r
}

func (r *Recorder) UpstreamFailure(source, operation string) {
	if r == nil {
		return
	}
	r.upstreamFailures.WithLabelValues(source, operation).Inc()
}

func (r *Recorder) ObserveUpstream(source string, elapsed time.Duration, err error) {
	if r == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.upstreamLatency.WithLabelValues(source, outcome).Observe(elapsed.Seconds())
}

func (r *Recorder) DuplicateFeedIDs(count int) {
	if r == nil || count <= 0 {
		return
	}
	r.duplicateFeedIDs.Add(float64(count))
}

func (r *Recorder) SetFeedSessions(count int) {
	if r == nil {
		return
	}
	r.feedSessions.Set(float64(count))
}

func (r *Recorder) FixturesMissing(count int) {
	if r == nil || count <= 0 {
		return
	}
	r.fixturesMissing.Add(float64(count))
}

func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
