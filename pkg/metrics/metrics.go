package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/apikit/pkg/validator"
)

// Metrics holds the engine's collectors on a private registry. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	validation      *prometheus.CounterVec
	serverErrors    *prometheus.CounterVec
	tasks           *prometheus.CounterVec
	taskDuration    *prometheus.HistogramVec
}

// Option configures Metrics.
type Option func(*options)

type options struct {
	runtime bool
	buckets []float64
}

// WithRuntimeCollectors adds the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(o *options) {
		o.runtime = true
	}
}

// WithBuckets overrides the request and task duration buckets.
func WithBuckets(buckets ...float64) Option {
	return func(o *options) {
		if len(buckets) > 0 {
			o.buckets = buckets
		}
	}
}

// New creates the collectors under namespace and registers them.
func New(namespace string, opts ...Option) *Metrics {
	o := &options{buckets: prometheus.DefBuckets}
	for _, opt := range opts {
		opt(o)
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of handled requests",
			},
			[]string{"handler", "method", "code"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Time from binding to the written response",
				Buckets:   o.buckets,
			},
			[]string{"handler", "method"},
		),
		validation: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_errors_total",
				Help:      "Request validation errors by source and error type",
			},
			[]string{"handler", "source", "type"},
		),
		serverErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "server_errors_total",
				Help:      "Unhandled errors and invalid responses",
			},
			[]string{"handler", "kind"},
		),
		tasks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "deferred_tasks_total",
				Help:      "Deferred tasks by outcome",
			},
			[]string{"task", "outcome"},
		),
		taskDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "deferred_task_duration_seconds",
				Help:      "Run time of deferred tasks",
				Buckets:   o.buckets,
			},
			[]string{"task"},
		),
	}

	m.registry.MustRegister(m.requests, m.requestDuration, m.validation, m.serverErrors, m.tasks, m.taskDuration)
	if o.runtime {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// Registry exposes the underlying registry for additional collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one finished request.
func (m *Metrics) ObserveRequest(handler, method string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(handler, method, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(handler, method).Observe(d.Seconds())
}

// ValidationFailed counts every error of a failed binding by the source of
// its location and its error type.
func (m *Metrics) ValidationFailed(handler string, errs validator.FieldErrors) {
	if m == nil {
		return
	}
	for _, fe := range errs {
		source := "unknown"
		if len(fe.Loc) > 0 {
			if s, ok := fe.Loc[0].(string); ok {
				source = s
			}
		}
		m.validation.WithLabelValues(handler, source, string(fe.Type)).Inc()
	}
}

// ServerError counts a server-side failure: "unhandled", "response" or "variant".
func (m *Metrics) ServerError(handler, kind string) {
	if m == nil {
		return
	}
	m.serverErrors.WithLabelValues(handler, kind).Inc()
}

// TaskDone records the outcome of a deferred task.
func (m *Metrics) TaskDone(name string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "failed"
	}
	m.tasks.WithLabelValues(name, outcome).Inc()
	m.taskDuration.WithLabelValues(name).Observe(d.Seconds())
}
