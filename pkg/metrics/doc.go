// Package metrics exposes Prometheus counters for the handler engine:
// requests by status, request validation errors by source and type, server
// errors, and deferred task outcomes. *Metrics satisfies deferred.Observer.
//
//	m := metrics.New("catalog", metrics.WithRuntimeCollectors())
//	r.Handle("/metrics", m.Handler())
package metrics
