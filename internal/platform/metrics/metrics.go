// Copyright (c) 2026 AuthFlow. All rights reserved.

/*
Package metrics provides Prometheus instrumentation for the gateway.

It covers two surfaces:

  - HTTP: response status counts and request latency.
  - Remote backend: per-operation call counts split by outcome, so a
    degrading identity platform is visible before users report it.

A single [Collector] is created in main and injected where needed; the
registry is exposed on /metrics.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// # Outcome Labels

const (
	// OutcomeSuccess labels a remote call that completed with a 2xx result.
	OutcomeSuccess = "success"
	// OutcomeRejected labels a structured backend rejection (4xx with body).
	OutcomeRejected = "rejected"
	// OutcomeTransport labels a transport or unexpected failure.
	OutcomeTransport = "transport"
)

// Recorder is the narrow contract the backend client and middleware use.
//
// Keeping it an interface lets tests run with a no-op recorder.
type Recorder interface {
	RecordHTTPStatus(statusCode int)
	RecordHTTPLatency(duration time.Duration)
	RecordRemoteCall(operation, outcome string)
}

// Collector is the Prometheus-backed [Recorder] implementation.
type Collector struct {
	httpStatus  *prometheus.CounterVec
	httpLatency prometheus.Histogram
	remoteCalls *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authflow_http_status_total",
			Help: "HTTP responses by status code",
		}, []string{"status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "authflow_http_latency_seconds",
			Help:    "Request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		remoteCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authflow_remote_call_total",
			Help: "Remote identity platform calls by operation and outcome",
		}, []string{"operation", "outcome"}),
	}

	reg.MustRegister(c.httpStatus, c.httpLatency, c.remoteCalls)

	return c
}

// RecordHTTPStatus counts one response with the given status code.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordHTTPLatency observes one request round-trip duration.
func (c *Collector) RecordHTTPLatency(duration time.Duration) {
	c.httpLatency.Observe(duration.Seconds())
}

// RecordRemoteCall counts one backend call for the given operation/outcome pair.
func (c *Collector) RecordRemoteCall(operation, outcome string) {
	c.remoteCalls.WithLabelValues(operation, outcome).Inc()
}

// Handler returns the /metrics scrape endpoint for the given registry.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// # Test Support

// Nop is a [Recorder] that discards everything. Used in tests.
type Nop struct{}

func (Nop) RecordHTTPStatus(int)           {}
func (Nop) RecordHTTPLatency(time.Duration) {}
func (Nop) RecordRemoteCall(string, string) {}
