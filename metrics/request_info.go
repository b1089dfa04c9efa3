// Package metrics carries per-connection bookkeeping (the request ID,
// timing, cache outcome) through a handler's lifetime, and exposes the
// prometheus collectors the acceptor and connection handler update.
package metrics

import (
	"context"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/paulbellamy/ratecounter"
	"github.com/prometheus/client_golang/prometheus"
)

type requestMetricKey struct{}

// RequestMetric tracks one accepted connection end to end, from accept
// to the final byte written back to the client.
type RequestMetric struct {
	StartAt     time.Time
	RequestID   string
	RecvBytes   uint64
	SentBytes   uint64
	StoreURL    string
	CacheStatus string
	RemoteAddr  string
}

// WithConnection returns a child context carrying a fresh RequestMetric
// for conn, and the metric itself so the handler can fill it in as the
// request progresses.
func WithConnection(ctx context.Context, conn net.Conn) (context.Context, *RequestMetric) {
	metric := &RequestMetric{
		StartAt:    time.Now(),
		RequestID:  uuid.NewString(),
		RemoteAddr: conn.RemoteAddr().String(),
	}
	return newContext(ctx, metric), metric
}

// FromContext returns the RequestMetric stashed by WithConnection, or an
// empty one if none is present.
func FromContext(ctx context.Context) *RequestMetric {
	if v, ok := ctx.Value(requestMetricKey{}).(*RequestMetric); ok {
		return v
	}
	return &RequestMetric{}
}

func newContext(ctx context.Context, metric *RequestMetric) context.Context {
	return context.WithValue(ctx, requestMetricKey{}, metric)
}

// Duration reports how long the connection has been open.
func (m *RequestMetric) Duration() time.Duration {
	return time.Since(m.StartAt)
}

var (
	connectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "relay",
		Subsystem: "proxy",
		Name:      "connections_total",
		Help:      "The total number of accepted connections.",
	})
	requestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "relay",
		Subsystem: "proxy",
		Name:      "request_duration_seconds",
		Help:      "Time from accept to final response byte written.",
		Buckets:   prometheus.DefBuckets,
	})
	originErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "relay",
		Subsystem: "proxy",
		Name:      "origin_errors_total",
		Help:      "The total number of failed origin fetches.",
	})
)

func init() {
	prometheus.MustRegister(connectionsTotal, requestDuration, originErrorsTotal)
}

// connectionRate is a 60-second rolling window used to report a cheap
// connections-per-second figure on /healthz, independent of prometheus
// scrape cadence.
var connectionRate = ratecounter.NewRateCounter(60 * time.Second)

// ObserveConnection records one accepted connection.
func ObserveConnection() {
	connectionsTotal.Inc()
	connectionRate.Incr(1)
}

// ConnectionRate reports the number of connections accepted per second,
// averaged over the trailing 60-second window.
func ConnectionRate() float64 {
	return float64(connectionRate.Rate()) / 60.0
}

// ObserveRequestDuration records the wall-clock time a connection's
// single request took end to end.
func ObserveRequestDuration(d time.Duration) { requestDuration.Observe(d.Seconds()) }

// ObserveOriginError records a failed origin fetch.
func ObserveOriginError() { originErrorsTotal.Inc() }
