// Package monitor keeps the process-wide connection and message counters
// exposed to clients through get_monitoring, and mirrors them to Prometheus.
package monitor

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	ActiveConnections int64 `json:"activeConnections"`
	TotalConnections  int64 `json:"totalConnections"`
	MessagesCount     int64 `json:"messagesCount"`
}

type metrics struct {
	activeConnections prometheus.Gauge
	totalConnections  prometheus.Counter
	messagesSent      prometheus.Counter
	rateLimited       prometheus.Counter
	eventsPublished   *prometheus.CounterVec
}

// Counters holds MonitoringCounters. The zero value is not usable; call New.
type Counters struct {
	active   atomic.Int64
	total    atomic.Int64
	messages atomic.Int64
	metrics  *metrics
}

// Option configures New.
type Option func(*options)

type options struct {
	namespace string
	registry  prometheus.Registerer
}

// WithNamespace sets the metrics namespace (default "boardchat").
func WithNamespace(namespace string) Option {
	return func(o *options) {
		o.namespace = namespace
	}
}

// WithRegistry sets the registerer the collectors are added to. Passing nil
// disables the Prometheus mirror.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(o *options) {
		o.registry = registry
	}
}

// New creates Counters registered on prometheus.DefaultRegisterer unless
// WithRegistry says otherwise.
func New(opts ...Option) *Counters {
	o := options{namespace: "boardchat", registry: prometheus.DefaultRegisterer}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Counters{}
	if o.registry != nil {
		c.metrics = initMetrics(o)
	}
	return c
}

func initMetrics(o options) *metrics {
	factory := promauto.With(o.registry)

	return &metrics{
		activeConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: o.namespace,
			Name:      "active_connections",
			Help:      "Number of authenticated realtime sessions",
		}),
		totalConnections: factory.NewCounter(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "connections_total",
			Help:      "Total number of accepted realtime connections",
		}),
		messagesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "messages_total",
			Help:      "Total number of persisted chat messages",
		}),
		rateLimited: factory.NewCounter(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "rate_limited_total",
			Help:      "Total number of chat messages rejected by the rate limiter",
		}),
		eventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "events_published_total",
			Help:      "Total number of events fanned out to all sessions",
		}, []string{"event"}),
	}
}

// Connected records a newly accepted connection.
func (c *Counters) Connected() {
	c.total.Add(1)
	if c.metrics != nil {
		c.metrics.totalConnections.Inc()
	}
}

// Authenticated records a session that passed authentication.
func (c *Counters) Authenticated() {
	c.active.Add(1)
	if c.metrics != nil {
		c.metrics.activeConnections.Inc()
	}
}

// Departed records the close of an authenticated session.
func (c *Counters) Departed() {
	c.active.Add(-1)
	if c.metrics != nil {
		c.metrics.activeConnections.Dec()
	}
}

// MessageSent records a persisted chat message.
func (c *Counters) MessageSent() {
	c.messages.Add(1)
	if c.metrics != nil {
		c.metrics.messagesSent.Inc()
	}
}

// RateLimited records a rejected chat message. It is only exported to
// Prometheus.
func (c *Counters) RateLimited() {
	if c.metrics != nil {
		c.metrics.rateLimited.Inc()
	}
}

// Published records one fan-out of the named event.
func (c *Counters) Published(event string) {
	if c.metrics != nil {
		c.metrics.eventsPublished.WithLabelValues(event).Inc()
	}
}

// Snapshot returns the current counter values.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		ActiveConnections: c.active.Load(),
		TotalConnections:  c.total.Load(),
		MessagesCount:     c.messages.Load(),
	}
}
