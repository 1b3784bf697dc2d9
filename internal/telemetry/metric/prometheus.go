// Package metric provides Prometheus metrics for rediskv.
package metric

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rediskv"

// Expiration outcomes.
const (
	ExpiryRemoved    = "removed"
	ExpiryMissing    = "missing"
	ExpirySuperseded = "superseded"
)

// Registry holds all application metrics.
//
// All methods are safe on a nil *Registry, which records nothing.
type Registry struct {
	registry *prometheus.Registry

	// Command metrics
	CommandsTotal   *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec

	// Connection metrics
	ConnectionsActive prometheus.Gauge
	ConnectionsTotal  prometheus.Counter
	ProtocolErrors    prometheus.Counter

	// Expiry metrics
	ExpirationsScheduled prometheus.Counter
	ExpirationsFired     *prometheus.CounterVec
	ExpirationsPending   prometheus.Gauge

	// Replication metrics
	ReplicationHandshakes *prometheus.CounterVec
}

// NewRegistry creates a registry with Go runtime and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		registry: reg,
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Commands processed, by command and status.",
		}, []string{"command", "status"}),
		CommandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Command execution latency.",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		}, []string{"command"}),
		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_active",
			Help:      "Currently open client connections.",
		}),
		ConnectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_total",
			Help:      "Client connections accepted.",
		}),
		ProtocolErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "protocol_errors_total",
			Help:      "Connections closed because of malformed RESP input.",
		}),
		ExpirationsScheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expirations_scheduled_total",
			Help:      "Expirations accepted by the scheduler.",
		}),
		ExpirationsFired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expirations_fired_total",
			Help:      "Expirations whose timer fired, by outcome.",
		}, []string{"result"}),
		ExpirationsPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "expirations_pending",
			Help:      "Expiration timers waiting to fire.",
		}),
		ReplicationHandshakes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replication_handshakes_total",
			Help:      "Handshakes with the configured master, by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		r.CommandsTotal,
		r.CommandDuration,
		r.ConnectionsActive,
		r.ConnectionsTotal,
		r.ProtocolErrors,
		r.ExpirationsScheduled,
		r.ExpirationsFired,
		r.ExpirationsPending,
		r.ReplicationHandshakes,
	)

	return r
}

var (
	globalOnce sync.Once
	global     *Registry
)

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		global = NewRegistry()
	})
	return global
}

// Handler returns an HTTP handler for the global registry.
func Handler() http.Handler {
	return Global().Handler()
}

// Handler returns an HTTP handler serving this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// MustRegister registers additional collectors, such as a KeyspaceCollector.
func (r *Registry) MustRegister(cs ...prometheus.Collector) {
	if r == nil {
		return
	}
	r.registry.MustRegister(cs...)
}

// ObserveCommand records one executed command.
func (r *Registry) ObserveCommand(name string, err error, d time.Duration) {
	if r == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.CommandsTotal.WithLabelValues(name, status).Inc()
	r.CommandDuration.WithLabelValues(name).Observe(d.Seconds())
}

// ConnOpened records an accepted connection.
func (r *Registry) ConnOpened() {
	if r == nil {
		return
	}
	r.ConnectionsTotal.Inc()
	r.ConnectionsActive.Inc()
}

// ConnClosed records a closed connection.
func (r *Registry) ConnClosed() {
	if r == nil {
		return
	}
	r.ConnectionsActive.Dec()
}

// IncProtocolError records a connection dropped for a protocol error.
func (r *Registry) IncProtocolError() {
	if r == nil {
		return
	}
	r.ProtocolErrors.Inc()
}

// ExpiryScheduled records a started expiration timer.
func (r *Registry) ExpiryScheduled() {
	if r == nil {
		return
	}
	r.ExpirationsScheduled.Inc()
	r.ExpirationsPending.Inc()
}

// ExpiryFired records a fired timer with its outcome.
func (r *Registry) ExpiryFired(result string) {
	if r == nil {
		return
	}
	r.ExpirationsFired.WithLabelValues(result).Inc()
	r.ExpirationsPending.Dec()
}

// ExpiryAbandoned records a timer dropped at shutdown.
func (r *Registry) ExpiryAbandoned() {
	if r == nil {
		return
	}
	r.ExpirationsPending.Dec()
}

// ObserveHandshake records a replication handshake outcome.
func (r *Registry) ObserveHandshake(err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.ReplicationHandshakes.WithLabelValues(result).Inc()
}
