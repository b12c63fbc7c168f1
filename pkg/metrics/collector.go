package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/psantana5/lapwatch/pkg/models"
)

// Collector exports Prometheus metrics for stopwatch activity. It observes
// both the store (creations) and every stopwatch the store creates.
type Collector struct {
	created     prometheus.Counter
	rejected    *prometheus.CounterVec
	transitions *prometheus.CounterVec
	running     prometheus.Gauge
	lapDuration prometheus.Histogram
}

// NewCollector creates the metrics and registers them on reg
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		created: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lapwatch_stopwatches_created_total",
				Help: "Total stopwatches created by the store",
			},
		),
		rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lapwatch_create_rejected_total",
				Help: "Stopwatch creations rejected by the store",
			},
			[]string{"reason"},
		),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lapwatch_transitions_total",
				Help: "Successful stopwatch operations",
			},
			[]string{"op"},
		),
		running: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "lapwatch_running_stopwatches",
				Help: "Stopwatches currently running",
			},
		),
		lapDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lapwatch_lap_duration_seconds",
				Help:    "Recorded lap durations, including the final lap on stop",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
			},
		),
	}

	for _, col := range []prometheus.Collector{c.created, c.rejected, c.transitions, c.running, c.lapDuration} {
		if err := reg.Register(col); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}

	// Pre-create label values so every op is exported from the start
	for _, op := range models.Operations {
		c.transitions.WithLabelValues(string(op))
	}
	return c, nil
}

// OnCreate records a stopwatch creation
func (c *Collector) OnCreate(id string) {
	c.created.Inc()
}

// OnCreateRejected records a rejected creation
func (c *Collector) OnCreateRejected(id, reason string) {
	c.rejected.WithLabelValues(reason).Inc()
}

// OnTransition records a successful operation and tracks running stopwatches
func (c *Collector) OnTransition(id string, op models.Operation, from, to models.StopwatchState) {
	c.transitions.WithLabelValues(string(op)).Inc()

	wasRunning := models.IsRunningState(from)
	isRunning := models.IsRunningState(to)
	switch {
	case !wasRunning && isRunning:
		c.running.Inc()
	case wasRunning && !isRunning:
		c.running.Dec()
	}
}

// OnLap records a lap duration
func (c *Collector) OnLap(id string, d time.Duration) {
	c.lapDuration.Observe(d.Seconds())
}
