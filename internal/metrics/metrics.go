package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bb84"

// Subsystems.
const (
	subsystemSession   = "session"
	subsystemRegistry  = "registry"
	subsystemTransport = "transport"
)

type Collector struct {
	phaseTransitions   *prometheus.CounterVec
	qber               prometheus.Histogram
	finalKeyLength     prometheus.Histogram
	messages           *prometheus.CounterVec
	resets             prometheus.Counter
	deliveries         prometheus.Counter
	deliveryFailures   prometheus.Counter
	connected          prometheus.Gauge
	droppedEvents      *prometheus.CounterVec
	simulations        prometheus.Counter
	simulationFailures prometheus.Counter
}

// New registers the collectors with reg. Passing prometheus.DefaultRegisterer
// exposes them on the default /metrics handler.
func New(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		phaseTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemSession,
			Name:      "phase_transitions_total",
			Help:      "count of session phase changes by target phase",
		}, []string{"phase"}),

		qber: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystemSession,
			Name:      "qber",
			Help:      "quantum bit error rate measured at basis comparison",
			Buckets:   []float64{0, 0.05, 0.1, 0.15, 0.2, 0.25, 0.3, 0.4, 0.5, 1},
		}),

		finalKeyLength: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystemSession,
			Name:      "final_key_bits",
			Help:      "length of the final key after error correction",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),

		messages: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemSession,
			Name:      "messages_total",
			Help:      "count of chat messages posted",
		}, []string{"encrypted"}),

		resets: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemSession,
			Name:      "resets_total",
			Help:      "count of session resets",
		}),

		deliveries: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemRegistry,
			Name:      "deliveries_total",
			Help:      "count of outbound events handed to a connection",
		}),

		deliveryFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemRegistry,
			Name:      "delivery_failures_total",
			Help:      "count of outbound events a connection refused",
		}),

		connected: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystemRegistry,
			Name:      "connected_participants",
			Help:      "number of identities holding a connection",
		}),

		droppedEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemTransport,
			Name:      "dropped_events_total",
			Help:      "count of inbound events dropped, by reason",
		}, []string{"reason"}),

		simulations: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulations_total",
			Help:      "count of one-shot simulations run",
		}),

		simulationFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulation_failures_total",
			Help:      "count of one-shot simulations that failed",
		}),
	}
}

// PhaseEntered counts a transition into phase.
func (c *Collector) PhaseEntered(phase string) {
	if c == nil {
		return
	}
	c.phaseTransitions.WithLabelValues(phase).Inc()
}

// KeyDerived records the outcome of a basis comparison.
func (c *Collector) KeyDerived(qber float64, finalKeyBits int) {
	if c == nil {
		return
	}
	c.qber.Observe(qber)
	c.finalKeyLength.Observe(float64(finalKeyBits))
}

func (c *Collector) MessagePosted(encrypted bool) {
	if c == nil {
		return
	}
	label := "false"
	if encrypted {
		label = "true"
	}
	c.messages.WithLabelValues(label).Inc()
}

func (c *Collector) SessionReset() {
	if c == nil {
		return
	}
	c.resets.Inc()
}

// Delivered records the result of a fan-out.
func (c *Collector) Delivered(ok, failed int) {
	if c == nil {
		return
	}
	c.deliveries.Add(float64(ok))
	c.deliveryFailures.Add(float64(failed))
}

func (c *Collector) SetConnected(n int) {
	if c == nil {
		return
	}
	c.connected.Set(float64(n))
}

// EventDropped counts an inbound event that was not applied.
func (c *Collector) EventDropped(reason string) {
	if c == nil {
		return
	}
	c.droppedEvents.WithLabelValues(reason).Inc()
}

func (c *Collector) SimulationRun(err error) {
	if c == nil {
		return
	}
	c.simulations.Inc()
	if err != nil {
		c.simulationFailures.Inc()
	}
}
