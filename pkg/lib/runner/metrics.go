package runner

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/SanjoDeundiak/server-launcher/pkg/lib"
)

// Metrics counts lifecycle transitions of every supervisor of a registry.
// A nil *Metrics records nothing.
type Metrics struct {
	starts        *prometheus.CounterVec
	spawnFailures *prometheus.CounterVec
	exits         *prometheus.CounterVec
	kills         *prometheus.CounterVec
	running       prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg when reg is
// not nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		starts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "server_launcher",
			Name:      "process_starts_total",
			Help:      "Processes spawned successfully.",
		}, []string{"kind"}),
		spawnFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "server_launcher",
			Name:      "process_spawn_failures_total",
			Help:      "Spawn attempts the OS rejected.",
		}, []string{"kind"}),
		exits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "server_launcher",
			Name:      "process_exits_total",
			Help:      "Process exits by exit status.",
		}, []string{"kind", "exit_status"}),
		kills: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "server_launcher",
			Name:      "process_kills_total",
			Help:      "Forced kills by reason.",
		}, []string{"reason"}),
		running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "server_launcher",
			Name:      "processes_running",
			Help:      "Processes with a live OS handle.",
		}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.starts, m.spawnFailures, m.exits, m.kills, m.running} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) started(kind lib.LaunchKind) {
	if m == nil {
		return
	}
	m.starts.WithLabelValues(kind.String()).Inc()
	m.running.Inc()
}

func (m *Metrics) spawnFailed(kind lib.LaunchKind) {
	if m == nil {
		return
	}
	m.spawnFailures.WithLabelValues(kind.String()).Inc()
}

func (m *Metrics) exited(kind lib.LaunchKind, status lib.ExitStatus) {
	if m == nil {
		return
	}
	m.exits.WithLabelValues(kind.String(), status.String()).Inc()
	m.running.Dec()
}

// released covers handles that went away without an exit status.
func (m *Metrics) released() {
	if m == nil {
		return
	}
	m.running.Dec()
}

func (m *Metrics) killed(reason string) {
	if m == nil {
		return
	}
	m.kills.WithLabelValues(reason).Inc()
}
