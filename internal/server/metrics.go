package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cardroom/holdemd/internal/game"
)

// Metrics holds the server's prometheus instruments.
type Metrics struct {
	ActiveTables     prometheus.Gauge
	ConnectedClients prometheus.Gauge
	HandsPlayed      prometheus.Counter
	ActionsReceived  prometheus.Counter
	EventsBroadcast  *prometheus.CounterVec
}

// NewMetrics registers the server metrics with the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ActiveTables: factory.NewGauge(prometheus.GaugeOpts{
			Name: "holdemd_active_tables",
			Help: "Number of open tables.",
		}),
		ConnectedClients: factory.NewGauge(prometheus.GaugeOpts{
			Name: "holdemd_connected_clients",
			Help: "Number of attached WebSocket clients.",
		}),
		HandsPlayed: factory.NewCounter(prometheus.CounterOpts{
			Name: "holdemd_hands_played_total",
			Help: "Hands completed across all tables.",
		}),
		ActionsReceived: factory.NewCounter(prometheus.CounterOpts{
			Name: "holdemd_actions_received_total",
			Help: "Betting actions received from clients.",
		}),
		EventsBroadcast: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "holdemd_events_broadcast_total",
			Help: "Events fanned out to clients, by event type.",
		}, []string{"event"}),
	}
}

// observeEvent records a broadcast and derives the hands-played counter
// from hand_over events.
func (m *Metrics) observeEvent(event string) {
	if m == nil {
		return
	}
	m.EventsBroadcast.WithLabelValues(event).Inc()
	if event == game.EventHandOver {
		m.HandsPlayed.Inc()
	}
}
