package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics to track
var (
	PartiesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "party_created_total",
			Help: "Total number of parties created",
		},
	)
	JoinRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "party_join_requests_total",
			Help: "Total number of party join requests received",
		},
		[]string{"status"}, // Labels: status (e.g., success, error)
	)
	MessagesSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_messages_sent_total",
			Help: "Total number of chat messages appended",
		},
	)
	TeamsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "team_created_total",
			Help: "Total number of teams created",
		},
	)
)

// InitMetrics initializes and registers Prometheus metrics
func InitMetrics() {
	// Register metrics
	prometheus.MustRegister(PartiesCreated, JoinRequests, MessagesSent, TeamsCreated)
}
