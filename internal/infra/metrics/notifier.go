package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	queue(
		notificationsTotal,
		broadcastRecipientsTotal,
		triggerAuthFailuresTotal,
	)
}

var (
	notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_notifications_total",
			Help: "Order-ready notifications by delivery result.",
		},
		[]string{"result"}, // delivered | recipient_unknown | transport_failed
	)

	broadcastRecipientsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broadcast_recipients_total",
			Help: "Broadcast fan-out outcomes per recipient.",
		},
		[]string{"result"}, // sent | failed
	)

	triggerAuthFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trigger_auth_failures_total",
			Help: "Rejected trigger-notification calls (bad or missing key).",
		},
	)
)

func IncNotification(result string) {
	notificationsTotal.WithLabelValues(norm(result)).Inc()
}

func IncBroadcastRecipient(result string) {
	broadcastRecipientsTotal.WithLabelValues(norm(result)).Inc()
}

func IncTriggerAuthFailure() {
	triggerAuthFailuresTotal.Inc()
}
