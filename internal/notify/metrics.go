package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	enqueuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "marketplace",
		Subsystem: "notifications",
		Name:      "enqueued_total",
		Help:      "Notifications accepted by the queue.",
	}, []string{"kind"})

	enqueueErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "marketplace",
		Subsystem: "notifications",
		Name:      "enqueue_errors_total",
		Help:      "Notifications the queue refused.",
	}, []string{"kind"})

	sentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "marketplace",
		Subsystem: "notifications",
		Name:      "sent_total",
		Help:      "Notifications delivered to the mail server.",
	}, []string{"kind"})

	retriedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "marketplace",
		Subsystem: "notifications",
		Name:      "retried_total",
		Help:      "Failed deliveries scheduled for another attempt.",
	}, []string{"kind"})

	failedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "marketplace",
		Subsystem: "notifications",
		Name:      "failed_total",
		Help:      "Notifications dropped after exhausting their attempts.",
	}, []string{"kind"})
)
