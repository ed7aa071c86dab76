// Package metrics holds the engine's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rewards"

// PointsGranted counts points awarded per activity.
var PointsGranted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "earning",
	Name:      "points_granted_total",
	Help:      "Total points granted, by activity.",
}, []string{"activity"})

// Rejections counts operations refused with a stable reason code.
var Rejections = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "rejections_total",
	Help:      "Total rejected operations, by operation and reason.",
}, []string{"operation", "reason"})

var Redemptions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "rewards",
	Name:      "redemptions_total",
	Help:      "Total successful redemptions, by reward.",
}, []string{"reward"})

var RedemptionsPurged = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "rewards",
	Name:      "redemptions_purged_total",
	Help:      "Total expired unused redemptions deleted by the sweeper.",
})

var StakesOpened = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "staking",
	Name:      "positions_opened_total",
	Help:      "Total staking positions opened, by tier.",
}, []string{"tier"})

var StakesClosed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "staking",
	Name:      "positions_closed_total",
	Help:      "Total staking positions closed, by tier.",
}, []string{"tier"})

// StakedPoints tracks principal currently escrowed in active positions.
var StakedPoints = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Subsystem: "staking",
	Name:      "escrowed_points",
	Help:      "Points currently locked in active staking positions held by this process.",
})

var NotificationsDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "notifier",
	Name:      "delivered_total",
	Help:      "Total events delivered, by sink.",
}, []string{"sink"})

var NotificationsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "notifier",
	Name:      "failed_total",
	Help:      "Total events that could not be delivered or queued, by sink.",
}, []string{"sink"})

var NotificationQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Subsystem: "notifier",
	Name:      "queue_depth",
	Help:      "Events waiting for a delivery worker.",
})

// Reject records a refused operation when err carries a reason code.
func Reject(operation, reason string) {
	if reason == "" {
		reason = "internal"
	}
	Rejections.WithLabelValues(operation, reason).Inc()
}
