package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookmyflower_orders_submitted_total",
		Help: "Orders persisted, by whether a coupon was applied.",
	}, []string{"coupon_applied"})

	OrderRevenue = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookmyflower_order_revenue_total",
		Help: "Sum of server-computed order totals at submission.",
	})

	StatusUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookmyflower_order_status_updates_total",
		Help: "Order status changes, by new status.",
	}, []string{"status"})

	PincodeChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookmyflower_pincode_checks_total",
		Help: "Pincode serviceability lookups, by outcome.",
	}, []string{"result"})

	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookmyflower_notifications_total",
		Help: "Email dispatch attempts, by kind and result.",
	}, []string{"kind", "result"})
)

// NotificationResult records the outcome of one email dispatch.
func NotificationResult(kind string, err error) {
	result := "sent"
	if err != nil {
		result = "failed"
	}
	Notifications.WithLabelValues(kind, result).Inc()
}
