// Package metrics счётчики Prometheus для заказов и уведомлений.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Причины отказа в оформлении заказа.
const (
	ReasonAlreadySubscribed = "already_subscribed"
	ReasonAlreadyPurchased  = "already_purchased"
	ReasonDuplicateArticle  = "duplicate_article"
)

// Metrics набор счётчиков сервиса магазина.
type Metrics struct {
	OrdersCreated  prometheus.Counter
	OrderConflicts *prometheus.CounterVec
	Notifications  *prometheus.CounterVec
}

// New создаёт счётчики и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "webshop",
			Name:      "orders_created_total",
			Help:      "Number of orders placed.",
		}),
		OrderConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "webshop",
			Name:      "order_conflicts_total",
			Help:      "Number of orders rejected by placement rules.",
		}, []string{"reason"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "webshop",
			Name:      "notifications_total",
			Help:      "Number of SMS notifications by delivery result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.OrdersCreated, m.OrderConflicts, m.Notifications)
	return m
}

// OrderCreated учитывает оформленный заказ. Безопасен для nil.
func (m *Metrics) OrderCreated() {
	if m == nil {
		return
	}
	m.OrdersCreated.Inc()
}

// OrderConflict учитывает отказ по причине reason.
func (m *Metrics) OrderConflict(reason string) {
	if m == nil {
		return
	}
	m.OrderConflicts.WithLabelValues(reason).Inc()
}

// Notification учитывает результат отправки уведомления.
func (m *Metrics) Notification(delivered bool) {
	if m == nil {
		return
	}
	result := "failed"
	if delivered {
		result = "sent"
	}
	m.Notifications.WithLabelValues(result).Inc()
}
