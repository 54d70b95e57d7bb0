package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 注文まわりのカウンタ。nilレシーバでも安全に呼べるので
// テストではnilのまま渡せる
type OrderMetrics struct {
	placed      prometheus.Counter
	transitions *prometheus.CounterVec
}

func NewOrderMetrics() *OrderMetrics {
	placed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "minimart",
		Name:      "orders_placed_total",
		Help:      "Total number of orders placed.",
	})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "minimart",
		Name:      "order_status_transitions_total",
		Help:      "Total number of order fragment status transitions.",
	}, []string{"status"})

	prometheus.MustRegister(placed, transitions)
	return &OrderMetrics{placed: placed, transitions: transitions}
}

func (m *OrderMetrics) OrderPlaced() {
	if m == nil {
		return
	}
	m.placed.Inc()
}

func (m *OrderMetrics) StatusTransition(status string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(status).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
