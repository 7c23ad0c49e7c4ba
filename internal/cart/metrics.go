package cart

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts cart operations across all sessions
type Metrics struct {
	operations      *prometheus.CounterVec
	loadFailures    *prometheus.CounterVec
	persistFailures prometheus.Counter
	lineQuantity    prometheus.Histogram
}

// NewMetrics creates the cart collectors and registers them with reg when it is not nil
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_cart_operations_total",
				Help: "Total number of cart operations by kind and outcome",
			},
			[]string{"operation", "outcome"},
		),
		loadFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_cart_load_failures_total",
				Help: "Carts that fell back to empty on load",
			},
			[]string{"reason"},
		),
		persistFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "storefront_cart_persist_failures_total",
				Help: "Cart writes that failed to reach storage",
			},
		),
		lineQuantity: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "storefront_cart_line_quantity",
				Help:    "Quantity of a cart line after it was incremented",
				Buckets: []float64{1, 2, 3, 5, 10, 20},
			},
		),
	}

	if reg != nil {
		reg.MustRegister(m.operations, m.loadFailures, m.persistFailures, m.lineQuantity)
	}
	return m
}

func (m *Metrics) operation(op, outcome string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) loadFailed(reason string) {
	if m == nil {
		return
	}
	m.loadFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) persistFailed() {
	if m == nil {
		return
	}
	m.persistFailures.Inc()
}

func (m *Metrics) observeQuantity(q int) {
	if m == nil {
		return
	}
	m.lineQuantity.Observe(float64(q))
}
