package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "autoparts_shop"

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	cartOps          *prometheus.CounterVec
	checkouts        *prometheus.CounterVec
	orderValue       prometheus.Histogram
	codeRetries      prometheus.Counter
	paymentCallbacks *prometheus.CounterVec
	reservations     prometheus.Counter
	httpDuration     *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cartOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cart", Name: "operations_total",
			Help: "Cart mutations by operation and result.",
		}, []string{"op", "result"}),
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "orders", Name: "checkouts_total",
			Help: "Order creation attempts by entry point and result.",
		}, []string{"path", "result"}),
		orderValue: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "orders", Name: "total_price",
			Help:    "Frozen order totals in minor currency units.",
			Buckets: prometheus.ExponentialBuckets(1000, 4, 8),
		}),
		codeRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "orders", Name: "code_collisions_total",
			Help: "Order code candidates rejected because they were already in use.",
		}),
		paymentCallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "payments", Name: "callbacks_total",
			Help: "Payment callbacks by reported status and outcome.",
		}, []string{"status", "outcome"}),
		reservations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cart", Name: "reservations_released_total",
			Help: "Idle carts emptied by the reservation release job.",
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "code"}),
	}

	if reg != nil {
		reg.MustRegister(m.cartOps, m.checkouts, m.orderValue, m.codeRetries,
			m.paymentCallbacks, m.reservations, m.httpDuration)
	}
	return m
}

func (m *Metrics) CartOp(op string, err error) {
	if m == nil {
		return
	}
	m.cartOps.WithLabelValues(op, result(err)).Inc()
}

func (m *Metrics) Checkout(path string, err error, total int64) {
	if m == nil {
		return
	}
	m.checkouts.WithLabelValues(path, result(err)).Inc()
	if err == nil {
		m.orderValue.Observe(float64(total))
	}
}

func (m *Metrics) CodeCollision() {
	if m == nil {
		return
	}
	m.codeRetries.Inc()
}

func (m *Metrics) PaymentCallback(status, outcome string) {
	if m == nil {
		return
	}
	m.paymentCallbacks.WithLabelValues(status, outcome).Inc()
}

func (m *Metrics) ReservationsReleased(n int) {
	if m == nil {
		return
	}
	m.reservations.Add(float64(n))
}

// ObserveHTTP matches loggingmw.Observer.
func (m *Metrics) ObserveHTTP(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(dur.Seconds())
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
