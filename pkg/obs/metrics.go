package obs

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	OrdersCreated      prometheus.Counter
	AppointmentsBooked prometheus.Counter
	WebhookEvents      *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "careconnect",
			Name:      "orders_created_total",
			Help:      "Orders accepted at checkout.",
		}),
		AppointmentsBooked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "careconnect",
			Name:      "appointments_booked_total",
			Help:      "Appointments booked without a slot conflict.",
		}),
		WebhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "careconnect",
			Name:      "payment_webhook_events_total",
			Help:      "Payment webhook deliveries by outcome.",
		}, []string{"outcome"}),
	}
	prometheus.MustRegister(m.OrdersCreated, m.AppointmentsBooked, m.WebhookEvents)
	return m
}
