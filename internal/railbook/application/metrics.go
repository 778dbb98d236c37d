package application

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	ticketsBooked    prometheus.Counter
	ticketsCancelled prometheus.Counter
	failedLogins     prometheus.Counter
}

// NewMetrics registers the railbook counters on reg. A nil reg leaves them
// unregistered, which is what tests want.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ticketsBooked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "railbook",
			Name:      "tickets_booked_total",
			Help:      "Seats booked.",
		}),
		ticketsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "railbook",
			Name:      "tickets_cancelled_total",
			Help:      "Bookings cancelled.",
		}),
		failedLogins: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "railbook",
			Name:      "failed_logins_total",
			Help:      "Login attempts that did not match a user.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Collectors()...)
	}
	return m
}

func (m *Metrics) TicketBooked()    { m.ticketsBooked.Inc() }
func (m *Metrics) TicketCancelled() { m.ticketsCancelled.Inc() }
func (m *Metrics) LoginFailed()     { m.failedLogins.Inc() }

func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.ticketsBooked, m.ticketsCancelled, m.failedLogins}
}
