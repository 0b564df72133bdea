package service

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the domain counters exported next to the HTTP metrics.
type Metrics struct {
	TicketsCreated prometheus.Counter
	StatusChanges  *prometheus.CounterVec
	ImportRows     *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TicketsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kioskdesk_tickets_created_total",
			Help: "Tickets created through the API or CSV import.",
		}),
		StatusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kioskdesk_ticket_status_changes_total",
			Help: "Ticket status transitions.",
		}, []string{"from", "to"}),
		ImportRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kioskdesk_csv_import_rows_total",
			Help: "CSV rows processed by import, by outcome.",
		}, []string{"entity", "result"}),
	}
	reg.MustRegister(m.TicketsCreated, m.StatusChanges, m.ImportRows)
	return m
}
