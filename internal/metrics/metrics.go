// Package metrics exposes the sink's prometheus counters.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the counters the sink updates while shipping.
type Metrics struct {
	// RecordsIn counts records read from the source.
	RecordsIn prometheus.Counter

	// RecordsShipped counts records delivered in successful pushes.
	RecordsShipped prometheus.Counter

	// BatchesSent counts successful batch pushes.
	BatchesSent prometheus.Counter

	// BytesSent counts payload bytes of successful pushes.
	BytesSent prometheus.Counter

	// SendErrors counts failed pushes.
	SendErrors prometheus.Counter
}

// New creates the counters and registers them on reg. Tests pass
// prometheus.NewRegistry() to keep registrations isolated.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RecordsIn:      counter("records_in_total", "Records read from the source."),
		RecordsShipped: counter("records_shipped_total", "Records delivered in successful pushes."),
		BatchesSent:    counter("batches_sent_total", "Successful batch pushes."),
		BytesSent:      counter("bytes_sent_total", "Payload bytes of successful pushes."),
		SendErrors:     counter("send_errors_total", "Failed batch pushes."),
	}
	reg.MustRegister(m.RecordsIn, m.RecordsShipped, m.BatchesSent, m.BytesSent, m.SendErrors)
	return m
}

func counter(name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "lokiship",
		Name:      name,
		Help:      help,
	})
}
