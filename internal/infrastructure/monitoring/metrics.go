package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	CustomerEventsTotal *prometheus.CounterVec
}

const (
	EventRegistered = "registered"
	EventUpdated    = "updated"
	EventDeleted    = "deleted"
)

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "customer_api_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		CustomerEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "customer_api_customer_events_total",
				Help: "Total number of successful customer mutations by kind.",
			},
			[]string{"event"},
		),
	}
)

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

// ObserveQuery returns a func that records the elapsed time of queryName
// with a status derived from the error it is given.
func ObserveQuery(queryName string) func(err error) {
	start := time.Now()
	return func(err error) {
		status := "success"
		if err != nil {
			status = "error"
		}
		RecordDBQuery(queryName, status, time.Since(start))
	}
}

func RecordCustomerEvent(event string) {
	Business.CustomerEventsTotal.WithLabelValues(event).Inc()
}
