package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// queryDuration measures how long queries take.
	// Labels: op (contains, starts, ends, substring, hooks), status (ok, invalid)
	queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gaddag",
		Name:      "query_duration_seconds",
		Help:      "Query latency in seconds",
		Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	}, []string{"op", "status"})

	queryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gaddag",
		Name:      "query_total",
		Help:      "Total queries served",
	}, []string{"op", "status"})

	// Labels: status (ok, error)
	indexReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gaddag",
		Name:      "index_reloads_total",
		Help:      "Total index reload attempts",
	}, []string{"status"})

	indexWords = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "gaddag",
		Name:      "index_words",
		Help:      "Number of words in the index being served",
	})
)

// RecordQuery records the outcome of one query.
func RecordQuery(op, status string, d time.Duration) {
	queryDuration.WithLabelValues(op, status).Observe(d.Seconds())
	queryTotal.WithLabelValues(op, status).Inc()
}

// RecordReload records a reload attempt and, when it succeeded, the size of
// the new index.
func RecordReload(err error, words int) {
	if err != nil {
		indexReloads.WithLabelValues("error").Inc()
		return
	}
	indexReloads.WithLabelValues("ok").Inc()
	indexWords.Set(float64(words))
}
