package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	QueriesTotal     *prometheus.CounterVec
	AttemptsTotal    *prometheus.CounterVec
	SessionRestarts  prometheus.Counter
	ListingsEmitted  *prometheus.CounterVec
	ItemsLoaded      prometheus.Histogram
	SinkWritesTotal  *prometheus.CounterVec
	QueryDuration    prometheus.Histogram
	PendingBatches   prometheus.Gauge
	DetailPagesTotal *prometheus.CounterVec

	once sync.Once
)

// Init registers all collectors with the default registry. Safe to call more than once.
func Init() {
	once.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maps_scraper_queries_total",
			Help: "Queries processed, by final status.",
		},
		[]string{"status"}, // succeeded, failed
	)

	AttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maps_scraper_attempts_total",
			Help: "Scrape attempts, by outcome.",
		},
		[]string{"outcome"}, // done, search_failed, too_few_items, error
	)

	SessionRestarts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "maps_scraper_session_restarts_total",
			Help: "Browser sessions recreated after a fault.",
		},
	)

	ListingsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maps_scraper_listings_emitted_total",
			Help: "Deduplicated listings handed to the sinks.",
		},
		[]string{"category"},
	)

	ItemsLoaded = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "maps_scraper_items_loaded",
			Help:    "Result items rendered after scrolling.",
			Buckets: []float64{10, 25, 50, 100, 150, 200, 250, 300},
		},
	)

	SinkWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maps_scraper_sink_writes_total",
			Help: "Sink writes, by sink and status.",
		},
		[]string{"sink", "status"},
	)

	QueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "maps_scraper_query_duration_seconds",
			Help:    "Wall time of one query including retries.",
			Buckets: []float64{10, 30, 60, 120, 300, 600, 1200},
		},
	)

	PendingBatches = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "maps_scraper_pending_batches",
			Help: "Batches waiting for a sink retry.",
		},
	)

	DetailPagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maps_scraper_detail_pages_total",
			Help: "Detail pages visited by the enricher.",
		},
		[]string{"section", "status"}, // status: enriched, skipped, failed
	)
}
