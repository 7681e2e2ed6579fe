package prometheus

import (
	"fmt"
	"time"
)

// AppMetrics holds all application metrics.
type AppMetrics struct {
	// HTTP Layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPRequestSize     HistogramVec
	HTTPResponseSize    HistogramVec
	HTTPActiveRequests  GaugeVec

	// Deck Layer
	DeckCardsTotal        CounterVec
	DeckAnalysisTotal     CounterVec
	DeckAnalysisDuration  HistogramVec
	DeckCardCount         HistogramVec
	DeckDuplicatesSkipped CounterVec

	// Scoring Layer
	ScoringRequestsTotal CounterVec
	ScoringDuration      HistogramVec
	ComparabilityScore   HistogramVec
	TwinSearchTotal      CounterVec
	TwinMatchesFound     HistogramVec

	// Renovation Layer
	RenovationEstimatesTotal CounterVec
	RenovationEstimateTotals HistogramVec

	// Export Layer
	ExportRequestsTotal CounterVec
	ExportDuration      HistogramVec
	ExportSizeBytes     HistogramVec

	// Infrastructure Layer
	DBConnectionPoolSize   GaugeVec
	DBConnectionPoolActive GaugeVec
	DBQueryDuration        HistogramVec
	CacheHitsTotal         CounterVec
	CacheMissesTotal       CounterVec
	EventsPublishedTotal   CounterVec
	EventPublishDuration   HistogramVec

	// System Health
	ServiceUptime     GaugeVec
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

// Default Buckets
var (
	DefaultHTTPDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultDBDurationBuckets   = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
	DefaultSizeBuckets         = []float64{100, 1000, 10000, 100000, 1000000, 10000000}
	DefaultScoreBuckets        = []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100, 110}
	DefaultCardCountBuckets    = []float64{1, 2, 3, 5, 8, 13, 21, 34}
	DefaultCostBuckets         = []float64{10000, 25000, 50000, 100000, 150000, 250000, 500000}
)

// NewAppMetrics registers all metrics and returns AppMetrics struct.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	// HTTP
	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPRequestSize = collector.RegisterHistogram("http_request_size_bytes", "HTTP request size", DefaultSizeBuckets, "method", "path")
	m.HTTPResponseSize = collector.RegisterHistogram("http_response_size_bytes", "HTTP response size", DefaultSizeBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method", "path")

	// Deck
	m.DeckCardsTotal = collector.RegisterCounter("deck_cards_total", "Cards added to decks", "role")
	m.DeckAnalysisTotal = collector.RegisterCounter("deck_analysis_total", "Deck analyses generated", "status")
	m.DeckAnalysisDuration = collector.RegisterHistogram("deck_analysis_duration_seconds", "Deck analysis duration", DefaultHTTPDurationBuckets, "source")
	m.DeckCardCount = collector.RegisterHistogram("deck_card_count", "Card count per analyzed deck", DefaultCardCountBuckets)
	m.DeckDuplicatesSkipped = collector.RegisterCounter("deck_duplicates_skipped_total", "Duplicate cards collapsed on add", "match")

	// Scoring
	m.ScoringRequestsTotal = collector.RegisterCounter("scoring_requests_total", "Comparability scorings performed", "scorer")
	m.ScoringDuration = collector.RegisterHistogram("scoring_duration_seconds", "Comparability scoring duration", DefaultDBDurationBuckets, "scorer")
	m.ComparabilityScore = collector.RegisterHistogram("comparability_score", "Distribution of comparability scores", DefaultScoreBuckets, "scorer")
	m.TwinSearchTotal = collector.RegisterCounter("twin_search_total", "Twin finder invocations")
	m.TwinMatchesFound = collector.RegisterHistogram("twin_matches_found", "Twins found per search", DefaultCardCountBuckets)

	// Renovation
	m.RenovationEstimatesTotal = collector.RegisterCounter("renovation_estimates_total", "Renovation estimates computed", "kind")
	m.RenovationEstimateTotals = collector.RegisterHistogram("renovation_estimate_total_dollars", "Renovation estimate totals", DefaultCostBuckets)

	// Export
	m.ExportRequestsTotal = collector.RegisterCounter("export_requests_total", "Deck exports requested", "format", "status")
	m.ExportDuration = collector.RegisterHistogram("export_duration_seconds", "Deck export duration", DefaultHTTPDurationBuckets, "format")
	m.ExportSizeBytes = collector.RegisterHistogram("export_size_bytes", "Exported report size", DefaultSizeBuckets, "format")

	// Infrastructure
	m.DBConnectionPoolSize = collector.RegisterGauge("db_pool_size", "Database connection pool size", "db")
	m.DBConnectionPoolActive = collector.RegisterGauge("db_pool_active", "Database active connections", "db")
	m.DBQueryDuration = collector.RegisterHistogram("db_query_duration_seconds", "Database query duration", DefaultDBDurationBuckets, "db", "operation")
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.EventsPublishedTotal = collector.RegisterCounter("events_published_total", "Domain events published", "topic", "status")
	m.EventPublishDuration = collector.RegisterHistogram("event_publish_duration_seconds", "Event publish duration", DefaultHTTPDurationBuckets, "topic")

	// System Health
	m.ServiceUptime = collector.RegisterGauge("service_uptime_seconds", "Service uptime", "service")
	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "error_type", "severity")

	return m
}

// RegisterAppMetrics is an alias for NewAppMetrics.
func RegisterAppMetrics(collector MetricsCollector) *AppMetrics {
	return NewAppMetrics(collector)
}

// Helpers

func RecordHTTPRequest(metrics *AppMetrics, method, path string, statusCode int, duration time.Duration, reqSize, respSize int64) {
	status := fmt.Sprintf("%d", statusCode)
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	metrics.HTTPRequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	metrics.HTTPResponseSize.WithLabelValues(method, path).Observe(float64(respSize))
}

func RecordScoring(metrics *AppMetrics, scorer string, score int, duration time.Duration) {
	metrics.ScoringRequestsTotal.WithLabelValues(scorer).Inc()
	metrics.ScoringDuration.WithLabelValues(scorer).Observe(duration.Seconds())
	metrics.ComparabilityScore.WithLabelValues(scorer).Observe(float64(score))
}

func RecordDeckAnalysis(metrics *AppMetrics, cardCount int, ok bool, duration time.Duration, source string) {
	status := "success"
	if !ok {
		status = "failure"
	}
	metrics.DeckAnalysisTotal.WithLabelValues(status).Inc()
	metrics.DeckAnalysisDuration.WithLabelValues(source).Observe(duration.Seconds())
	metrics.DeckCardCount.WithLabelValues().Observe(float64(cardCount))
}

func RecordDBQuery(metrics *AppMetrics, db, operation string, duration time.Duration, err error) {
	metrics.DBQueryDuration.WithLabelValues(db, operation).Observe(duration.Seconds())
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues(db, "query_error", "error").Inc()
	}
}

func RecordCacheAccess(metrics *AppMetrics, cache string, hit bool) {
	if hit {
		metrics.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

func RecordEventPublish(metrics *AppMetrics, topic string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.EventsPublishedTotal.WithLabelValues(topic, status).Inc()
	metrics.EventPublishDuration.WithLabelValues(topic).Observe(duration.Seconds())
}

func RecordError(metrics *AppMetrics, component, errorType, severity string) {
	metrics.ErrorsTotal.WithLabelValues(component, errorType, severity).Inc()
}

//Personal.AI order the ending
