package prometheus

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAppMetrics(t *testing.T) (*AppMetrics, MetricsCollector) {
	collector := newTestCollector(t)
	m := NewAppMetrics(collector)
	require.NotNil(t, m)
	return m, collector
}

func TestNewAppMetrics_RegistersAllGroups(t *testing.T) {
	m, collector := newTestAppMetrics(t)

	// Touch one metric per group so they show up in the scrape.
	m.HTTPRequestsTotal.WithLabelValues("GET", "/decks", "200").Inc()
	m.DeckCardsTotal.WithLabelValues("comp").Inc()
	m.ScoringRequestsTotal.WithLabelValues("enhanced").Inc()
	m.RenovationEstimatesTotal.WithLabelValues("full").Inc()
	m.ExportRequestsTotal.WithLabelValues("csv", "success").Inc()
	m.CacheHitsTotal.WithLabelValues("deck").Inc()
	m.HealthCheckStatus.WithLabelValues("postgres").Set(1)

	output := scrapeMetrics(t, collector)
	assert.Contains(t, output, "test_unit_http_requests_total")
	assert.Contains(t, output, "test_unit_deck_cards_total")
	assert.Contains(t, output, "test_unit_scoring_requests_total")
	assert.Contains(t, output, "test_unit_renovation_estimates_total")
	assert.Contains(t, output, "test_unit_export_requests_total")
	assert.Contains(t, output, "test_unit_cache_hits_total")
	assert.Contains(t, output, "test_unit_health_check_status")
}

func TestRecordHTTPRequest(t *testing.T) {
	m, collector := newTestAppMetrics(t)

	RecordHTTPRequest(m, "POST", "/api/v1/decks", 201, 20*time.Millisecond, 512, 1024)

	output := scrapeMetrics(t, collector)
	assert.Contains(t, output, `test_unit_http_requests_total{method="POST",path="/api/v1/decks",status_code="201"} 1`)
	assert.Contains(t, output, "test_unit_http_request_duration_seconds_count")
	assert.Contains(t, output, "test_unit_http_request_size_bytes_sum")
}

func TestRecordScoring(t *testing.T) {
	m, collector := newTestAppMetrics(t)

	RecordScoring(m, "enhanced", 87, 2*time.Millisecond)
	RecordScoring(m, "enhanced", 42, 1*time.Millisecond)

	output := scrapeMetrics(t, collector)
	assert.Contains(t, output, `test_unit_scoring_requests_total{scorer="enhanced"} 2`)
	assert.Contains(t, output, `test_unit_comparability_score_sum{scorer="enhanced"} 129`)
}

func TestRecordDeckAnalysis(t *testing.T) {
	m, collector := newTestAppMetrics(t)

	RecordDeckAnalysis(m, 5, true, 10*time.Millisecond, "api")
	RecordDeckAnalysis(m, 0, false, time.Millisecond, "api")

	output := scrapeMetrics(t, collector)
	assert.Contains(t, output, `test_unit_deck_analysis_total{status="success"} 1`)
	assert.Contains(t, output, `test_unit_deck_analysis_total{status="failure"} 1`)
	assert.Contains(t, output, "test_unit_deck_card_count_count 2")
}

func TestRecordDBQuery(t *testing.T) {
	m, collector := newTestAppMetrics(t)

	RecordDBQuery(m, "postgres", "select", time.Millisecond, nil)
	RecordDBQuery(m, "postgres", "insert", time.Millisecond, errors.New("connection reset"))

	output := scrapeMetrics(t, collector)
	assert.Contains(t, output, `test_unit_db_query_duration_seconds_count{db="postgres",operation="select"} 1`)
	assert.Contains(t, output, `test_unit_errors_total{component="postgres",error_type="query_error",severity="error"} 1`)
}

func TestRecordCacheAccess(t *testing.T) {
	m, collector := newTestAppMetrics(t)

	RecordCacheAccess(m, "deck", true)
	RecordCacheAccess(m, "deck", true)
	RecordCacheAccess(m, "deck", false)

	output := scrapeMetrics(t, collector)
	assert.Contains(t, output, `test_unit_cache_hits_total{cache="deck"} 2`)
	assert.Contains(t, output, `test_unit_cache_misses_total{cache="deck"} 1`)
}

func TestRecordEventPublish(t *testing.T) {
	m, collector := newTestAppMetrics(t)

	RecordEventPublish(m, "comps.analysis.completed", time.Millisecond, nil)
	RecordEventPublish(m, "comps.analysis.completed", time.Millisecond, errors.New("broker unavailable"))

	output := scrapeMetrics(t, collector)
	assert.Contains(t, output, `test_unit_events_published_total{status="success",topic="comps.analysis.completed"} 1`)
	assert.Contains(t, output, `test_unit_events_published_total{status="failure",topic="comps.analysis.completed"} 1`)
}

func TestRecordError(t *testing.T) {
	m, collector := newTestAppMetrics(t)

	RecordError(m, "scoring", "invalid_input", "warning")

	output := scrapeMetrics(t, collector)
	assert.Contains(t, output, `test_unit_errors_total{component="scoring",error_type="invalid_input",severity="warning"} 1`)
}

//Personal.AI order the ending
