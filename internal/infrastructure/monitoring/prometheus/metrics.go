package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds the metric families recorded by netmodel.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Reaction layer
	ReactionsParsedTotal    CounterVec
	CanonicalReactionsTotal CounterVec
	CompartmentTags         GaugeVec
	ComparisonsTotal        CounterVec
	MatchesTotal            CounterVec
	MatchRunDuration        HistogramVec
	FormatRunDuration       HistogramVec

	// Storage layer
	ObjectTransfersTotal CounterVec
	CacheLookupsTotal    CounterVec

	ErrorsTotal CounterVec
}

// Default Buckets
var (
	DefaultHTTPDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultRunDurationBuckets  = []float64{.01, .1, .5, 1, 5, 10, 30, 60, 300, 900}
)

// NewAppMetrics registers all metric families with collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method", "path")

	m.ReactionsParsedTotal = collector.RegisterCounter("reactions_parsed_total", "Equations parsed", "status")
	m.CanonicalReactionsTotal = collector.RegisterCounter("canonical_reactions_total", "Reactions passed through canonicalization", "status")
	m.CompartmentTags = collector.RegisterGauge("compartment_tags", "Distinct compartment tags in the last allocation", "source")
	m.ComparisonsTotal = collector.RegisterCounter("reaction_comparisons_total", "Reaction pairs compared", "mode")
	m.MatchesTotal = collector.RegisterCounter("reaction_matches_total", "Equivalent reaction pairs found", "direction")
	m.MatchRunDuration = collector.RegisterHistogram("match_run_duration_seconds", "All-pairs comparison run duration", DefaultRunDurationBuckets, "mode")
	m.FormatRunDuration = collector.RegisterHistogram("format_run_duration_seconds", "Model canonicalization run duration", DefaultRunDurationBuckets)

	m.ObjectTransfersTotal = collector.RegisterCounter("object_transfers_total", "Object storage transfers", "operation", "status")
	m.CacheLookupsTotal = collector.RegisterCounter("cache_lookups_total", "Match result cache lookups", "result")

	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "error_type")

	return m
}

// NewNoopAppMetrics returns AppMetrics that discard all updates.
func NewNoopAppMetrics() *AppMetrics {
	return NewAppMetrics(NewNoopCollector())
}

// Helpers

func RecordHTTPRequest(metrics *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordCanonical counts one reaction by outcome: "ok", "discarded" or "error".
func RecordCanonical(metrics *AppMetrics, status string) {
	metrics.CanonicalReactionsTotal.WithLabelValues(status).Inc()
}

// RecordComparisons adds n compared pairs for mode ("boolean" or "directional").
func RecordComparisons(metrics *AppMetrics, mode string, n int) {
	metrics.ComparisonsTotal.WithLabelValues(mode).Add(float64(n))
}

// RecordMatch counts one equivalent pair under its direction label.
func RecordMatch(metrics *AppMetrics, direction string) {
	metrics.MatchesTotal.WithLabelValues(direction).Inc()
}

func RecordObjectTransfer(metrics *AppMetrics, operation string, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.ObjectTransfersTotal.WithLabelValues(operation, status).Inc()
}

// RecordCacheLookup counts a result cache lookup as "hit" or "miss".
func RecordCacheLookup(metrics *AppMetrics, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	metrics.CacheLookupsTotal.WithLabelValues(result).Inc()
}

func RecordError(metrics *AppMetrics, component, errorType string) {
	metrics.ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
