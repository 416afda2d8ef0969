package validation

import (
	"context"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
)

// Rejection reasons recorded on resource_verdicts_total.
const (
	reasonAccepted          = "accepted"
	reasonMissingFields     = "missing_fields"
	reasonOffTopic          = "off_topic"
	reasonInvalidURL        = "invalid_url"
	reasonUnsupportedScheme = "unsupported_scheme"
	reasonBlockedDomain     = "blocked_domain"
	reasonUnreachable       = "unreachable"
	reasonEmptyTitle        = "empty_title"
)

var (
	metricsOnce      sync.Once
	resourceVerdicts otelmetric.Int64Counter
	fallbackUsed     otelmetric.Int64Counter
	probeDuration    otelmetric.Float64Histogram
	cacheLookups     otelmetric.Int64Counter
)

func initMetrics() {
	meter := otel.Meter("learnmap/validation")
	var err error
	resourceVerdicts, err = meter.Int64Counter(
		"resource_verdicts_total",
		otelmetric.WithDescription("Model resources accepted or rejected, by reason"),
	)
	if err != nil {
		log.Printf("validation metrics init: resource_verdicts_total: %v", err)
	}
	fallbackUsed, err = meter.Int64Counter(
		"fallback_substitutions_total",
		otelmetric.WithDescription("Nodes whose resources were replaced from the fallback bank"),
	)
	if err != nil {
		log.Printf("validation metrics init: fallback_substitutions_total: %v", err)
	}
	probeDuration, err = meter.Float64Histogram(
		"reachability_probe_seconds",
		otelmetric.WithDescription("Latency of link reachability probes"),
		otelmetric.WithUnit("s"),
	)
	if err != nil {
		log.Printf("validation metrics init: reachability_probe_seconds: %v", err)
	}
	cacheLookups, err = meter.Int64Counter(
		"reachability_cache_lookups_total",
		otelmetric.WithDescription("Reachability verdict cache lookups, by outcome"),
	)
	if err != nil {
		log.Printf("validation metrics init: reachability_cache_lookups_total: %v", err)
	}
}

func recordVerdict(ctx context.Context, reason string) {
	metricsOnce.Do(initMetrics)
	if resourceVerdicts == nil {
		return
	}
	resourceVerdicts.Add(ctx, 1, otelmetric.WithAttributes(attribute.String("reason", reason)))
}

func recordFallback(ctx context.Context, category Category) {
	metricsOnce.Do(initMetrics)
	if fallbackUsed == nil {
		return
	}
	fallbackUsed.Add(ctx, 1, otelmetric.WithAttributes(attribute.String("category", string(category))))
}

func recordProbe(ctx context.Context, reachable bool, elapsed time.Duration) {
	metricsOnce.Do(initMetrics)
	if probeDuration == nil {
		return
	}
	probeDuration.Record(ctx, elapsed.Seconds(), otelmetric.WithAttributes(attribute.Bool("reachable", reachable)))
}

func recordCacheLookup(ctx context.Context, outcome string) {
	metricsOnce.Do(initMetrics)
	if cacheLookups == nil {
		return
	}
	cacheLookups.Add(ctx, 1, otelmetric.WithAttributes(attribute.String("outcome", outcome)))
}
