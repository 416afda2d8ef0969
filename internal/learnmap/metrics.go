package learnmap

import (
	"context"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
)

const (
	outcomeOK            = "ok"
	outcomeUpstreamError = "upstream_error"
	outcomeInvalidJSON   = "invalid_json"
	outcomeMissingNodes  = "missing_nodes"
)

var (
	metricsOnce   sync.Once
	modelCalls    otelmetric.Int64Counter
	modelDuration otelmetric.Float64Histogram
)

func initMetrics() {
	meter := otel.Meter("learnmap/generator")
	var err error
	modelCalls, err = meter.Int64Counter(
		"model_calls_total",
		otelmetric.WithDescription("Learning map model calls, by provider and outcome"),
	)
	if err != nil {
		log.Printf("generator metrics init: model_calls_total: %v", err)
	}
	modelDuration, err = meter.Float64Histogram(
		"model_call_seconds",
		otelmetric.WithDescription("Latency of learning map model calls"),
		otelmetric.WithUnit("s"),
	)
	if err != nil {
		log.Printf("generator metrics init: model_call_seconds: %v", err)
	}
}

func recordModelCall(ctx context.Context, providerName, outcome string, elapsed time.Duration) {
	metricsOnce.Do(initMetrics)
	attrs := otelmetric.WithAttributes(
		attribute.String("provider", providerName),
		attribute.String("outcome", outcome),
	)
	if modelCalls != nil {
		modelCalls.Add(ctx, 1, attrs)
	}
	if modelDuration != nil {
		modelDuration.Record(ctx, elapsed.Seconds(), attrs)
	}
}
