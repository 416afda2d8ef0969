package runtime

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mohammad-safakhou/learnmap/config"
	"go.opentelemetry.io/otel"
)

func TestSetupTelemetryExposesOtelCounters(t *testing.T) {
	ctx := context.Background()
	tel, err := SetupTelemetry(ctx, config.TelemetryConfig{}, TelemetryOptions{ServiceVersion: "test"})
	if err != nil {
		t.Fatalf("SetupTelemetry: %v", err)
	}
	defer func() { _ = tel.Shutdown(ctx) }()

	counter, err := otel.Meter("learnmap/test").Int64Counter("telemetry_probe_total")
	if err != nil {
		t.Fatalf("counter: %v", err)
	}
	counter.Add(ctx, 2)

	srv := httptest.NewServer(tel.MetricsHandler())
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "telemetry_probe_total") {
		t.Fatalf("expected otel counter in scrape output:\n%s", body)
	}
}

func TestShutdownNil(t *testing.T) {
	var tel *Telemetry
	if err := tel.Shutdown(context.Background()); err != nil {
		t.Fatalf("nil shutdown: %v", err)
	}
}
