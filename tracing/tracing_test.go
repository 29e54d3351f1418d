package tracing

import (
	"context"
	"errors"
	"os"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	_ = os.Unsetenv("OTEL_ENVIRONMENT")
	_ = os.Unsetenv("OTEL_ENABLED")
	_ = os.Unsetenv("OTEL_EXPORTER_OTLP_ENDPOINT")

	cfg := DefaultConfig()

	if cfg.ServiceName != "mcp-kr-legislation" {
		t.Errorf("Expected ServiceName 'mcp-kr-legislation', got %q", cfg.ServiceName)
	}
	if cfg.Environment != "development" {
		t.Errorf("Expected Environment 'development', got %q", cfg.Environment)
	}
	if cfg.Enabled {
		t.Error("Expected Enabled to be false by default")
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("Expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
}

func TestDefaultConfig_EnabledByEndpoint(t *testing.T) {
	_ = os.Unsetenv("OTEL_ENABLED")
	_ = os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318")
	defer func() {
		_ = os.Unsetenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	}()

	cfg := DefaultConfig()

	if !cfg.Enabled {
		t.Error("Expected Enabled to be true when OTLP endpoint is set")
	}
	if cfg.OTLPEndpoint != "localhost:4318" {
		t.Errorf("Expected OTLPEndpoint 'localhost:4318', got %q", cfg.OTLPEndpoint)
	}
}

func TestSetup_Disabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{Enabled: false})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown returned error: %v", err)
	}
}

func TestSetup_EnabledWithStdout(t *testing.T) {
	cfg := Config{
		ServiceName:    "test-service",
		ServiceVersion: "1.0.0",
		Environment:    "test",
		Enabled:        true,
		SampleRate:     1.0,
	}

	shutdown, err := Setup(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	if Tracer() == nil {
		t.Error("Expected tracer to be non-nil")
	}
}

func TestSetup_DifferentSampleRates(t *testing.T) {
	tests := []struct {
		name       string
		sampleRate float64
	}{
		{"always sample", 1.0},
		{"never sample", 0.0},
		{"ratio sample", 0.5},
		{"above 1.0", 1.5},
		{"below 0.0", -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				ServiceName:    "test-service",
				ServiceVersion: "1.0.0",
				Environment:    "test",
				Enabled:        true,
				SampleRate:     tt.sampleRate,
			}

			shutdown, err := Setup(context.Background(), cfg)
			if err != nil {
				t.Fatalf("Setup failed: %v", err)
			}
			_ = shutdown(context.Background())
		})
	}
}

func TestStartSpan(t *testing.T) {
	newCtx, span := StartSpan(context.Background(), "test-span")
	defer span.End()

	if newCtx == nil {
		t.Error("Expected context to be non-nil")
	}
	if span == nil {
		t.Error("Expected span to be non-nil")
	}
}

func TestAddToolAttributes(t *testing.T) {
	_, span := StartSpan(context.Background(), "test-tool")
	defer span.End()

	// Should not panic
	AddToolAttributes(span, "search_law", "law")
}

func TestAddUpstreamAttributes(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		endpoint string
	}{
		{"law search", "law", "lawSearch.do"},
		{"precedent detail", "prec", "lawService.do"},
		{"empty endpoint", "law", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, span := StartSpan(context.Background(), "test-upstream")
			defer span.End()

			AddUpstreamAttributes(span, tt.target, tt.endpoint)
		})
	}
}

func TestRecordError(t *testing.T) {
	_, span := StartSpan(context.Background(), "test-error")
	defer span.End()

	RecordError(span, nil)
	RecordError(span, errors.New("test error"))
}

func TestGetEnvOrDefault(t *testing.T) {
	_ = os.Setenv("TEST_GET_ENV_KEY", "custom-value")
	defer func() { _ = os.Unsetenv("TEST_GET_ENV_KEY") }()

	if got := getEnvOrDefault("TEST_GET_ENV_KEY", "default"); got != "custom-value" {
		t.Errorf("Expected 'custom-value', got %q", got)
	}
	if got := getEnvOrDefault("TEST_GET_ENV_KEY_UNSET", "default"); got != "default" {
		t.Errorf("Expected 'default', got %q", got)
	}
}
