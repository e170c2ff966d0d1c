// Package telemetry ships OpenTelemetry spans to Langfuse's OTLP collector
// endpoint. Spans carry langfuse.* attributes so the server maps them onto
// traces, generations, and events.
package telemetry

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// otelTracesPath is the Langfuse OTLP traces collector path.
const otelTracesPath = "/api/public/otel/v1/traces"

// Config holds configuration for the Langfuse span exporter.
type Config struct {
	// PublicKey and SecretKey authenticate against the collector endpoint.
	PublicKey string
	SecretKey string

	// Host is the Langfuse host, e.g. "http://localhost:3000".
	Host string

	// ServiceName names the exporting service in the OTEL resource.
	ServiceName string

	// Environment and Release are attached to every trace when set.
	Environment string
	Release     string
}

// Tracer wraps a tracer provider configured to export to Langfuse.
type Tracer struct {
	provider *sdktrace.TracerProvider
	tracer   oteltrace.Tracer
	config   Config
}

// New creates a Tracer exporting to the Langfuse collector endpoint.
// Plain-http hosts get an insecure exporter, which matches local
// docker-compose deployments.
func New(ctx context.Context, cfg Config) (*Tracer, error) {
	if cfg.PublicKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("telemetry: public key and secret key are required")
	}

	host := cfg.Host
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("telemetry: invalid host: %w", err)
	}

	auth := base64.StdEncoding.EncodeToString([]byte(cfg.PublicKey + ":" + cfg.SecretKey))
	options := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(u.Host),
		otlptracehttp.WithURLPath(otelTracesPath),
		otlptracehttp.WithHeaders(map[string]string{
			"Authorization": "Basic " + auth,
		}),
	}
	if u.Scheme == "http" {
		options = append(options, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("telemetry: failed to create OTLP exporter: %w", err)
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "langfuse-samples"
	}
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
	)

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithIDGenerator(newIDGenerator()),
	)
	otel.SetTracerProvider(provider)

	return &Tracer{
		provider: provider,
		tracer:   provider.Tracer(serviceName),
		config:   cfg,
	}, nil
}

// ForceFlush exports all ended spans immediately.
func (t *Tracer) ForceFlush(ctx context.Context) error {
	return t.provider.ForceFlush(ctx)
}

// Shutdown flushes remaining spans and stops the provider.
func (t *Tracer) Shutdown(ctx context.Context) error {
	return t.provider.Shutdown(ctx)
}
