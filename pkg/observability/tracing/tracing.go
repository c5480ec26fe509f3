/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package tracing

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/trustbloc/batterypass/internal/pkg/log"
)

var logger = log.New("tracing")

// ProviderType selects the span exporter.
type ProviderType = string

const (
	ProviderNone   ProviderType = ""
	ProviderJaeger ProviderType = "JAEGER"
	ProviderStdout ProviderType = "STDOUT"
)

const (
	JaegerAgentEndpointEnvKey     = "OTEL_EXPORTER_JAEGER_AGENT_HOST"
	JaegerCollectorEndpointEnvKey = "OTEL_EXPORTER_JAEGER_ENDPOINT"
	// TracerName names the tracer that service wrappers start spans with.
	TracerName = "https://github.com/trustbloc/batterypass"
)

// Config configures Initialize. A Jaeger provider without CollectorURL falls back to the standard
// OTEL_EXPORTER_JAEGER_* environment variables.
type Config struct {
	Provider     ProviderType
	ServiceName  string
	CollectorURL string
}

// IsProviderSupported reports whether provider names a known exporter.
func IsProviderSupported(provider ProviderType) bool {
	switch provider {
	case ProviderNone, ProviderJaeger, ProviderStdout:
		return true
	default:
		return false
	}
}

// Initialize creates a tracer provider for cfg and registers it globally. The returned func flushes and
// shuts the provider down. With ProviderNone a no-op provider is returned and nothing is registered.
func Initialize(cfg *Config) (func(), trace.TracerProvider, error) {
	if cfg.Provider == ProviderNone {
		return func() {}, trace.NewNoopTracerProvider(), nil
	}

	spanExporter, err := newExporter(cfg)
	if err != nil {
		return nil, nil, err
	}

	tracerProvider := tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(spanExporter),
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ProcessPIDKey.Int(os.Getpid()),
		)),
	)

	otel.SetTracerProvider(tracerProvider)

	// traceparent and tracestate headers (https://www.w3.org/TR/trace-context/).
	otel.SetTextMapPropagator(propagation.TraceContext{})

	logger.Info("tracing enabled", log.WithProvider(cfg.Provider))

	return func() {
		if shutdownErr := tracerProvider.Shutdown(context.Background()); shutdownErr != nil {
			logger.Warn("Error shutting down tracer provider", log.WithError(shutdownErr))
		}
	}, tracerProvider, nil
}

func newExporter(cfg *Config) (tracesdk.SpanExporter, error) {
	switch cfg.Provider {
	case ProviderJaeger:
		var endpoint jaeger.EndpointOption

		switch {
		case cfg.CollectorURL != "":
			endpoint = jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(cfg.CollectorURL))
		case os.Getenv(JaegerAgentEndpointEnvKey) != "":
			endpoint = jaeger.WithAgentEndpoint()
		case os.Getenv(JaegerCollectorEndpointEnvKey) != "":
			endpoint = jaeger.WithCollectorEndpoint()
		default:
			return nil, fmt.Errorf("neither agent nor collector endpoint is provided")
		}

		exporter, err := jaeger.New(endpoint)
		if err != nil {
			return nil, fmt.Errorf("create jaeger exporter: %w", err)
		}

		return exporter, nil
	case ProviderStdout:
		exporter, err := stdouttrace.New()
		if err != nil {
			return nil, fmt.Errorf("create stdout exporter: %w", err)
		}

		return exporter, nil
	default:
		return nil, fmt.Errorf("unsupported exporter type: %s", cfg.Provider)
	}
}
