// Package tracing configura el TracerProvider global de OpenTelemetry.
package tracing

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
)

type Options struct {
	// Exporter: "none" (o vacío) deja el provider no-op de otel.
	Exporter    string
	ServiceName string

	// Output del exporter stdout; por defecto os.Stdout.
	Output io.Writer
}

// Provider envuelve el provider del SDK; nil cuando el tracing está apagado.
type Provider struct {
	sdk *sdktrace.TracerProvider
}

// Setup instala el provider global según opts.
func Setup(opts Options) (*Provider, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Exporter)) {
	case "", ExporterNone:
		return &Provider{}, nil
	case ExporterStdout:
	default:
		return nil, fmt.Errorf("unsupported trace exporter: %s", opts.Exporter)
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(out))
	if err != nil {
		return nil, fmt.Errorf("create stdout exporter: %w", err)
	}

	name := strings.TrimSpace(opts.ServiceName)
	if name == "" {
		name = "creature-registry"
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", name))),
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(tp)

	return &Provider{sdk: tp}, nil
}

func (p *Provider) Enabled() bool { return p.sdk != nil }

// Shutdown exporta los spans pendientes.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.sdk == nil {
		return nil
	}
	return p.sdk.Shutdown(ctx)
}
