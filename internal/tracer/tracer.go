// Package tracer records one OpenTelemetry span per command execution.
package tracer

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/deixis/myterminal/internal/config"
)

const scope = "github.com/deixis/myterminal"

// Setup installs the global TracerProvider for cfg and returns a func
// that flushes and stops it. Disabled tracing installs a noop provider.
func Setup(ctx context.Context, cfg config.TraceConfig) (func(context.Context) error, error) {
	exporter, err := exporterFor(cfg)
	if err != nil {
		return nil, err
	}
	if exporter == nil {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return func(context.Context) error { return nil }, nil
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// exporterFor returns nil when nothing should be exported.
func exporterFor(cfg config.TraceConfig) (sdktrace.SpanExporter, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	switch cfg.Exporter {
	case "", "noop":
		return nil, nil
	case "stdout":
		// Named for the exporter, but written to stderr: stdout may be
		// the stdio transport.
		exp, err := stdouttrace.New(stdouttrace.WithWriter(os.Stderr), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("creating stdout exporter: %w", err)
		}
		return exp, nil
	}
	return nil, fmt.Errorf("unsupported trace exporter %q", cfg.Exporter)
}

// StartExecution opens the span for one command run through interpreter.
func StartExecution(ctx context.Context, interpreter string) (context.Context, trace.Span) {
	return otel.Tracer(scope).Start(ctx, "execute_command",
		trace.WithAttributes(attribute.String("command.interpreter", interpreter)))
}

// Execution is what a span learns once a command has finished.
type Execution struct {
	RunID    string
	Status   string
	ExitCode int
	SpawnErr error // set when the interpreter never started
}

// EndExecution annotates span with e and ends it. A spawn failure is
// recorded as an error event; a command that exited non-zero only gets
// the Error status.
func EndExecution(span trace.Span, e Execution) {
	span.SetAttributes(
		attribute.String("command.run_id", e.RunID),
		attribute.String("command.status", e.Status),
		attribute.Int("command.exit_code", e.ExitCode),
	)
	switch {
	case e.SpawnErr != nil:
		span.RecordError(e.SpawnErr)
		span.SetStatus(codes.Error, e.SpawnErr.Error())
	case e.ExitCode != 0:
		span.SetStatus(codes.Error, fmt.Sprintf("exit status %d", e.ExitCode))
	default:
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
