package gateway

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/nulzo/llmprompt/internal/cli"
	"github.com/nulzo/llmprompt/internal/llm"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/nulzo/llmprompt/internal/gateway"

// Dispatcher resolves a version key and performs a single invocation.
type Dispatcher struct {
	registry *llm.Registry
	out      io.Writer
	logger   *zap.Logger
}

// NewDispatcher returns a dispatcher writing the model label to out.
func NewDispatcher(registry *llm.Registry, out io.Writer, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		registry: registry,
		out:      out,
		logger:   logger,
	}
}

// Invoke sends prompt to the model registered under versionKey. Errors from
// the registry and the adapter are returned unchanged.
func (d *Dispatcher) Invoke(ctx context.Context, versionKey, prompt string) (string, error) {
	entry, err := d.registry.Resolve(versionKey)
	if err != nil {
		return "", err
	}

	invocationID := uuid.NewString()
	log := d.logger.With(
		zap.String("invocation_id", invocationID),
		zap.String("version", entry.Key),
		zap.String("provider_id", entry.ProviderID),
	)

	ctx, span := otel.Tracer(tracerName).Start(ctx, "dispatch.invoke")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.invocation_id", invocationID),
		attribute.String("llm.version", entry.Key),
		attribute.String("llm.family", entry.Variant.Family.String()),
		attribute.String("llm.provider_id", entry.ProviderID),
	)

	model, err := entry.New(ctx)
	if err != nil {
		recordError(span, err)
		log.Debug("model construction failed", zap.Error(err))
		return "", err
	}

	fmt.Fprintln(d.out, cli.Stylize(model.DisplayName()+" assistant:", cli.Bold))

	start := time.Now()
	text, err := model.Invoke(ctx, prompt)
	if err != nil {
		recordError(span, err)
		log.Debug("invocation failed", zap.Duration("latency", time.Since(start)), zap.Error(err))
		return "", err
	}

	log.Debug("invocation completed",
		zap.Duration("latency", time.Since(start)),
		zap.Int("response_chars", len(text)),
	)
	return text, nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
