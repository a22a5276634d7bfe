package log

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/tuanvumaihuynh/product-inventory/pkg/correlationid"
)

const (
	CorrelationIDKey = "correlation_id"
	TraceIDKey       = "trace_id"
	SpanIDKey        = "span_id"
)

// contextAttrsFunc returns the attributes to attach to a record logged with ctx.
type contextAttrsFunc func(ctx context.Context) []slog.Attr

var defaultContextAttrs = []contextAttrsFunc{
	correlationAttrs,
	traceAttrs,
}

var _ slog.Handler = (*enrichedHandler)(nil)

// enrichedHandler enriches logs with request scoped data found in the context.
type enrichedHandler struct {
	h     slog.Handler
	attrs []contextAttrsFunc
}

func newEnrichedHandler(h slog.Handler) enrichedHandler {
	return enrichedHandler{h: h, attrs: defaultContextAttrs}
}

func (eh enrichedHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return eh.h.Enabled(ctx, level)
}

func (eh enrichedHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, fn := range eh.attrs {
		r.AddAttrs(fn(ctx)...)
	}
	return eh.h.Handle(ctx, r)
}

func (eh enrichedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return enrichedHandler{h: eh.h.WithAttrs(attrs), attrs: eh.attrs}
}

func (eh enrichedHandler) WithGroup(name string) slog.Handler {
	return enrichedHandler{h: eh.h.WithGroup(name), attrs: eh.attrs}
}

func correlationAttrs(ctx context.Context) []slog.Attr {
	id, ok := correlationid.FromContext(ctx)
	if !ok {
		return nil
	}
	return []slog.Attr{slog.String(CorrelationIDKey, id)}
}

func traceAttrs(ctx context.Context) []slog.Attr {
	spanCtx := trace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return nil
	}
	return []slog.Attr{
		slog.String(TraceIDKey, spanCtx.TraceID().String()),
		slog.String(SpanIDKey, spanCtx.SpanID().String()),
	}
}
