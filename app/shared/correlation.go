package shared

import (
	"context"
	"log/slog"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
)

type correlationKey struct{}

// CorrelationIDHeader carries the correlation id on HTTP requests and responses.
const CorrelationIDHeader = "X-Correlation-ID"

// WithCorrelationID returns a copy of ctx carrying id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the request correlation id stored in ctx, if any.
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

// CorrelationAttr returns the request correlation id as a log attribute.
// Contexts without one, such as queue jobs, fall back to attr.ExtractCorrelationID.
func CorrelationAttr(ctx context.Context) slog.Attr {
	if id := CorrelationID(ctx); id != "" {
		return attr.String("correlation_id", id)
	}
	return attr.ExtractCorrelationID(ctx)
}
