package otel

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"

	"stockcount/pkg/logger"
)

func TestSpanTraceID(t *testing.T) {
	tp, shutdown, err := InitTracing(logger.Discard(), Config{ServiceName: "stockcount-test", Probability: 1.0})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	defer shutdown(context.Background())

	if id := GetTraceID(context.Background()); id != "" {
		t.Fatalf("expected no trace id, got %s", id)
	}
	ctx := InjectTracing(context.Background(), tp.Tracer("test"))
	ctx, span := AddSpan(ctx, "upsert", attribute.String("ean", "789"))
	defer span.End()
	if id := GetTraceID(ctx); len(id) != 32 {
		t.Fatalf("expected 32-char trace id, got %q", id)
	}
}
