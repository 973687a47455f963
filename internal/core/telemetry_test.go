// AngelaMos | 2026
// telemetry_test.go

package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		root string
	}{
		{1, "AlwaysOnSampler"},
		{0.25, "TraceIDRatioBased{0.25}"},
		{0, "TraceIDRatioBased{0.1}"},
		{3, "TraceIDRatioBased{0.1}"},
	}
	for _, tt := range tests {
		assert.Contains(t, sampler(tt.rate).Description(), "root:"+tt.root)
	}
}

func TestTraceID(t *testing.T) {
	assert.Empty(t, TraceID(context.Background()))

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	id := TraceID(ctx)
	assert.Len(t, id, 32)
	assert.Equal(t, span.SpanContext().TraceID().String(), id)
}
