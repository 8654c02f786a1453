package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestCleanedArgs(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, GetCleanedArgs(ctx))

	_, ok := GetCleanedArg(ctx, "title")
	assert.False(t, ok)

	ctx = WithCleanedArgs(ctx, CleanedArgs{"title": "go", "score": int64(3)})
	v, ok := GetCleanedArg(ctx, "score")
	require.True(t, ok)
	assert.Equal(t, int64(3), v)
	assert.Len(t, GetCleanedArgs(ctx), 2)
}

func TestTrace(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, GetTrace(ctx))
	assert.Empty(t, GetRequestID(ctx))
	assert.NotEmpty(t, GetTraceID(ctx))

	tc := NewTraceContext(ctx)
	ctx = WithTrace(ctx, tc)
	assert.Equal(t, tc.TraceID, GetTraceID(ctx))
	assert.Equal(t, tc.RequestID, GetRequestID(ctx))
	assert.Len(t, tc.SpanID, 16)
}

func TestTrace_FromSpan(t *testing.T) {
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{0x01, 0x02},
		SpanID:  trace.SpanID{0x03},
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	tc := NewTraceContext(ctx)
	assert.Equal(t, "01020000000000000000000000000000", tc.TraceID)
	assert.Equal(t, "0300000000000000", tc.SpanID)
	assert.NotEmpty(t, tc.RequestID)
}
