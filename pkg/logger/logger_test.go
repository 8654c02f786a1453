package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	appctx "qfilter/internal/core/context"
)

func observed(level zapcore.Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return &Logger{zap.New(core).Sugar()}, logs
}

func TestFromContext_AddsTrace(t *testing.T) {
	l, logs := observed(zapcore.DebugLevel)

	ctx := WithLogger(context.Background(), l)
	ctx = appctx.WithTrace(ctx, &appctx.TraceContext{TraceID: "t-1", RequestID: "r-1"})

	Info(ctx, "filters applied", "schema", "articles")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "filters applied", entry.Message)
	assert.Equal(t, map[string]any{
		"schema":     "articles",
		"trace_id":   "t-1",
		"request_id": "r-1",
	}, entry.ContextMap())
}

func TestFromContext_Level(t *testing.T) {
	l, logs := observed(zapcore.InfoLevel)
	ctx := WithLogger(context.Background(), l)

	Debug(ctx, "dropped")
	Warn(ctx, "kept")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "kept", logs.All()[0].Message)
}

func TestSetDefault(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	l, logs := observed(zapcore.DebugLevel)
	SetDefault(l.WithComponent("test"))

	Error(context.Background(), "boom")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "test", logs.All()[0].ContextMap()["component"])
}

func TestNew(t *testing.T) {
	l, err := New(Config{Level: "not-a-level", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)
	assert.True(t, l.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Desugar().Core().Enabled(zapcore.DebugLevel))

	Nop().Info("discarded")
}
