package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuild_TestEnvDiscards(t *testing.T) {
	l := build(Config{Env: "test", Level: "debug"})
	assert.False(t, l.Core().Enabled(zapcore.ErrorLevel))
}

func TestReplace_RoutesGlobalAndContextLoggers(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := Replace(zap.New(core))
	defer restore()

	Named("router").Info("hello", Resource("movies"))
	From(context.Background()).Warn("fallback")

	scoped := L().With(RequestID("r-1"))
	From(ToContext(context.Background(), scoped)).Debug("scoped")

	entries := logs.AllUntimed()
	if assert.Len(t, entries, 3) {
		assert.Equal(t, "router", entries[0].LoggerName)
		assert.Equal(t, "movies", entries[0].ContextMap()["resource"])
		assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
		assert.Equal(t, "r-1", entries[2].ContextMap()["request_id"])
	}
}
