package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/fyrsmithlabs/dpx/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := NewDefaultConfig()
	cfg.Output = &buf
	cfg.Level = zapcore.InfoLevel

	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	require.NotNil(t, logger)

	logger.Info(context.Background(), "hello")
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "INFO")
}

func TestNewLogger_InvalidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Format = "xml"

	_, err := NewLogger(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLogger_ContextAwareMethods(t *testing.T) {
	core, observed := observer.New(TraceLevel)
	logger := &Logger{zap: zap.New(core), config: NewDefaultConfig()}
	ctx := context.Background()

	tests := []struct {
		name    string
		logFunc func()
		level   zapcore.Level
		message string
	}{
		{"trace", func() { logger.Trace(ctx, "trace message", zap.String("key", "val")) }, TraceLevel, "trace message"},
		{"debug", func() { logger.Debug(ctx, "debug message", zap.String("key", "val")) }, zapcore.DebugLevel, "debug message"},
		{"info", func() { logger.Info(ctx, "info message", zap.String("key", "val")) }, zapcore.InfoLevel, "info message"},
		{"warn", func() { logger.Warn(ctx, "warn message", zap.String("key", "val")) }, zapcore.WarnLevel, "warn message"},
		{"error", func() { logger.Error(ctx, "error message", zap.String("key", "val")) }, zapcore.ErrorLevel, "error message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observed.TakeAll()
			tt.logFunc()

			logs := observed.All()
			require.Len(t, logs, 1)
			assert.Equal(t, tt.level, logs[0].Level)
			assert.Equal(t, tt.message, logs[0].Message)
			assert.Len(t, logs[0].Context, 1)
		})
	}
}

func TestLogger_Enabled(t *testing.T) {
	core, _ := observer.New(zapcore.WarnLevel)
	logger := &Logger{zap: zap.New(core), config: NewDefaultConfig()}

	assert.False(t, logger.Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Enabled(zapcore.WarnLevel))
	assert.True(t, logger.Enabled(zapcore.ErrorLevel))
}

func TestLogger_InjectsContextFields(t *testing.T) {
	tl := NewTestLogger()

	ctx := WithCommand(context.Background(), "init")
	ctx = WithProject(ctx, "main", "acme-sales")
	tl.Info(ctx, "project created")

	logs := tl.observed.All()
	require.Len(t, logs, 1)
	assertFieldExists(t, logs[0].Context, "command", "init")
	assertFieldExists(t, logs[0].Context, "group", "main")
	assertFieldExists(t, logs[0].Context, "project", "acme-sales")
}

func TestContextFields_Empty(t *testing.T) {
	assert.Empty(t, ContextFields(context.Background()))
}

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	tl := NewTestLogger()
	ctx := WithLogger(context.Background(), tl.Logger)
	assert.Same(t, tl.Logger, FromContext(ctx))
}

func TestFromAppConfig(t *testing.T) {
	cfg, err := FromAppConfig(config.LoggingConfig{Level: "trace", Format: "json"})
	require.NoError(t, err)
	assert.Equal(t, TraceLevel, cfg.Level)
	assert.Equal(t, "json", cfg.Format)

	_, err = FromAppConfig(config.LoggingConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestLevelFromString(t *testing.T) {
	l, err := LevelFromString("trace")
	require.NoError(t, err)
	assert.Equal(t, TraceLevel, l)

	l, err = LevelFromString("error")
	require.NoError(t, err)
	assert.Equal(t, zapcore.ErrorLevel, l)

	_, err = LevelFromString("nope")
	assert.Error(t, err)
}

func assertFieldExists(t *testing.T, fields []zapcore.Field, key, value string) {
	t.Helper()
	for _, f := range fields {
		if f.Key == key && f.String == value {
			return
		}
	}
	t.Errorf("field %s=%s not found in %+v", key, value, fields)
}
