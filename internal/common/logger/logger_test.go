package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"info":  zapcore.InfoLevel,
		"":      zapcore.InfoLevel,
		"bogus": zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestZapAdapter_FieldsAndScopes(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core))

	scoped := ForRequest(log, "req-1", "PA").With(map[string]interface{}{"intent": "COST"})
	scoped.Info("resolved", map[string]interface{}{"rows": 6})
	scoped.WithError(errors.New("boom")).Error("failed", nil)

	entries := logs.All()
	assert.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, "req-1", first["requestId"])
	assert.Equal(t, "PA", first["jurisdiction"])
	assert.Equal(t, "COST", first["intent"])
	assert.EqualValues(t, 6, first["rows"])

	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
}

func TestMapToZapFields_Empty(t *testing.T) {
	assert.Nil(t, mapToZapFields(nil))
}

func TestNoOpAndTestLoggers(t *testing.T) {
	NewNoOpLogger().Warn("ignored", map[string]interface{}{"k": "v"})
	NewTestLogger(t).Debug("visible in -v", nil)
}
