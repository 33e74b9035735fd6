package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core))

	l.Info("DocumentService", "document uploaded", map[string]interface{}{"document_id": "d1"})
	l.Error("ChatService", "generation failed", map[string]interface{}{"error": errors.New("timeout")})
	l.Debug("SyncService", "nothing to do", nil)

	entries := logs.All()
	require.Len(t, entries, 3)

	assert.Equal(t, "document uploaded", entries[0].Message)
	assert.Equal(t, "DocumentService", entries[0].ContextMap()["module"])
	assert.Equal(t, map[string]interface{}{"document_id": "d1"}, entries[0].ContextMap()["details"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "timeout", entries[1].ContextMap()["error"])

	assert.Equal(t, map[string]interface{}{}, entries[2].ContextMap()["details"])
}

func TestZapLogger_Named(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewFromZap(zap.New(core))

	l.Named("Chunking").Info("document chunked", zap.Int("chunks", 4))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Chunking", entries[0].ContextMap()["module"])
	assert.Equal(t, int64(4), entries[0].ContextMap()["chunks"])
}
