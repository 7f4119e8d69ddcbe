package logging

import (
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNewWritesJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "server.log")
	logger, err := New(Config{Level: "info", OutputPaths: []string{out}})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("Server listening", zap.String("addr", ":7890"))
	_ = logger.Sync()

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"Server listening"`)
	assert.Contains(t, string(data), `"addr":":7890"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestFallbackConstructors(t *testing.T) {
	assert.NotNil(t, NewDevelopment())
	assert.NotNil(t, Nop())
}

func TestForConnection(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := &Logger{Logger: zap.New(core)}

	remote := &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 4242}
	logger.ForConnection("conn_1", remote).Info("New connection")
	logger.ForConnection("conn_2", nil).Info("New connection")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "conn_1", entries[0].ContextMap()["conn_id"])
	assert.Equal(t, "127.0.0.1:4242", entries[0].ContextMap()["remote"])
	assert.Equal(t, "unknown", entries[1].ContextMap()["remote"])
}
