package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/fjordsync/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func TestLogger_PrettyOutput(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New()
	l.SetOutput(&buf)

	l.Info("zones refreshed", "count", 12)

	out := buf.String()
	require.Contains(t, out, "zones refreshed")
	require.Contains(t, out, "count=12")
}

func TestLogger_ErrorUnwrapsChain(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New()
	l.SetOutput(&buf)

	inner := zerr.New("connection refused")
	l.Error(zerr.Wrap(inner, "failed to refresh disease zones"))

	out := buf.String()
	require.Contains(t, out, "Error: failed to refresh disease zones")
	require.Contains(t, out, "Caused by:")
	require.Contains(t, out, "connection refused")
}

func TestLogger_JSONMode(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New()
	l.SetOutput(&buf)
	l.SetJSON(true)

	l.Warn("stale cache served", "cache", "disease-zones")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.Equal(t, "stale cache served", record["msg"])
	require.Equal(t, "disease-zones", record["cache"])
}

func TestLogger_DebugSuppressedByDefault(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New()
	l.SetOutput(&buf)

	l.Debug("item fetch failed", "locality", 12345)
	require.Empty(t, buf.String())

	l.SetVerbose(true)
	l.Debug("item fetch failed", "locality", 12345)
	require.Contains(t, buf.String(), "item fetch failed")
}

func TestLogger_NilErrorIsNoop(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New()
	l.SetOutput(&buf)

	l.Error(nil)
	require.Empty(t, buf.String())
}
