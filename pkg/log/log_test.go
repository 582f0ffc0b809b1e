package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/irisboard/pkg/errors"
)

func TestToLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"WARN", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ToLogLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandlerCloudLoggingKeysAndStacktrace(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(slog.New(NewHandler(&buf, slog.LevelDebug)))

	err := errors.NewValidationError("sepal length (cm)", "must be within [4.30, 7.90]", 9.0)
	logger.Error("form rejected", err, PathKey, "/predict")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "ERROR", entry["severity"])
	assert.Equal(t, "form rejected", entry["message"])
	assert.Equal(t, "/predict", entry[PathKey])
	assert.Contains(t, entry, "logging.googleapis.com/sourceLocation")

	stack, ok := entry[StacktraceAttrKey].(string)
	require.True(t, ok, "expected stacktrace attribute")
	assert.Contains(t, stack, "log_test.go")
}

func TestHandlerWithoutErrorHasNoStacktrace(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(slog.New(NewHandler(&buf, slog.LevelInfo)))

	logger.Debug("dropped")
	logger.Info("kept", ComponentKey, "web")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.NotContains(t, lines[0], StacktraceAttrKey)
	assert.True(t, logger.Enabled(context.Background(), LevelWarn))
	assert.False(t, logger.Enabled(context.Background(), LevelDebug))
}

func TestTestLoggerWith(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)

	contextLogger := testLogger.With(ComponentKey, "panel", ModelNameKey, "iris-softmax")
	contextLogger.Info("prediction stored", PredictionIndexKey, 2)
	contextLogger.Debug("not captured")
	testLogger.Error("failed", fmt.Errorf("boom"))

	assert.True(t, testLogger.ContainsField(ComponentKey, "panel"))
	assert.True(t, testLogger.ContainsField(PredictionIndexKey, 2.0))
	assert.True(t, testLogger.ContainsField(ErrAttrKey, "boom"))
	assert.False(t, testLogger.ContainsMessage("not captured"))

	entries, err := testLogger.GetLogEntries()
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	testLogger.Clear()
	assert.False(t, testLogger.ContainsMessage("prediction stored"))
}

func TestZerologWarnFunc(t *testing.T) {
	var buf bytes.Buffer
	warn := ZerologWarnFunc(&buf)

	warn(errors.NewUndefinedMetricWarning("precision", "no predicted samples", 0))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	obj, ok := entry["warning"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "precision", obj["metric"])
	assert.Equal(t, "UndefinedMetricWarning", obj["type"])
}
