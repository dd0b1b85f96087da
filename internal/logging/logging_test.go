package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLogCommitFields(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	LogCommit(logger, "P0001", "R2024001", 42, true)

	entry := logLine(t, &buf)
	assert.Equal(t, "commit", entry["event"])
	assert.Equal(t, "P0001", entry["policy_no"])
	assert.Equal(t, "R2024001", entry["receive_no"])
	assert.Equal(t, float64(42), entry["seq"])
	assert.Equal(t, true, entry["approved"])
}

func TestLogCancelFields(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	LogCancel(logger, "P0001", "R2024099", 7)

	entry := logLine(t, &buf)
	assert.Equal(t, "cancel", entry["event"])
	assert.Equal(t, "P0001", entry["policy_no"])
	assert.Equal(t, "R2024099", entry["receive_no"])
	assert.Equal(t, float64(7), entry["seq"])
}

func TestContextualLoggers(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ctxLogger := WithScreen(WithReceive(WithPolicy(logger, "P0001"), "R2024001"), "sell")
	ctxLogger.Info().Msg("wizard abandoned")

	entry := logLine(t, &buf)
	assert.Equal(t, "P0001", entry["policy_no"])
	assert.Equal(t, "R2024001", entry["receive_no"])
	assert.Equal(t, "sell", entry["screen"])
	assert.Equal(t, "wizard abandoned", entry["message"])
}
