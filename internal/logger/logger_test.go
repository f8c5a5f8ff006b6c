package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-validator/internal/models"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "info", "json")
	l.Info().Str("file", "statement.pdf").Msg("processing")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "processing", entry["message"])
	assert.Equal(t, "statement.pdf", entry["file"])
	assert.Contains(t, entry, "time")
}

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn", "json")
	l.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	l.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_BadLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "loud", "json")
	l.Debug().Msg("hidden")
	l.Info().Msg("shown")
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestContext(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "info", "json")
	ctx := WithContext(context.Background(), l)
	FromContext(ctx).Info().Msg("from context")
	assert.Contains(t, buf.String(), "from context")

	// No logger in context: must not panic.
	FromContext(context.Background()).Info().Msg("dropped")
}

func TestLogDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn", "json")
	LogDiagnostics(&l, []models.Diagnostic{
		{Line: 2, Kind: models.DiagMissingAmount, Message: "no amount"},
		{Line: 3, Kind: models.DiagInvalidBalance, Value: "1..2", Message: "bad balance"},
	})

	out := buf.String()
	assert.NotContains(t, out, "no amount")
	assert.Contains(t, out, "bad balance")
	assert.Contains(t, out, `"line":3`)
	assert.Contains(t, out, `"kind":"invalid_balance"`)
}
