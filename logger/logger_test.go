package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/amp-labs/amp-matchers/logger"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var records []map[string]any

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}

		var rec map[string]any

		require.NoError(t, json.Unmarshal([]byte(line), &rec))

		records = append(records, rec)
	}

	return records
}

func TestConfigureLoggingWithOptions(t *testing.T) { //nolint:paralleltest
	var buf bytes.Buffer

	logger.ConfigureLoggingWithOptions(logger.Options{
		Subsystem: "matchers-test",
		JSON:      true,
		MinLevel:  slog.LevelDebug,
		Output:    &buf,
	})

	ctx := logger.With(t.Context(), "matcher", "iterate")
	logger.Get(ctx).Debug("comparing")

	ctx = logger.WithSubsystem(ctx, "overridden")
	logger.Get(ctx).Info("overridden subsystem")

	records := decodeLines(t, &buf)
	require.Len(t, records, 2)

	require.Equal(t, "comparing", records[0]["msg"])
	require.Equal(t, "matchers-test", records[0]["subsystem"])
	require.Equal(t, "iterate", records[0]["matcher"])

	require.Equal(t, "overridden", records[1]["subsystem"])
	require.Equal(t, "iterate", records[1]["matcher"])
}

func TestAnnotateError(t *testing.T) { //nolint:paralleltest
	var buf bytes.Buffer

	logger.ConfigureLoggingWithOptions(logger.Options{
		Subsystem: "matchers-test",
		JSON:      true,
		Output:    &buf,
	})

	base := errors.New("boom") //nolint:err113
	err := logger.AnnotateError(base, "position", 3)

	require.ErrorIs(t, err, base)
	require.Equal(t, "boom", err.Error())
	require.NoError(t, logger.AnnotateError(nil, "position", 3))

	logger.Get(t.Context()).Error("comparison failed", "error", err)

	records := decodeLines(t, &buf)
	require.Len(t, records, 1)
	require.Equal(t, "boom", records[0]["error"])
	require.InDelta(t, 3, records[0]["position"], 0)
}

func TestWithMuted(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	base := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := logger.WithMuted(logger.WithLogger(t.Context(), base), true)
	logger.Get(ctx).Error("should not appear")
	require.Empty(t, buf.String())

	ctx = logger.WithMuted(ctx, false)
	logger.Get(ctx).Error("should appear")
	require.Contains(t, buf.String(), "should appear")
}

func TestWithLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	base := slog.New(slog.NewJSONHandler(&buf, nil))
	ctx := logger.WithLogger(logger.WithSubsystem(t.Context(), "scoped"), base)

	logger.Get(nil, ctx).Info("scoped logger") //nolint:staticcheck

	records := decodeLines(t, &buf)
	require.Len(t, records, 1)
	require.Equal(t, "scoped", records[0]["subsystem"])
}
