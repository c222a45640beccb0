package telemetry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/soundprediction/bubbles/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParquetHandlerWritesErrors(t *testing.T) {
	dir := t.TempDir()
	next := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})

	h, err := NewParquetHandler(next, dir)
	require.NoError(t, err)

	log := slog.New(h).With("component", "server")
	ctx := context.WithValue(context.Background(), types.ContextKeyRequestID, "req-1")
	ctx = context.WithValue(ctx, types.ContextKeyRequestSource, "server")

	log.InfoContext(ctx, "ignored")
	log.ErrorContext(ctx, "Request failed", "error", errors.New("connection refused"))

	require.NoError(t, h.Close())

	files, err := filepath.Glob(filepath.Join(dir, "*.parquet"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	rows, err := parquet.ReadFile[LogRecord](files[0])
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "Request failed", row.Message)
	assert.Equal(t, "ERROR", row.Level)
	assert.Equal(t, "req-1", row.RequestID)
	assert.Equal(t, "server", row.RequestSource)
	assert.NotEmpty(t, row.ID)
	assert.Contains(t, row.Attributes, "connection refused")
	assert.Contains(t, row.Attributes, `"component":"server"`)
}

func TestParquetHandlerFlushEmpty(t *testing.T) {
	dir := t.TempDir()
	h, err := NewParquetHandler(slog.NewTextHandler(io.Discard, nil), dir)
	require.NoError(t, err)

	require.NoError(t, h.Flush())
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
