package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kirillkom/docai-relay/internal/config"
)

func TestRunCompletesInDemoModeAndExports(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "contract.pdf")
	require.NoError(t, os.WriteFile(doc, []byte("%PDF-1.4 demo"), 0o600))
	report := filepath.Join(dir, "report.xlsx")

	err := run(context.Background(), slog.Default(), config.Config{}, doc, "", report)
	require.NoError(t, err)

	info, err := os.Stat(report)
	require.NoError(t, err)
	require.Positive(t, info.Size())
}

func TestRunFailsForMissingFile(t *testing.T) {
	err := run(context.Background(), slog.Default(), config.Config{}, filepath.Join(t.TempDir(), "missing.pdf"), "", "")
	require.Error(t, err)
}
