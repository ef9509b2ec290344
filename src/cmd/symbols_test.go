package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSymbols(t *testing.T) {
	assert.Equal(t, []string{"AAPL", "MSFT", "GOOG"}, parseSymbols("aapl, msft ,GOOG"))
	assert.Empty(t, parseSymbols(" , ,"))
}

func TestDedupeSymbols(t *testing.T) {
	assert.Equal(t, []string{"AAPL", "MSFT"}, dedupeSymbols([]string{"AAPL", "MSFT", "AAPL"}))
}

func TestLoadSymbolsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "symbols.txt")
	require.NoError(t, os.WriteFile(path, []byte("aapl\n\n msft \nGOOG\n"), 0o644))

	symbols, err := loadSymbolsFromFile(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT", "GOOG"}, symbols)
}

func TestLoadSymbolsFromFile_NotFound(t *testing.T) {
	_, err := loadSymbolsFromFile("/nonexistent/symbols.txt")
	assert.Error(t, err)
}

func TestResolveSymbols(t *testing.T) {
	t.Run("flag takes precedence", func(t *testing.T) {
		symbols, err := resolveSymbols("btcusdt", "", []string{"ETHUSDT"})
		require.NoError(t, err)
		assert.Equal(t, []string{"BTCUSDT"}, symbols)
	})

	t.Run("falls back to config", func(t *testing.T) {
		symbols, err := resolveSymbols("", "", []string{"ethusdt", "ETHUSDT"})
		require.NoError(t, err)
		assert.Equal(t, []string{"ETHUSDT"}, symbols)
	})

	t.Run("empty everywhere", func(t *testing.T) {
		_, err := resolveSymbols("", "", nil)
		assert.Error(t, err)
	})
}

func TestNextRunTime(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	t.Run("later today", func(t *testing.T) {
		next := nextRunTime(now, 16, 0)
		assert.Equal(t, time.Date(2024, 3, 15, 16, 0, 0, 0, time.UTC), next)
	})

	t.Run("already passed rolls to tomorrow", func(t *testing.T) {
		next := nextRunTime(now, 9, 30)
		assert.Equal(t, time.Date(2024, 3, 16, 9, 30, 0, 0, time.UTC), next)
	})

	t.Run("exact boundary rolls forward", func(t *testing.T) {
		next := nextRunTime(now, 10, 0)
		assert.Equal(t, time.Date(2024, 3, 16, 10, 0, 0, 0, time.UTC), next)
	})
}
