package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeConfig(t, "trading:\n  starting_bankroll: 500\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 500.0, cfg.Trading.StartingBankroll)
	assert.Equal(t, 5*time.Minute, cfg.CycleInterval())
	assert.Equal(t, 5.0, cfg.Trading.MinEdgePct)
	assert.Equal(t, 0.25, cfg.Trading.KellyMultiplier)
	assert.Equal(t, "kalshibot.db", cfg.Storage.DSN)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("KALSHIBOT_DSN", ":memory:")

	cfg, err := Load(writeConfig(t, "log:\n  level: warn\n"))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":memory:", cfg.Storage.DSN)
}

func TestLoad_InvalidBand(t *testing.T) {
	_, err := Load(writeConfig(t, "trading:\n  band_low: 0.8\n  band_high: 0.7\n"))
	assert.ErrorContains(t, err, "band_low")
}

func TestLoad_TelegramRequiresCredentials(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")

	_, err := Load(writeConfig(t, "telegram:\n  enabled: true\n"))
	assert.ErrorContains(t, err, "telegram")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
