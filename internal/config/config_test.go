package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cozyoven/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg := config.Load()
	assert.Equal(t, "cozyoven_combo_products", cfg.ComboStoreKey)
	assert.Equal(t, "₵", cfg.CurrencySymbol)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("COMBO_STORE_KEY", "staging_combos")
	t.Setenv("CURRENCY_SYMBOL", "GH₵")
	t.Setenv("LOG_MAX_BACKUPS", "2")

	cfg := config.Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "staging_combos", cfg.ComboStoreKey)
	assert.Equal(t, "GH₵", cfg.CurrencySymbol)
	assert.Equal(t, 2, cfg.LogMaxBackups)
}
