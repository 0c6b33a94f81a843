package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "fieldbill.db", cfg.DB.Path)
	require.Equal(t, 75.0, cfg.Billing.DefaultHourlyRate)
	require.Equal(t, 0.08, cfg.Billing.TaxRate)
	require.Equal(t, 30, cfg.Billing.DueDays)
	require.Equal(t, 60, cfg.Billing.DiscountMinutes)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FIELDBILL_SERVER_PORT", "9090")
	t.Setenv("FIELDBILL_DEFAULT_HOURLY_RATE", "95.5")
	t.Setenv("FIELDBILL_TAX_RATE", "0.1")
	t.Setenv("FIELDBILL_DUE_DAYS", "14")
	t.Setenv("FIELDBILL_DISCOUNT_MINUTES", "90")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, 95.5, cfg.Billing.DefaultHourlyRate)
	require.Equal(t, 0.1, cfg.Billing.TaxRate)
	require.Equal(t, 14, cfg.Billing.DueDays)
	require.Equal(t, 90, cfg.Billing.DiscountMinutes)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("billing:\n  discount_minutes: 30\n  due_days: 45\n"), 0o644))
	t.Setenv("FIELDBILL_CONFIG_PATH", path)
	t.Setenv("FIELDBILL_DISCOUNT_MINUTES", "120")

	cfg, err := Load()
	require.NoError(t, err)

	// The file sets both; the environment wins for the one it names.
	require.Equal(t, 120, cfg.Billing.DiscountMinutes)
	require.Equal(t, 45, cfg.Billing.DueDays)
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	t.Setenv("FIELDBILL_DISCOUNT_MINUTES", "ninety")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "FIELDBILL_DISCOUNT_MINUTES")
}
