package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestReadConfig_FileAndDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", `
database:
  host: db.internal
  dbname: transfers_test
server:
  port: 9090
  environment: staging
pricing:
  round_trip_multiplier: 1.8
auth:
  api_keys:
    - name: scheduler
      key: 0123456789abcdef0123
      role: scheduler
`)

	cfg, err := ReadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 1.8, cfg.Pricing.RoundTripMultiplier)
	assert.Equal(t, 24, cfg.Pricing.QuoteTTLHours)
	assert.Equal(t, float64(3), cfg.Commission.PlatformFeePercent)
	assert.Equal(t, float64(100), cfg.Commission.PayoutThreshold)
	assert.Equal(t, float64(15), cfg.Booking.TaxPercent)
	assert.Equal(t, 30, cfg.Booking.NoShowGraceMinutes)
	require.Len(t, cfg.Auth.APIKeys, 1)
	assert.Equal(t, "scheduler", cfg.Auth.APIKeys[0].Role)
}

func TestReadConfig_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "server:\n  port: 8080\n")
	t.Setenv("TRANSFERS_SERVER_PORT", "7070")
	t.Setenv("TRANSFERS_COMMISSION_PAYOUT_THRESHOLD", "250")

	cfg, err := ReadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, float64(250), cfg.Commission.PayoutThreshold)
}

func TestReadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "server:\n  port: 8080\n")
	writeFile(t, dir, ".env", "TRANSFERS_BOOKING_TAX_PERCENT=18\n")
	t.Cleanup(func() { os.Unsetenv("TRANSFERS_BOOKING_TAX_PERCENT") })

	cfg, err := ReadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, float64(18), cfg.Booking.TaxPercent)
}

func TestReadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "platform fee above 100",
			yaml: "commission:\n  platform_fee_percent: 120\n",
		},
		{
			name: "partner key without partner id",
			yaml: "auth:\n  api_keys:\n    - name: p\n      key: 0123456789abcdef0123\n      role: partner\n",
		},
		{
			name: "unknown role",
			yaml: "auth:\n  api_keys:\n    - name: p\n      key: 0123456789abcdef0123\n      role: root\n",
		},
		{
			name: "short key",
			yaml: "auth:\n  api_keys:\n    - name: p\n      key: short\n      role: admin\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "config.yaml", tt.yaml)

			_, err := ReadConfig(dir)
			assert.Error(t, err)
		})
	}
}

func TestReadConfig_MissingFileWithoutEnv(t *testing.T) {
	_, err := ReadConfig(t.TempDir())
	assert.Error(t, err)
}
