package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 9, cfg.TaxRules.BINLength)
	assert.Equal(t, "0.15", cfg.TaxRules.VATRate().String())
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
environment: production
tax_rules:
  bin_length: 13
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 13, cfg.TaxRules.BINLength)
	// untouched keys keep defaults
	assert.Equal(t, 0.15, cfg.TaxRules.StandardVATRate)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("HISAB_DATABASE__URL", "postgres://db.internal:5432/ledger")
	t.Setenv("HISAB_TAX_RULES__BIN_LENGTH", "13")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://db.internal:5432/ledger", cfg.Database.URL)
	assert.Equal(t, 13, cfg.TaxRules.BINLength)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := defaults()
	cfg.TaxRules.StandardVATRate = 1.5
	assert.Error(t, cfg.Validate())

	cfg = defaults()
	cfg.TaxRules.BINLength = 0
	assert.Error(t, cfg.Validate())

	cfg = defaults()
	cfg.Database.URL = ""
	assert.Error(t, cfg.Validate())
}
