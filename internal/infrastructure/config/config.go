package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"
)

// envPrefix scopes environment overrides, e.g. HISAB_DATABASE_URL
const envPrefix = "HISAB_"

// Config is the root application configuration.
type Config struct {
	Environment string         `koanf:"environment"`
	Server      ServerConfig   `koanf:"server"`
	Database    DatabaseConfig `koanf:"database"`
	Redis       RedisConfig    `koanf:"redis"`
	Logging     LoggingConfig  `koanf:"logging"`
	TaxRules    TaxRulesConfig `koanf:"tax_rules"`
}

type ServerConfig struct {
	Address         string        `koanf:"address"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

type RedisConfig struct {
	URL      string        `koanf:"url"`
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TaxRulesConfig carries the NBR-facing knobs: the standard VAT rate and the
// accepted BIN length, which varies across registration vintages.
type TaxRulesConfig struct {
	StandardVATRate float64 `koanf:"standard_vat_rate"`
	BINLength       int     `koanf:"bin_length"`
}

// VATRate returns the standard VAT rate as a decimal fraction.
func (t TaxRulesConfig) VATRate() decimal.Decimal {
	return decimal.NewFromFloat(t.StandardVATRate)
}

func defaults() Config {
	return Config{
		Environment: "development",
		Server: ServerConfig{
			Address:         ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			URL:             "postgres://localhost:5432/hisab_ledger?sslmode=disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Redis: RedisConfig{
			URL:      "redis://localhost:6379/0",
			CacheTTL: 5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		TaxRules: TaxRulesConfig{
			StandardVATRate: 0.15,
			BINLength:       9,
		},
	}
}

// Load builds configuration from defaults, an optional YAML file, and
// HISAB_-prefixed environment variables, in increasing precedence.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load config defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// Double underscore separates nesting levels so snake_case keys survive:
	// HISAB_DATABASE__MAX_OPEN_CONNS -> database.max_open_conns
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment overrides: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values the rest of the system assumes are sane.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}
	if c.Redis.URL == "" {
		return fmt.Errorf("redis.url is required")
	}
	if c.TaxRules.StandardVATRate < 0 || c.TaxRules.StandardVATRate >= 1 {
		return fmt.Errorf("tax_rules.standard_vat_rate must be a fraction in [0, 1)")
	}
	if c.TaxRules.BINLength <= 0 {
		return fmt.Errorf("tax_rules.bin_length must be positive")
	}
	return nil
}
