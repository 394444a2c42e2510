// Package config loads node settings from an optional file and CHARCOIN_* env vars.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Store   StoreConfig   `mapstructure:"store"`
	Staking StakingConfig `mapstructure:"staking"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// StoreConfig picks the state backend. memory with a path keeps a snapshot file, badger
// without a path runs in memory.
type StoreConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

type StakingConfig struct {
	UnstakeCooldown time.Duration `mapstructure:"unstake_cooldown"`
}

type MetricsConfig struct {
	Namespace string `mapstructure:"namespace"`
}

// New sets up a viper instance with defaults and env binding, file is optional.
func New(file string) *viper.Viper {
	v := viper.New()
	if file != "" {
		v.SetConfigFile(file)
	}

	v.SetEnvPrefix("CHARCOIN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("store.backend", "memory")
	v.SetDefault("store.path", "")
	v.SetDefault("staking.unstake_cooldown", "48h")
	v.SetDefault("metrics.namespace", "charcoin")
	return v
}

// Load reads the file (if any) and decodes everything into a validated Config.
func Load(file string) (*Config, error) {
	v := New(file)
	if file != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}
	return FromViper(v)
}

func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "memory", "badger":
	default:
		return fmt.Errorf("store.backend must be memory or badger, got %q", c.Store.Backend)
	}
	if c.Staking.UnstakeCooldown < 0 {
		return errors.New("staking.unstake_cooldown must not be negative")
	}
	if c.Metrics.Namespace == "" {
		return errors.New("metrics.namespace is required")
	}
	return nil
}
