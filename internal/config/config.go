// Package config loads and validates brandscan configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/JakeFAU/brandscan/internal/resolver"
	"github.com/JakeFAU/brandscan/internal/strategy"
)

// EnvPrefix namespaces environment overrides, e.g. BRANDSCAN_STRATEGY_WORKERS=64.
const EnvPrefix = "BRANDSCAN"

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Resolver ResolverConfig `mapstructure:"resolver"`
	Strategy StrategyConfig `mapstructure:"strategy"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// ResolverConfig controls the HTTP fetch of each host.
type ResolverConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	UserAgent    string        `mapstructure:"user_agent"`
	MaxBodyBytes int           `mapstructure:"max_body_bytes"`
}

// StrategyConfig picks the execution strategy.
type StrategyConfig struct {
	Default string `mapstructure:"default"`
	Workers int    `mapstructure:"workers"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// MetricsConfig controls the status endpoint. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load builds a Config from an optional file plus the environment.
func Load(path string) (Config, error) {
	v := viper.New()
	Prepare(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	return FromViper(v)
}

// Prepare registers defaults and environment bindings on v.
func Prepare(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
}

// FromViper decodes and validates an already prepared Viper instance.
func FromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("resolver.timeout", resolver.DefaultTimeout)
	v.SetDefault("resolver.user_agent", resolver.DefaultUserAgent)
	v.SetDefault("resolver.max_body_bytes", resolver.DefaultMaxBodyBytes)
	v.SetDefault("strategy.default", string(strategy.KindPool))
	v.SetDefault("strategy.workers", 32)
	v.SetDefault("logging.development", false)
	v.SetDefault("metrics.addr", "")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Resolver.Timeout <= 0 {
		return fmt.Errorf("resolver.timeout must be > 0")
	}
	if c.Resolver.MaxBodyBytes <= 0 {
		return fmt.Errorf("resolver.max_body_bytes must be > 0")
	}
	if _, err := strategy.ParseKind(c.Strategy.Default); err != nil {
		return fmt.Errorf("strategy.default: %w", err)
	}
	if c.Strategy.Workers <= 0 {
		return fmt.Errorf("strategy.workers must be > 0")
	}
	return nil
}

// ResolverOptions converts the resolver section for resolver.NewFactory.
func (c Config) ResolverOptions() resolver.Config {
	return resolver.Config{
		UserAgent:    c.Resolver.UserAgent,
		Timeout:      c.Resolver.Timeout,
		MaxBodyBytes: c.Resolver.MaxBodyBytes,
	}
}

// StrategyKind returns the parsed default strategy. Validate guarantees it parses.
func (c Config) StrategyKind() strategy.Kind {
	kind, err := strategy.ParseKind(c.Strategy.Default)
	if err != nil {
		return strategy.KindPool
	}
	return kind
}
