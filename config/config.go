package config

import (
	"fmt"
	"time"

	"github.com/codemetric/vibe-coding-tracker/models"
	"github.com/spf13/viper"
)

// Config is the resolved application configuration. Cache capacities are
// compile-time constants in the models package, not configuration.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Pricing PricingConfig `mapstructure:"pricing"`
}

// AppConfig covers logging and the refresh cadence of the live views.
type AppConfig struct {
	LogLevel        string        `mapstructure:"log_level"`
	LogFile         string        `mapstructure:"log_file"`
	Debug           bool          `mapstructure:"debug"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// PricingConfig controls the model pricing fetch.
type PricingConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Offline bool          `mapstructure:"offline"`
}

// LiteLLMPricingURL is the canonical remote pricing source.
const LiteLLMPricingURL = "https://raw.githubusercontent.com/BerriAI/litellm/main/model_prices_and_context_window.json"

// SetDefaults registers the default configuration values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_file", "")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.refresh_interval", models.DefaultRefreshInterval)

	v.SetDefault("pricing.url", LiteLLMPricingURL)
	v.SetDefault("pricing.timeout", 30*time.Second)
	v.SetDefault("pricing.offline", false)
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks bounds and fills zero values with defaults.
func (c *Config) Validate() error {
	if c.App.RefreshInterval == 0 {
		c.App.RefreshInterval = models.DefaultRefreshInterval
	}
	if c.App.RefreshInterval < models.MinRefreshInterval {
		return fmt.Errorf("refresh interval too small: %v (minimum: %v)",
			c.App.RefreshInterval, models.MinRefreshInterval)
	}
	if c.App.RefreshInterval > models.MaxRefreshInterval {
		return fmt.Errorf("refresh interval too large: %v (maximum: %v)",
			c.App.RefreshInterval, models.MaxRefreshInterval)
	}
	if c.Pricing.URL == "" {
		c.Pricing.URL = LiteLLMPricingURL
	}
	if c.Pricing.Timeout <= 0 {
		c.Pricing.Timeout = 30 * time.Second
	}
	return nil
}
