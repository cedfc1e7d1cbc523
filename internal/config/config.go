// Package config provides Viper-based hierarchical configuration for the
// categorization and analytics engine. Configuration errors are the only
// fatal error class in the system: everything downstream degrades instead.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var envOnce sync.Once

// Provider names accepted by ai.provider.
const (
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Forecast method names accepted by forecast.method.
const (
	MethodMovingAverage = "moving-average"
	MethodLinearTrend   = "linear-trend"
	MethodSeasonal      = "seasonal"
)

// Config is the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	AI struct {
		Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
		Provider       string `mapstructure:"provider" yaml:"provider"`
		Model          string `mapstructure:"model" yaml:"model"`
		APIKey         string `mapstructure:"api_key" yaml:"-"` // never serialized
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		BatchSize      int    `mapstructure:"batch_size" yaml:"batch_size"`
	} `mapstructure:"ai" yaml:"ai"`

	Cache struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"cache" yaml:"cache"`

	Rules struct {
		File string `mapstructure:"file" yaml:"file"` // optional keyword rule override
	} `mapstructure:"rules" yaml:"rules"`

	Analytics struct {
		SpikeRatio         float64 `mapstructure:"spike_ratio" yaml:"spike_ratio"`
		ZThreshold         float64 `mapstructure:"z_threshold" yaml:"z_threshold"`
		CategoryLimit      float64 `mapstructure:"category_limit" yaml:"category_limit"`
		LowSavingsRate     float64 `mapstructure:"low_savings_rate" yaml:"low_savings_rate"`
		FixedCostVariance  float64 `mapstructure:"fixed_cost_variance" yaml:"fixed_cost_variance"`
		MinRecurringMonths int     `mapstructure:"min_recurring_months" yaml:"min_recurring_months"`
	} `mapstructure:"analytics" yaml:"analytics"`

	Forecast struct {
		Method string `mapstructure:"method" yaml:"method"`
	} `mapstructure:"forecast" yaml:"forecast"`
}

// LoadEnv loads environment variables from a .env file if one exists. It is
// safe to call more than once.
func LoadEnv() {
	envOnce.Do(func() {
		envFile := ".env"
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			envFile = filepath.Join("..", ".env")
			if _, err := os.Stat(envFile); os.IsNotExist(err) {
				return
			}
		}
		_ = godotenv.Load(envFile)
	})
}

// Initialize builds the configuration from defaults, an optional config file
// and environment variables, then validates it.
func Initialize() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.dashboard-financeiro")
	v.AddConfigPath(".")

	v.SetEnvPrefix("FINANCE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
		// No config file is fine, defaults and env vars apply.
	}

	// API keys come straight from the environment, unprefixed, so the same
	// .env works for the other tools in this project.
	for _, binding := range [][2]string{
		{"ai.api_key", "GROQ_API_KEY"},
		{"ai.api_key", "OPENAI_API_KEY"},
		{"ai.api_key", "GEMINI_API_KEY"},
	} {
		if err := v.BindEnv(binding[0], binding[1]); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", binding[1], err)
		}
	}
	bindProviderKey(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// bindProviderKey prefers the key matching the selected provider when more
// than one is set in the environment.
func bindProviderKey(v *viper.Viper) {
	keyVars := map[string]string{
		ProviderGroq:   "GROQ_API_KEY",
		ProviderOpenAI: "OPENAI_API_KEY",
		ProviderGemini: "GEMINI_API_KEY",
	}
	if envVar, ok := keyVars[v.GetString("ai.provider")]; ok {
		if key := os.Getenv(envVar); key != "" {
			v.Set("ai.api_key", key)
		}
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("ai.enabled", true)
	v.SetDefault("ai.provider", ProviderGroq)
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.timeout_seconds", 30)
	v.SetDefault("ai.batch_size", 40)

	v.SetDefault("cache.file", "categorization_cache.json")
	v.SetDefault("rules.file", "")

	v.SetDefault("analytics.spike_ratio", 1.5)
	v.SetDefault("analytics.z_threshold", 3.0)
	v.SetDefault("analytics.category_limit", 0.3)
	v.SetDefault("analytics.low_savings_rate", 0.1)
	v.SetDefault("analytics.fixed_cost_variance", 0.2)
	v.SetDefault("analytics.min_recurring_months", 3)

	v.SetDefault("forecast.method", MethodMovingAverage)
}

func validate(cfg *Config) error {
	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", cfg.Log.Format)
	}

	switch cfg.AI.Provider {
	case ProviderGroq, ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unknown ai.provider: %s", cfg.AI.Provider)
	}
	if cfg.AI.TimeoutSeconds < 1 || cfg.AI.TimeoutSeconds > 300 {
		return fmt.Errorf("ai.timeout_seconds must be between 1 and 300, got: %d", cfg.AI.TimeoutSeconds)
	}
	if cfg.AI.BatchSize < 1 || cfg.AI.BatchSize > 200 {
		return fmt.Errorf("ai.batch_size must be between 1 and 200, got: %d", cfg.AI.BatchSize)
	}

	a := cfg.Analytics
	if a.SpikeRatio <= 1.0 {
		return fmt.Errorf("analytics.spike_ratio must be greater than 1.0, got: %g", a.SpikeRatio)
	}
	if a.ZThreshold <= 0 {
		return fmt.Errorf("analytics.z_threshold must be positive, got: %g", a.ZThreshold)
	}
	if a.CategoryLimit <= 0 || a.CategoryLimit > 1 {
		return fmt.Errorf("analytics.category_limit must be in (0, 1], got: %g", a.CategoryLimit)
	}
	if a.LowSavingsRate < 0 || a.LowSavingsRate > 1 {
		return fmt.Errorf("analytics.low_savings_rate must be in [0, 1], got: %g", a.LowSavingsRate)
	}
	if a.FixedCostVariance <= 0 || a.FixedCostVariance > 1 {
		return fmt.Errorf("analytics.fixed_cost_variance must be in (0, 1], got: %g", a.FixedCostVariance)
	}
	if a.MinRecurringMonths < 2 {
		return fmt.Errorf("analytics.min_recurring_months must be at least 2, got: %d", a.MinRecurringMonths)
	}

	switch cfg.Forecast.Method {
	case MethodMovingAverage, MethodLinearTrend, MethodSeasonal:
	default:
		return fmt.Errorf("unknown forecast.method: %s", cfg.Forecast.Method)
	}

	return nil
}

// ResolveAPIKey re-reads the API key from the environment for the current
// provider. Used when the provider is overridden after Initialize: the
// provider-specific variable wins, any other known key is the fallback.
func (c *Config) ResolveAPIKey() error {
	switch c.AI.Provider {
	case ProviderGroq, ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unknown ai.provider: %s", c.AI.Provider)
	}

	keyVars := map[string]string{
		ProviderGroq:   "GROQ_API_KEY",
		ProviderOpenAI: "OPENAI_API_KEY",
		ProviderGemini: "GEMINI_API_KEY",
	}
	if key := os.Getenv(keyVars[c.AI.Provider]); key != "" {
		c.AI.APIKey = key
		return nil
	}
	for _, envVar := range keyVars {
		if key := os.Getenv(envVar); key != "" {
			c.AI.APIKey = key
			return nil
		}
	}
	return nil
}

// DefaultModel returns the model name for the configured provider when none
// was set explicitly.
func (c *Config) DefaultModel() string {
	if c.AI.Model != "" {
		return c.AI.Model
	}
	switch c.AI.Provider {
	case ProviderGroq:
		return "llama-3.3-70b-versatile"
	case ProviderOpenAI:
		return "gpt-3.5-turbo"
	case ProviderGemini:
		return "gemini-2.0-flash"
	}
	return ""
}
