package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Inference InferenceConfig
	Retry     RetryConfig
	Cache     CacheConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// InferenceConfig holds inference-service configuration
type InferenceConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// RetryConfig holds the transport backoff configuration
type RetryConfig struct {
	BaseDelay   time.Duration `mapstructure:"base_delay"`
	MaxAttempts int           `mapstructure:"max_attempts"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/shelflens/")

	v.SetEnvPrefix("SHELFLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Inference defaults
	v.SetDefault("inference.api_key", "")
	v.SetDefault("inference.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("inference.model", "gemini-2.0-flash")

	// Retry defaults: 5 attempts total, 1s/2s/4s/8s between them
	v.SetDefault("retry.base_delay", "1s")
	v.SetDefault("retry.max_attempts", 5)

	// Cache defaults
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", "24h")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Inference.APIKey == "" {
		return fmt.Errorf("inference API key is required (set SHELFLENS_INFERENCE_API_KEY)")
	}

	if config.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry max_attempts must be at least 1, got: %d", config.Retry.MaxAttempts)
	}

	if config.Retry.BaseDelay <= 0 {
		return fmt.Errorf("retry base_delay must be positive, got: %s", config.Retry.BaseDelay)
	}

	return nil
}
