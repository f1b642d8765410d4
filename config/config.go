package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Backend  BackendConfig
	Search   SearchConfig
	AI       AIConfig
	Activity ActivityConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// BackendConfig holds the search backend API configuration
type BackendConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// SearchConfig holds tuning knobs for search requests
type SearchConfig struct {
	Limit  int     `mapstructure:"limit"`
	UseMMR bool    `mapstructure:"use_mmr"`
	Lambda float64 `mapstructure:"lambda"`
}

// AIConfig holds the generative-AI analyzer configuration. An empty API key
// disables the analyzer endpoint.
type AIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// ActivityConfig holds activity tracking limits
type ActivityConfig struct {
	MaxUsers   int `mapstructure:"max_users"`
	MaxHistory int `mapstructure:"max_history"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/vondralink/")

	// Environment variable settings
	v.SetEnvPrefix("VONDRALINK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
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

	// Backend defaults
	v.SetDefault("backend.base_url", "http://localhost:8000")

	// Search defaults
	v.SetDefault("search.limit", 12)
	v.SetDefault("search.use_mmr", true)
	v.SetDefault("search.lambda", 0.6)

	// AI defaults
	v.SetDefault("ai.model", "gpt-4o-mini")

	// Activity defaults
	v.SetDefault("activity.max_users", 1000)
	v.SetDefault("activity.max_history", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Backend.BaseURL == "" {
		return fmt.Errorf("backend base URL is required (set VONDRALINK_BACKEND_BASE_URL)")
	}

	if config.Search.Limit <= 0 {
		return fmt.Errorf("search limit must be positive, got: %d", config.Search.Limit)
	}

	if config.Search.Lambda < 0 || config.Search.Lambda > 1 {
		return fmt.Errorf("search lambda must be in [0, 1], got: %g", config.Search.Lambda)
	}

	return nil
}
