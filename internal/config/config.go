// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Providers  ProvidersConfig  `mapstructure:"providers"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// ProvidersConfig contains explorer and intelligence provider configuration
type ProvidersConfig struct {
	// Keys maps a service id to its API credential. Values here take
	// precedence over the service's environment variable.
	Keys map[string]string `mapstructure:"keys"`
}

// MonitoringConfig contains monitoring service configuration
type MonitoringConfig struct {
	WebhookURL     string        `mapstructure:"webhook_url"`
	WebhookTimeout time.Duration `mapstructure:"webhook_timeout"`
	QueueSize      int           `mapstructure:"queue_size"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port          int           `mapstructure:"port"`
	Host          string        `mapstructure:"host"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	EnableMetrics bool          `mapstructure:"enable_metrics"`
	EnableHealth  bool          `mapstructure:"enable_health"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json, text
	Output string `mapstructure:"output"` // stdout, file
	File   string `mapstructure:"file"`
}

// ServiceKey describes how to resolve an API credential for an external service
type ServiceKey struct {
	ServiceID   string
	DisplayName string
	EnvVar      string
	Default     string
}

// ServiceKeys is the registry of external services the engine integrates with
var ServiceKeys = map[string]ServiceKey{
	"blockchain_com": {
		ServiceID:   "blockchain_com",
		DisplayName: "Blockchain.com Explorer",
		EnvVar:      "BLOCKCHAIN_COM_API_CODE",
	},
	"blockcypher": {
		ServiceID:   "blockcypher",
		DisplayName: "BlockCypher API",
		EnvVar:      "BLOCKCYPHER_API_KEY",
	},
	"etherscan": {
		ServiceID:   "etherscan",
		DisplayName: "Etherscan API",
		EnvVar:      "ETHERSCAN_API_KEY",
	},
	"polygonscan": {
		ServiceID:   "polygonscan",
		DisplayName: "Polygonscan API",
		EnvVar:      "POLYGONSCAN_API_KEY",
	},
	"trongrid": {
		ServiceID:   "trongrid",
		DisplayName: "TronGrid API",
		EnvVar:      "TRONGRID_API_KEY",
	},
	"heuristic_mixer": {
		ServiceID:   "heuristic_mixer",
		DisplayName: "Heuristic Mixer Watchlist",
		EnvVar:      "HEURISTIC_MIXER_TOKEN",
		Default:     "N/A",
	},
	"monitoring_webhook": {
		ServiceID:   "monitoring_webhook",
		DisplayName: "Monitoring Webhook",
		EnvVar:      "MONITORING_WEBHOOK_URL",
	},
}

// APIKey resolves the credential for a service id. Resolution order:
// configured provider keys, then the service's environment variable, then the
// registry default. Returns an empty string when no credential is available.
func (c *Config) APIKey(serviceID string) string {
	if value, ok := c.Providers.Keys[serviceID]; ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	entry, ok := ServiceKeys[serviceID]
	if !ok {
		return ""
	}
	if value := strings.TrimSpace(os.Getenv(entry.EnvVar)); value != "" {
		return value
	}
	return entry.Default
}

// ServiceDisplayName returns the display name registered for a service id,
// falling back to the id itself for unknown services.
func ServiceDisplayName(serviceID string) string {
	if entry, ok := ServiceKeys[serviceID]; ok {
		return entry.DisplayName
	}
	return serviceID
}

// MaskKey obfuscates a credential for safe display
func MaskKey(value string) string {
	if value == "" {
		return "—"
	}
	if strings.EqualFold(value, "N/A") {
		return "N/A"
	}
	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}
	return fmt.Sprintf("%s%s%s", value[:2], strings.Repeat("*", len(value)-4), value[len(value)-2:])
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigType("yaml")

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./internal/config")
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("ARCHEBLOW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Println("Config file not found, using defaults and environment variables")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if config.Providers.Keys == nil {
		config.Providers.Keys = make(map[string]string)
	}

	// The webhook endpoint can come from the service key registry as well
	if config.Monitoring.WebhookURL == "" {
		config.Monitoring.WebhookURL = config.APIKey("monitoring_webhook")
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// App defaults
	viper.SetDefault("app.name", "archeblow-riskcore")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.environment", "development")
	viper.SetDefault("app.debug", false)

	// Monitoring defaults
	viper.SetDefault("monitoring.webhook_url", "")
	viper.SetDefault("monitoring.webhook_timeout", "10s")
	viper.SetDefault("monitoring.queue_size", 64)

	// Server defaults
	viper.SetDefault("server.port", 8081)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.read_timeout", "10s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.enable_metrics", true)
	viper.SetDefault("server.enable_health", true)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output", "stdout")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}
	if c.Monitoring.QueueSize <= 0 {
		return fmt.Errorf("monitoring queue size must be positive")
	}
	if c.Monitoring.WebhookTimeout <= 0 {
		return fmt.Errorf("monitoring webhook timeout must be positive")
	}
	return nil
}
