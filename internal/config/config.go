package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/forge-cli/forge/internal/paths"
)

// AppName is the application name used for config file naming.
const AppName = "forge"

// Version is the current configuration schema version.
const Version = 1

// File is the persisted configuration artifact. It is assembled by the
// wizard's commit pipeline from a complete draft and is immutable once
// produced.
type File struct {
	Version      int                `mapstructure:"version" yaml:"version" json:"version" toml:"version"`
	UseCase      string             `mapstructure:"use_case" yaml:"use_case" json:"use_case" toml:"use_case"`
	ProjectName  string             `mapstructure:"project_name" yaml:"project_name,omitempty" json:"project_name,omitempty" toml:"project_name,omitempty"`
	Auth         AuthConfig         `mapstructure:"auth" yaml:"auth" json:"auth" toml:"auth"`
	ModelRouting ModelRoutingConfig `mapstructure:"model_routing" yaml:"model_routing" json:"model_routing" toml:"model_routing"`
	Persistence  PersistenceConfig  `mapstructure:"persistence" yaml:"persistence" json:"persistence" toml:"persistence"`
	Environment  string             `mapstructure:"environment" yaml:"environment" json:"environment" toml:"environment"`
	Debug        bool               `mapstructure:"debug" yaml:"debug" json:"debug" toml:"debug"`
	Telemetry    bool               `mapstructure:"telemetry" yaml:"telemetry" json:"telemetry" toml:"telemetry"`
}

// AuthConfig records the model provider selection.
type AuthConfig struct {
	Provider string `mapstructure:"provider" yaml:"provider" json:"provider" toml:"provider"`
	APIToken string `mapstructure:"api_token" yaml:"api_token,omitempty" json:"api_token,omitempty" toml:"api_token,omitempty"`
}

// ModelRoutingConfig records which model tier handles which traffic.
type ModelRoutingConfig struct {
	Default          string `mapstructure:"default" yaml:"default" json:"default" toml:"default"`
	Fallback         string `mapstructure:"fallback" yaml:"fallback" json:"fallback" toml:"fallback"`
	MaxContextTokens int    `mapstructure:"max_context_tokens" yaml:"max_context_tokens" json:"max_context_tokens" toml:"max_context_tokens"`
}

// PersistenceConfig records where and how the tool stores its state.
type PersistenceConfig struct {
	Backend         string `mapstructure:"backend" yaml:"backend" json:"backend" toml:"backend"`
	Format          string `mapstructure:"format" yaml:"format" json:"format" toml:"format"`
	CredentialStore string `mapstructure:"credential_store" yaml:"credential_store" json:"credential_store" toml:"credential_store"`
	HistoryLimit    int    `mapstructure:"history_limit" yaml:"history_limit" json:"history_limit" toml:"history_limit"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	viper.SetConfigName("config")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.ConfigDir())

	// Environment variable support
	viper.SetEnvPrefix("FORGE")
	viper.AutomaticEnv()

	viper.SetDefault("version", Version)
}

// Locate returns the path of the first existing artifact in the default
// config directory, trying formats in menu order.
func Locate() (string, bool) {
	for _, format := range Formats() {
		path := paths.ConfigFile(format)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found (when path is empty).
func Load(path string) (*File, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// If user specified a path, this is an error
			if path != "" {
				return nil, fmt.Errorf("config file not found at %s: %w", path, err)
			}
			// Otherwise (implicit load), it's fine to use defaults
		} else {
			// Real read error (parsing, permissions, etc)
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg File
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
