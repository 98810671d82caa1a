package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rodstewart/savlink-cli/internal/validation"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrNotConfigured is returned when no API URL or token could be found.
var ErrNotConfigured = errors.New("no configuration found. Run 'savlinkctl config init' to set up")

const (
	DefaultSlugLength = 7
	DefaultSort       = "updated_at"
	DefaultOrder      = "desc"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
)

// Config represents the application configuration
type Config struct {
	URL          string `mapstructure:"url" validate:"required,absurl"`
	Token        string `mapstructure:"token" validate:"required"`
	BaseURL      string `mapstructure:"base_url" validate:"omitempty,absurl"`
	SlugLength   int    `mapstructure:"slug_length" validate:"min=3,max=64"`
	DefaultSort  string `mapstructure:"default_sort" validate:"oneof=title created_at updated_at click_count"`
	DefaultOrder string `mapstructure:"default_order" validate:"oneof=asc desc"`
	LogLevel     string `mapstructure:"log_level" validate:"oneof=debug info warn warning error"`
	LogFormat    string `mapstructure:"log_format" validate:"oneof=text json"`
}

var keys = []string{
	"url", "token", "base_url", "slug_length",
	"default_sort", "default_order", "log_level", "log_format",
}

// Defaults returns a configuration with every optional setting at its default.
func Defaults() *Config {
	return &Config{
		SlugLength:   DefaultSlugLength,
		DefaultSort:  DefaultSort,
		DefaultOrder: DefaultOrder,
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over config file values, and a .env
// file in the working directory is read into the environment first.
func Load(configPath string) (*Config, error) {
	return LoadWithFlags(configPath, nil)
}

// LoadWithFlags is Load with command-line overrides. Any flag in flags named
// after a config key and set by the user wins over env and file values. The
// merged result is validated as a whole.
func LoadWithFlags(configPath string, flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		configDir, err := defaultConfigDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	defaults := Defaults()
	v.SetDefault("slug_length", defaults.SlugLength)
	v.SetDefault("default_sort", defaults.DefaultSort)
	v.SetDefault("default_order", defaults.DefaultOrder)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_format", defaults.LogFormat)

	// Environment variable bindings (higher priority)
	v.SetEnvPrefix("SAVLINK")
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	if flags != nil {
		for _, k := range keys {
			if f := flags.Lookup(k); f != nil {
				if err := v.BindPFlag(k, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag --%s: %w", k, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.URL == "" || cfg.Token == "" {
		return nil, ErrNotConfigured
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks every setting.
func (c *Config) Validate() error {
	return validation.New().Validate(c)
}

// DefaultConfigPath returns the default configuration file path
func DefaultConfigPath() (string, error) {
	dir, err := defaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func defaultConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "savlink"), nil
}

// Save writes configuration to the specified path
func Save(cfg *Config, configPath string) error {
	// Owner-only: the file holds the API token.
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.Set("url", cfg.URL)
	v.Set("token", cfg.Token)
	if cfg.BaseURL != "" {
		v.Set("base_url", cfg.BaseURL)
	}
	v.Set("slug_length", cfg.SlugLength)
	v.Set("default_sort", cfg.DefaultSort)
	v.Set("default_order", cfg.DefaultOrder)
	v.Set("log_level", cfg.LogLevel)
	v.Set("log_format", cfg.LogFormat)

	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if err := os.Chmod(configPath, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	return nil
}
