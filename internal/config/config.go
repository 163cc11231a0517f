package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete fauxforce configuration
type Config struct {
	Org     OrgConfig     `mapstructure:"org"`
	Refresh RefreshConfig `mapstructure:"refresh"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// OrgConfig identifies the org whose schema is described
type OrgConfig struct {
	// InstanceURL is the base URL of the org's REST endpoint
	// (e.g., "https://myorg.my.salesforce.com")
	InstanceURL string `mapstructure:"instance_url"`
	// AccessToken is the bearer token used to authenticate describe calls.
	// Usually supplied via the FAUXFORCE_ORG_ACCESS_TOKEN environment
	// variable rather than the config file.
	AccessToken string `mapstructure:"access_token"`
	// APIVersion is the REST API version segment (default: "v59.0")
	APIVersion string `mapstructure:"api_version"`
}

// RefreshConfig controls refresh behavior
type RefreshConfig struct {
	// Category selects which objects a refresh covers by default
	// Options: "STANDARD", "CUSTOM", "ALL"
	Category string `mapstructure:"category"`
	// BatchSize is the number of describe subrequests per composite batch
	// call (default: 25, the API maximum)
	BatchSize int `mapstructure:"batch_size"`
	// TimeoutSeconds bounds a whole refresh run; 0 disables the bound
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether debug logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// Dir overrides where the log file is written. Empty means the
	// project's tools directory.
	Dir string `mapstructure:"dir"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation
	// (default: 10, 0 disables rotation)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of rotated log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups"`
	// Compress gzips rotated log files (default: false)
	Compress bool `mapstructure:"compress"`
}

// Timeout returns the refresh timeout as a time.Duration (0 means disabled)
func (c *RefreshConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Org: OrgConfig{
			InstanceURL: "",
			AccessToken: "",
			APIVersion:  "v59.0",
		},
		Refresh: RefreshConfig{
			Category:       "ALL",
			BatchSize:      25, // composite batch API maximum
			TimeoutSeconds: 0,  // No limit by default
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			Dir:        "",
			MaxSizeMB:  10,
			MaxBackups: 3,
			Compress:   false,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Org defaults
	viper.SetDefault("org.instance_url", defaults.Org.InstanceURL)
	viper.SetDefault("org.access_token", defaults.Org.AccessToken)
	viper.SetDefault("org.api_version", defaults.Org.APIVersion)

	// Refresh defaults
	viper.SetDefault("refresh.category", defaults.Refresh.Category)
	viper.SetDefault("refresh.batch_size", defaults.Refresh.BatchSize)
	viper.SetDefault("refresh.timeout_seconds", defaults.Refresh.TimeoutSeconds)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	viper.SetDefault("logging.compress", defaults.Logging.Compress)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "fauxforce")
	}
	// Fall back to ~/.config/fauxforce
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fauxforce"
	}
	return filepath.Join(home, ".config", "fauxforce")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
