// Package config holds runtime configuration shared by the CLI and the HTTP
// server. Values come from defaults, an optional .env file, and environment
// variables, in that order; command flags override individual fields after
// loading.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 50 * 1024 * 1024 // 50MB

	// envPrefix namespaces all environment variables, e.g. INVOICE_ARTISAN_PORT.
	envPrefix = "INVOICE_ARTISAN"

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for invoice-artisan.
type Config struct {
	// Server configuration
	Host string
	Port int

	// Template configuration
	TemplatesPath   string // optional user template file layered over builtins
	DefaultTemplate string // template id used when a request names none

	// Rendering configuration
	OutputDir  string   // where generated PDFs land
	LogoPaths  []string // candidate logo files, first existing wins
	LogoSearch bool     // when true, also probe conventional logo names

	// Application configuration
	Version     string
	LogLevel    string
	MaxFileSize int64 // maximum input file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Host:            DefaultHost,
		Port:            DefaultPort,
		DefaultTemplate: "modern_blue",
		OutputDir:       ".",
		LogoSearch:      true,
		Version:         "1.0.0",
		LogLevel:        DefaultLogLevel,
		MaxFileSize:     DefaultMaxFileSize,
	}
}

// Load builds the configuration from defaults, a .env file when present, and
// INVOICE_ARTISAN_* environment variables.
func Load() (*Config, error) {
	// Missing .env is the normal case, not an error.
	_ = godotenv.Load()

	cfg := DefaultConfig()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("host", cfg.Host)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("templates", cfg.TemplatesPath)
	v.SetDefault("template", cfg.DefaultTemplate)
	v.SetDefault("output_dir", cfg.OutputDir)
	v.SetDefault("logo", "")
	v.SetDefault("loglevel", cfg.LogLevel)
	v.SetDefault("maxfilesize", cfg.MaxFileSize)

	cfg.Host = v.GetString("host")
	cfg.Port = v.GetInt("port")
	cfg.TemplatesPath = v.GetString("templates")
	cfg.DefaultTemplate = v.GetString("template")
	cfg.OutputDir = v.GetString("output_dir")
	cfg.LogLevel = v.GetString("loglevel")
	cfg.MaxFileSize = v.GetInt64("maxfilesize")

	if logo := v.GetString("logo"); logo != "" {
		cfg.LogoPaths = strings.Split(logo, string(os.PathListSeparator))
	}

	if cfg.TemplatesPath != "" {
		if abs, err := filepath.Abs(cfg.TemplatesPath); err == nil {
			cfg.TemplatesPath = abs
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid, creating the output
// directory when it does not exist yet.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	if c.DefaultTemplate == "" {
		return errors.New("default template id cannot be empty")
	}

	if c.OutputDir == "" {
		return errors.New("output directory cannot be empty")
	}
	if _, err := os.Stat(c.OutputDir); os.IsNotExist(err) {
		if err := os.MkdirAll(c.OutputDir, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create output directory %s: %w", c.OutputDir, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access output directory %s: %w", c.OutputDir, err)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the server address as host:port.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled.
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// LogoCandidates returns the ordered list of logo files to probe. Explicit
// paths always come first; conventional names are appended unless disabled.
func (c *Config) LogoCandidates() []string {
	candidates := append([]string(nil), c.LogoPaths...)
	if c.LogoSearch {
		candidates = append(candidates, "logo.png", "logo.jpg", "assets/logo.png", "assets/logo.jpg")
	}
	return candidates
}

// String returns a string representation of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Host: %s, Port: %d, TemplatesPath: %s, DefaultTemplate: %s, OutputDir: %s, LogLevel: %s, MaxFileSize: %d}",
		c.Host, c.Port, c.TemplatesPath, c.DefaultTemplate, c.OutputDir, c.LogLevel, c.MaxFileSize)
}
