package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Scan      ScanConfig      `mapstructure:"scan"`
	Server    ServerConfig    `mapstructure:"server"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Log       LogConfig       `mapstructure:"log"`
}

// ScanConfig controls what gets scanned and how results are printed
type ScanConfig struct {
	Root      string `mapstructure:"root"`
	Extension string `mapstructure:"extension"`
	JSON      bool   `mapstructure:"json"`
}

// ServerConfig contains scan service configuration
type ServerConfig struct {
	Port   int    `mapstructure:"port"`
	APIKey string `mapstructure:"api_key"`
}

// TelemetryConfig contains telemetry configuration
type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// Load loads the configuration from viper
func Load() (*Config, error) {
	cfg := &Config{}

	setDefaults()

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := postProcess(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults() {
	// Scan defaults
	viper.SetDefault("scan.root", ".")
	viper.SetDefault("scan.extension", "dae")
	viper.SetDefault("scan.json", false)

	// Server defaults
	viper.SetDefault("server.port", 8000)

	// Telemetry defaults
	viper.SetDefault("telemetry.enabled", false)

	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.json", false)

	_ = viper.BindEnv("server.api_key", "SESSION_API_KEY")
	_ = viper.BindEnv("telemetry.endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func postProcess(cfg *Config) error {
	cfg.Scan.Extension = strings.TrimPrefix(strings.TrimSpace(cfg.Scan.Extension), ".")
	if cfg.Scan.Extension == "" {
		return fmt.Errorf("scan.extension must not be empty")
	}

	if cfg.Scan.Root == "" {
		cfg.Scan.Root = "."
	}

	if !filepath.IsAbs(cfg.Scan.Root) {
		abs, err := filepath.Abs(cfg.Scan.Root)
		if err != nil {
			return fmt.Errorf("failed to resolve scan.root %q: %w", cfg.Scan.Root, err)
		}
		cfg.Scan.Root = abs
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", cfg.Server.Port)
	}

	return nil
}
