package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds runtime settings for the oddsup CLI.
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
	// DataDir holds the credential database and the device secret.
	DataDir string
	// DeviceSecret, when set, replaces the generated key file.
	DeviceSecret string

	BiometricCommand string
	BiometricKind    string

	LogLevel   string
	LogBackend string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "https://api.oddsup.app"
	c.RequestTimeout = 15 * time.Second
	c.DataDir = ".oddsup"
	c.DeviceSecret = ""
	c.BiometricCommand = "fprintd-verify"
	c.BiometricKind = "touchId"
	c.LogLevel = "info"
	c.LogBackend = "slog"
}

// Load builds a Config from defaults, the .env file, the environment,
// the JSON file and args, in that order.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout < 0 {
		return nil, fmt.Errorf("request timeout must not be negative, got %s", cfg.RequestTimeout)
	}
	return cfg, nil
}
