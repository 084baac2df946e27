package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "ODDSUP_"

// loadDotEnv exports the variables in path without overriding ones that
// are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// parseEnv overlays cfg with ODDSUP_* variables.
func parseEnv(cfg *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"SERVER_URL":        &cfg.ServerURL,
		"DATA_DIR":          &cfg.DataDir,
		"DEVICE_SECRET":     &cfg.DeviceSecret,
		"BIOMETRIC_COMMAND": &cfg.BiometricCommand,
		"BIOMETRIC_KIND":    &cfg.BiometricKind,
		"LOG_LEVEL":         &cfg.LogLevel,
		"LOG_BACKEND":       &cfg.LogBackend,
	}
	for name, dst := range strs {
		if v, ok := lookup(envPrefix + name); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup(envPrefix + "REQUEST_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sREQUEST_TIMEOUT: %w", envPrefix, err)
		}
		cfg.RequestTimeout = d
	}
	return nil
}
