package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/oddsup/internal/flagx"
	"github.com/dmitrijs2005/oddsup/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Empty fields leave
// the current value alone.
type JsonConfig struct {
	ServerURL        string          `json:"server_url"`
	RequestTimeout   *timex.Duration `json:"request_timeout"`
	DataDir          string          `json:"data_dir"`
	DeviceSecret     string          `json:"device_secret"`
	BiometricCommand string          `json:"biometric_command"`
	BiometricKind    string          `json:"biometric_kind"`
	LogLevel         string          `json:"log_level"`
	LogBackend       string          `json:"log_backend"`
}

// parseJson overlays cfg with the file named by -c/-config, if any.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	overlay(&cfg.ServerURL, jc.ServerURL)
	overlay(&cfg.DataDir, jc.DataDir)
	overlay(&cfg.DeviceSecret, jc.DeviceSecret)
	overlay(&cfg.BiometricCommand, jc.BiometricCommand)
	overlay(&cfg.BiometricKind, jc.BiometricKind)
	overlay(&cfg.LogLevel, jc.LogLevel)
	overlay(&cfg.LogBackend, jc.LogBackend)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
