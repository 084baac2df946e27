// Package config loads runtime configuration for the oddsup CLI.
//
// Sources, later ones winning:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory, if present.
//  3. ODDSUP_* environment variables.
//  4. A JSON file selected with -c or -config.
//  5. Command-line flags -a, -t and -d.
//
// The JSON loader uses timex.Duration, so timeouts may be written as
// strings like "15s" or as integer nanoseconds:
//
//	{
//	  "server_url": "https://api.oddsup.app",
//	  "request_timeout": "15s",
//	  "data_dir": ".oddsup",
//	  "biometric_command": "fprintd-verify",
//	  "biometric_kind": "touchId",
//	  "log_level": "info",
//	  "log_backend": "slog"
//	}
package config
