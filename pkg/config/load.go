package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. The configuration is not modified by environment variables; use
// LoadConfigWithEnvOverrides for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention CONFIGSERVER_SECTION_FIELD (e.g., CONFIGSERVER_GIT_URI).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file, apply default values and validate (LoadConfig)
// 2. Apply environment variable overrides
// 3. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables use the format
// CONFIGSERVER_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Git overrides
	if val := os.Getenv("CONFIGSERVER_GIT_URI"); val != "" {
		cfg.Git.URI = val
	}
	if val := os.Getenv("CONFIGSERVER_GIT_BASEDIR"); val != "" {
		cfg.Git.Basedir = val
	}
	if val := os.Getenv("CONFIGSERVER_GIT_DEFAULT_LABEL"); val != "" {
		cfg.Git.DefaultLabel = val
	}
	if val := os.Getenv("CONFIGSERVER_GIT_TRY_MASTER_BRANCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Git.TryMasterFallback = b
		}
	}
	if val := os.Getenv("CONFIGSERVER_GIT_TIMEOUT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Git.TimeoutSeconds = i
		}
	}
	if val := os.Getenv("CONFIGSERVER_GIT_REFRESH_RATE"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Git.RefreshRateSeconds = i
		}
	}
	if val := os.Getenv("CONFIGSERVER_GIT_CLONE_ON_START"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Git.CloneOnStart = b
		}
	}
	if val := os.Getenv("CONFIGSERVER_GIT_FORCE_PULL"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Git.ForcePull = b
		}
	}
	if val := os.Getenv("CONFIGSERVER_GIT_DELETE_UNTRACKED_BRANCHES"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Git.DeleteUntrackedBranches = b
		}
	}
	if val := os.Getenv("CONFIGSERVER_GIT_SKIP_SSL_VALIDATION"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Git.SkipSslValidation = b
		}
	}
	if val := os.Getenv("CONFIGSERVER_GIT_USERNAME"); val != "" {
		cfg.Git.Username = val
	}
	if val := os.Getenv("CONFIGSERVER_GIT_PASSWORD"); val != "" {
		cfg.Git.Password = val
	}
	if val := os.Getenv("CONFIGSERVER_GIT_PASSPHRASE"); val != "" {
		cfg.Git.Passphrase = val
	}

	// Encrypt overrides
	if val := os.Getenv("CONFIGSERVER_ENCRYPT_KEY"); val != "" {
		cfg.Encrypt.Key = val
	}
	if val := os.Getenv("CONFIGSERVER_ENCRYPT_KEY_STORE_LOCATION"); val != "" {
		cfg.Encrypt.KeyStore.Location = val
	}
	if val := os.Getenv("CONFIGSERVER_ENCRYPT_KEY_STORE_PASSWORD"); val != "" {
		cfg.Encrypt.KeyStore.Password = val
	}
	if val := os.Getenv("CONFIGSERVER_ENCRYPT_KEY_STORE_ALIAS"); val != "" {
		cfg.Encrypt.KeyStore.Alias = val
	}

	// Server overrides
	if val := os.Getenv("CONFIGSERVER_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("CONFIGSERVER_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("CONFIGSERVER_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("CONFIGSERVER_SERVER_TLS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Server.TLS.Enabled = b
		}
	}
	if val := os.Getenv("CONFIGSERVER_SERVER_TLS_CERT_FILE"); val != "" {
		cfg.Server.TLS.CertFile = val
	}
	if val := os.Getenv("CONFIGSERVER_SERVER_TLS_KEY_FILE"); val != "" {
		cfg.Server.TLS.KeyFile = val
	}

	// Logging overrides
	if val := os.Getenv("CONFIGSERVER_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("CONFIGSERVER_LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}

	// Metrics overrides
	if val := os.Getenv("CONFIGSERVER_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("CONFIGSERVER_METRICS_PATH"); val != "" {
		cfg.Metrics.Path = val
	}
}
