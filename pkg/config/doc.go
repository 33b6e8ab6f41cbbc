// Package config provides configuration management for the configuration
// server.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides. It provides a type-safe
// configuration system with sensible defaults.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("config.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention CONFIGSERVER_SECTION_FIELD.
// For example:
//
//   - CONFIGSERVER_GIT_URI overrides git.uri
//   - CONFIGSERVER_GIT_REFRESH_RATE overrides git.refresh_rate
//   - CONFIGSERVER_LOGGING_LEVEL overrides logging.level
//
// Environment variables always take precedence over file-based configuration.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Singleton Pattern
//
// For application-wide configuration access, use the singleton pattern:
//
//	// At application startup
//	if err := config.Initialize("config.yaml"); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Anywhere in the application
//	cfg := config.GetConfig()
//	fmt.Println(cfg.Git.URI)
//
// For testing, prefer dependency injection with explicit Config instances
// rather than the global singleton.
//
// # Validation
//
// All configuration is validated automatically during loading. Validation
// includes required-field checks (e.g., git.uri), format checks (e.g., the
// uri scheme), and logical checks (e.g., TLS requires a cert and key file).
//
// Validation errors include field paths and helpful messages:
//
//	configuration validation failed with 2 errors:
//	  - git.uri: uri is required
//	  - server.tls.cert_file: cert_file is required when tls is enabled
//
// # Example Configuration
//
//	git:
//	  uri: "https://github.com/example/config-repo.git"
//	  basedir: "/var/lib/configserver/repo"
//	  default_label: "main"
//	  try_master_branch: true
//
//	encrypt:
//	  key: "${secret:encrypt-key}"
//
//	server:
//	  listen_address: "0.0.0.0:8888"
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Thread Safety
//
// All configuration access is thread-safe. The singleton pattern uses
// read-write locks to allow concurrent reads while protecting against
// concurrent writes during reload operations.
package config
