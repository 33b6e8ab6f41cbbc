package config

import (
	"fmt"
	"net/url"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "git.uri").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

var validGitSchemes = map[string]bool{
	"http": true, "https": true, "ssh": true, "file": true,
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateGit(&cfg.Git)...)
	errs = append(errs, validateEncrypt(&cfg.Encrypt)...)
	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateLogging(&cfg.Logging)...)
	errs = append(errs, validateSecrets(&cfg.Secrets)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateGit(cfg *GitConfig) []FieldError {
	var errs []FieldError

	if cfg.URI == "" {
		errs = append(errs, FieldError{Field: "git.uri", Message: "uri is required"})
		return errs
	}

	if strings.HasPrefix(cfg.URI, "file:") {
		return errs
	}

	parsed, err := url.Parse(cfg.URI)
	if err != nil {
		errs = append(errs, FieldError{Field: "git.uri", Message: fmt.Sprintf("invalid uri: %v", err)})
		return errs
	}
	if !validGitSchemes[parsed.Scheme] {
		errs = append(errs, FieldError{
			Field:   "git.uri",
			Message: fmt.Sprintf("scheme %q is not one of http, https, ssh, file", parsed.Scheme),
		})
	}

	if cfg.Basedir == "" && parsed.Scheme != "file" {
		errs = append(errs, FieldError{Field: "git.basedir", Message: "basedir is required for non-file uris"})
	}

	if cfg.TimeoutSeconds < 0 {
		errs = append(errs, FieldError{Field: "git.timeout", Message: "timeout must be >= 0"})
	}

	return errs
}

func validateEncrypt(cfg *EncryptConfig) []FieldError {
	var errs []FieldError

	if cfg.Key != "" && cfg.KeyStore.Location != "" {
		errs = append(errs, FieldError{
			Field:   "encrypt",
			Message: "key and key_store.location are mutually exclusive",
		})
	}

	return errs
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{Field: "server.listen_address", Message: "listen address is required"})
	}

	if cfg.TLS.Enabled {
		if cfg.TLS.CertFile == "" {
			errs = append(errs, FieldError{Field: "server.tls.cert_file", Message: "cert_file is required when tls is enabled"})
		}
		if cfg.TLS.KeyFile == "" {
			errs = append(errs, FieldError{Field: "server.tls.key_file", Message: "key_file is required when tls is enabled"})
		}
		if cfg.TLS.MinVersion != "1.2" && cfg.TLS.MinVersion != "1.3" {
			errs = append(errs, FieldError{Field: "server.tls.min_version", Message: "min_version must be \"1.2\" or \"1.3\""})
		}
		if cfg.TLS.MTLS.Enabled && cfg.TLS.MTLS.ClientCAFile == "" {
			errs = append(errs, FieldError{Field: "server.tls.mtls.client_ca_file", Message: "client_ca_file is required when mtls is enabled"})
		}
	}

	return errs
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
var validLogFormats = map[string]bool{"json": true, "text": true}

func validateLogging(cfg *LoggingConfig) []FieldError {
	var errs []FieldError

	if cfg.Level != "" && !validLogLevels[cfg.Level] {
		errs = append(errs, FieldError{Field: "logging.level", Message: "level must be one of debug, info, warn, error"})
	}
	if cfg.Format != "" && !validLogFormats[cfg.Format] {
		errs = append(errs, FieldError{Field: "logging.format", Message: "format must be one of json, text"})
	}

	return errs
}

var validSecretProviderTypes = map[string]bool{"env": true, "file": true}

func validateSecrets(cfg *SecretsConfig) []FieldError {
	var errs []FieldError

	for i, p := range cfg.Providers {
		if !validSecretProviderTypes[p.Type] {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("secrets.providers[%d].type", i),
				Message: "type must be one of env, file",
			})
		}
		if p.Type == "file" && p.Path == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("secrets.providers[%d].path", i),
				Message: "path is required for the file provider",
			})
		}
	}

	return errs
}
