package config

import "testing"

func TestValidateRejectsUnknownScheme(t *testing.T) {
	cfg := &Config{Git: GitConfig{URI: "ftp://example.com/repo.git", Basedir: "/tmp/x"}}
	ApplyDefaults(cfg)

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for ftp scheme")
	}
}

func TestValidateTLSRequiresCertAndKey(t *testing.T) {
	cfg := &Config{Git: GitConfig{URI: "https://example.com/repo.git", Basedir: "/tmp/x"}}
	cfg.Server.TLS.Enabled = true
	ApplyDefaults(cfg)

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for missing TLS cert/key")
	}

	verr, ok := err.(ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(verr.Errors) != 2 {
		t.Fatalf("expected 2 errors (cert, key), got %d: %v", len(verr.Errors), verr.Errors)
	}
}

func TestValidateMTLSRequiresClientCAFile(t *testing.T) {
	cfg := &Config{Git: GitConfig{URI: "https://example.com/repo.git", Basedir: "/tmp/x"}}
	cfg.Server.TLS.Enabled = true
	cfg.Server.TLS.CertFile = "/tmp/cert.pem"
	cfg.Server.TLS.KeyFile = "/tmp/key.pem"
	cfg.Server.TLS.MTLS.Enabled = true
	ApplyDefaults(cfg)

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for missing mtls client_ca_file")
	}

	verr, ok := err.(ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(verr.Errors) != 1 {
		t.Fatalf("expected 1 error (client_ca_file), got %d: %v", len(verr.Errors), verr.Errors)
	}
}

func TestValidateEncryptKeyAndKeyStoreExclusive(t *testing.T) {
	cfg := &Config{Git: GitConfig{URI: "https://example.com/repo.git", Basedir: "/tmp/x"}}
	cfg.Encrypt.Key = "secret"
	cfg.Encrypt.KeyStore.Location = "/tmp/keystore.jks"
	ApplyDefaults(cfg)

	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for both key and key_store set")
	}
}

func TestValidatePassesWithValidConfig(t *testing.T) {
	cfg := &Config{Git: GitConfig{URI: "https://example.com/repo.git", Basedir: "/tmp/x"}}
	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}
}
