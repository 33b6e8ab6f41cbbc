package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeTempConfig(t, `
git:
  uri: "https://example.com/repo.git"
  basedir: "/tmp/repo"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.Git.DefaultLabel != DefaultGitDefaultLabel {
		t.Errorf("expected default label %q, got %q", DefaultGitDefaultLabel, cfg.Git.DefaultLabel)
	}
	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("expected listen address %q, got %q", DefaultListenAddress, cfg.Server.ListenAddress)
	}
	if cfg.Metrics.Namespace != DefaultMetricsNamespace {
		t.Errorf("expected metrics namespace %q, got %q", DefaultMetricsNamespace, cfg.Metrics.Namespace)
	}
	if len(cfg.Git.SearchPaths) != 1 || cfg.Git.SearchPaths[0] != "{workingDir}" {
		t.Errorf("expected default search paths, got %v", cfg.Git.SearchPaths)
	}
}

func TestLoadConfigMissingURI(t *testing.T) {
	path := writeTempConfig(t, `
server:
  listen_address: "127.0.0.1:9999"
`)

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected error for missing git.uri")
	}
}

func TestLoadConfigFileURISkipsBasedirRequirement(t *testing.T) {
	path := writeTempConfig(t, `
git:
  uri: "file:///tmp/some-repo"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Git.URI != "file:///tmp/some-repo" {
		t.Errorf("unexpected uri: %s", cfg.Git.URI)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeTempConfig(t, `
git:
  uri: "https://example.com/repo.git"
  basedir: "/tmp/repo"
`)

	t.Setenv("CONFIGSERVER_GIT_URI", "https://override.example.com/repo.git")
	t.Setenv("CONFIGSERVER_GIT_REFRESH_RATE", "30")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides returned error: %v", err)
	}

	if cfg.Git.URI != "https://override.example.com/repo.git" {
		t.Errorf("expected env override to apply, got %s", cfg.Git.URI)
	}
	if cfg.Git.RefreshRateSeconds != 30 {
		t.Errorf("expected refresh rate override 30, got %d", cfg.Git.RefreshRateSeconds)
	}
}
