package config

import "testing"

func TestSetAndGetConfig(t *testing.T) {
	cfg := &Config{Git: GitConfig{URI: "https://example.com/repo.git"}}
	SetConfig(cfg)

	got := GetConfig()
	if got != cfg {
		t.Fatal("GetConfig did not return the config set by SetConfig")
	}
}

func TestMustGetConfigPanicsWhenUnset(t *testing.T) {
	configMutex.Lock()
	globalConfig = nil
	configMutex.Unlock()

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected MustGetConfig to panic when unset")
		}
	}()

	MustGetConfig()
}
