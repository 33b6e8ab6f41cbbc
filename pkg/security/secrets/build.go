package secrets

import (
	"fmt"
	"time"

	"configserver/pkg/config"
)

// NewManagerFromConfig builds a Manager from the secrets section of the
// configuration, constructing one provider per entry in cfg.Providers in
// the order they are listed. A config with no providers yields a Manager
// with no backends; GetSecret/ResolveReferences on it always fail closed
// rather than silently falling through to an unconfigured default.
func NewManagerFromConfig(cfg config.SecretsConfig) (*Manager, error) {
	var providers []SecretProvider

	for i, p := range cfg.Providers {
		if !p.Enabled {
			continue
		}
		switch p.Type {
		case "env":
			providers = append(providers, NewEnvProvider(p.Prefix))
		case "file":
			fp, err := NewFileProvider(p.Path, false)
			if err != nil {
				return nil, fmt.Errorf("secrets.providers[%d]: %w", i, err)
			}
			providers = append(providers, fp)
		default:
			return nil, fmt.Errorf("secrets.providers[%d]: unknown provider type %q", i, p.Type)
		}
	}

	cacheCfg := CacheConfig{
		Enabled: cfg.Cache.Enabled,
		MaxSize: cfg.Cache.MaxSize,
	}
	if cfg.Cache.TTL != "" {
		ttl, err := time.ParseDuration(cfg.Cache.TTL)
		if err != nil {
			return nil, fmt.Errorf("secrets.cache.ttl: %w", err)
		}
		cacheCfg.TTL = ttl
	}

	return NewManager(providers, cacheCfg), nil
}
