/*
Package secrets provides a pluggable framework for loading secrets from
multiple sources.

# Overview

The secrets package lets the configuration server load credentials (git
remote passwords, SSH passphrases, the encryption service's passphrase
or key material) from environment variables or mounted files, with
in-memory caching to reduce backend calls.

# Secret Providers

The package supports multiple secret providers that can be chained
together with priority-based fallback. Each provider implements the
SecretProvider interface:

  - Environment Variable Provider: Load secrets from environment variables
  - File-Based Provider: Load secrets from individual files (Kubernetes-style)

# Basic Usage

Create a secret manager with multiple providers:

	import (
		"context"
		"time"
		"configserver/pkg/security/secrets"
	)

	// Create providers
	envProvider := secrets.NewEnvProvider("CONFIGSERVER_SECRET_")
	fileProvider, _ := secrets.NewFileProvider("/var/secrets", true)

	// Create manager with cache config
	cacheConfig := secrets.CacheConfig{
		Enabled: true,
		TTL:     5 * time.Minute,
		MaxSize: 1000,
	}

	manager := secrets.NewManager(
		[]secrets.SecretProvider{envProvider, fileProvider},
		cacheConfig,
	)

	// Get a secret
	gitPassword, err := manager.GetSecret(context.Background(), "git-password")
	if err != nil {
		log.Fatal(err)
	}

# Secret References

The manager can resolve secret references in configuration strings using
the ${secret:name} syntax:

	configValue := "password: ${secret:git-password}"
	resolved, err := manager.ResolveReferences(context.Background(), configValue)
	// resolved = "password: s3cr3t..."

# Environment Variable Provider

The environment variable provider loads secrets from environment
variables with an optional prefix:

	provider := secrets.NewEnvProvider("CONFIGSERVER_SECRET_")

	// Secret name "git-password" maps to env var "CONFIGSERVER_SECRET_GIT_PASSWORD"
	value, err := provider.GetSecret(ctx, "git-password")

Environment variable naming:
  - Secret name: "git-password"
  - Env var name: "CONFIGSERVER_SECRET_GIT_PASSWORD"
  - Conversion: uppercase, replace hyphens with underscores, add prefix

# File-Based Provider

The file-based provider loads secrets from individual files in a
directory:

	provider, err := secrets.NewFileProvider("/var/secrets", true)
	if err != nil {
		log.Fatal(err)
	}
	defer provider.Close()

	// Secret name "git-password" reads from "/var/secrets/git-password"
	value, err := provider.GetSecret(ctx, "git-password")

File-based features:
  - File permissions validation (0600 or 0400 only)
  - Optional file watching for auto-reload
  - Kubernetes-style secret mounting support
  - Automatic cache invalidation on file changes

# Secret Caching

Secrets are cached in memory to reduce backend calls:

	cacheConfig := secrets.CacheConfig{
		Enabled: true,        // Enable caching
		TTL:     5 * time.Minute,  // Cache for 5 minutes
		MaxSize: 1000,        // Maximum 1000 secrets
	}

Cache features:
  - Eviction of the oldest-set entry when MaxSize is reached
  - TTL-based expiration
  - Automatic invalidation on provider refresh
  - Thread-safe access

# Provider Priority

When multiple providers are configured, they are tried in order:

	manager := secrets.NewManager(
		[]secrets.SecretProvider{
			envProvider,    // Try environment variables first
			fileProvider,   // Then try files
		},
		cacheConfig,
	)

The first provider that supports the secret and successfully returns a
value wins.

# Secret Rotation

Providers that implement RefreshableProvider can reload secrets without
restart:

	// Refresh all providers and clear cache
	err := manager.Refresh(context.Background())
	if err != nil {
		log.Error("failed to refresh secrets", "error", err)
	}

File-based providers automatically refresh when files change if
watching is enabled.

# Security Considerations

Secret values are protected:
  - Never logged (the manager redacts secret names in its logs; the file
    watcher logs the name of a changed file)
  - Never included in error messages
  - File permissions validated (0600 or 0400 only)
  - Cached with TTL to minimize exposure window
  - Cleared from cache on refresh

# Configuration Example

YAML configuration for secret management:

	secrets:
	  providers:
	    # Environment variables (each entry needs enabled: true)
	    - type: "env"
	      enabled: true
	      prefix: "CONFIGSERVER_SECRET_"

	    # File-based secrets (Kubernetes-style)
	    - type: "file"
	      enabled: true
	      path: "/var/secrets"

	  cache:
	    enabled: true
	    ttl: "5m"
	    max_size: 1000

# Error Handling

Errors are returned for:
  - Secret not found in any provider
  - File permission errors (too permissive)
  - Provider-specific errors

Example error handling:

	value, err := manager.GetSecret(ctx, "my-secret")
	if err != nil {
		log.Error("failed to get secret",
			"name", "my-secret",
			"error", err,
		)
		return err
	}

# Thread Safety

All components are thread-safe:
  - Cache uses sync.RWMutex for concurrent access
  - Manager supports concurrent GetSecret calls
  - Providers implement their own synchronization as needed

# Best Practices

1. Use environment variables for development
2. Use file-based secrets for Kubernetes
3. Enable caching to reduce backend load
4. Set appropriate TTL based on rotation frequency
5. Use file watching for zero-downtime rotation
6. Never commit secrets to version control
7. Validate file permissions on startup

# Example: Complete Setup

	package main

	import (
		"context"
		"log"
		"time"

		"configserver/pkg/security/secrets"
	)

	func main() {
		// Create providers
		envProvider := secrets.NewEnvProvider("CONFIGSERVER_SECRET_")
		fileProvider, err := secrets.NewFileProvider("/var/secrets", true)
		if err != nil {
			log.Fatal(err)
		}
		defer fileProvider.Close()

		// Create manager
		manager := secrets.NewManager(
			[]secrets.SecretProvider{envProvider, fileProvider},
			secrets.CacheConfig{
				Enabled: true,
				TTL:     5 * time.Minute,
				MaxSize: 1000,
			},
		)

		// Get secrets
		ctx := context.Background()

		gitPassword, err := manager.GetSecret(ctx, "git-password")
		if err != nil {
			log.Fatal(err)
		}

		encryptKey, err := manager.GetSecret(ctx, "encrypt-key")
		if err != nil {
			log.Fatal(err)
		}

		log.Printf("Loaded %d secrets", 2)

		// Resolve references in config
		configValue := `
		git:
		  password: ${secret:git-password}
		encrypt:
		  key: ${secret:encrypt-key}
		`

		resolved, err := manager.ResolveReferences(ctx, configValue)
		if err != nil {
			log.Fatal(err)
		}

		log.Printf("Resolved config:\n%s", resolved)
	}
*/
package secrets
