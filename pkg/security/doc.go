/*
Package security provides transport security (TLS/mTLS), secret management,
and authentication for configserver.

# TLS Configuration

Configure TLS for the configuration server:

	cfg := &tls.Config{
		Enabled:  true,
		CertFile: "/etc/configserver/certs/server.crt",
		KeyFile:  "/etc/configserver/certs/server.key",
		MinVersion: "1.3",
	}

	tlsConfig, err := cfg.ToTLSConfig()
	if err != nil {
		log.Fatal(err)
	}

# Secret Management

Load secrets from multiple providers:

	fileProvider, err := secrets.NewFileProvider("/var/secrets", true)
	if err != nil {
		log.Fatal(err)
	}
	manager := secrets.NewManager([]secrets.SecretProvider{
		secrets.NewEnvProvider("CONFIGSERVER_SECRET_"),
		fileProvider,
	}, cacheConfig)

	apiKey, err := manager.GetSecret(ctx, "git-password")
	if err != nil {
		log.Fatal(err)
	}
*/
package security
