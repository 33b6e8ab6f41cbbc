package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"configserver/pkg/cli"
	"configserver/pkg/config"
	"configserver/pkg/encryption"
	"configserver/pkg/gitrepo"
	"configserver/pkg/httpapi"
	"configserver/pkg/security/secrets"
	"configserver/pkg/telemetry/health"
	"configserver/pkg/telemetry/logging"
	"configserver/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the configuration server",
	Long: `Start the configuration server with the specified configuration.

The server clones and tracks the configured git repository, serves
resolved environments over HTTP, and exposes the encryption endpoint
for encrypting and decrypting property values.

Examples:
  # Start with default config
  configserver run

  # Start with custom config
  configserver run --config /etc/configserver/config.yaml

  # Override listen address
  configserver run --listen 0.0.0.0:8888

  # Validate config without starting the server
  configserver run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the server")
}

func runServer(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Logging.Level = runFlags.logLevel
	}

	logger, err := logging.New(logging.Config{
		Level:          cfg.Logging.Level,
		Format:         cfg.Logging.Format,
		AddSource:      cfg.Logging.AddSource,
		RedactPII:      cfg.Logging.RedactSecrets,
		BufferSize:     cfg.Logging.BufferSize,
		RedactPatterns: cfg.Logging.RedactPatterns,
		Writer:         os.Stdout,
	})
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Shutdown()

	if runFlags.dryRun {
		fmt.Println("configuration valid")
		return nil
	}

	printBanner(cfg, logger)

	collector := metrics.NewCollector(&cfg.Metrics, nil)

	secretsMgr, err := secrets.NewManagerFromConfig(cfg.Secrets)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to configure secrets: %v", err))
	}

	encryptionService := encryption.NewService()
	if err := installActiveKey(encryptionService, cfg, secretsMgr); err != nil {
		logger.Warn("no encryption key installed at startup", "error", err)
	}
	collector.SetKeyInstalled(encryptionService.Status() == nil)

	repo := gitrepo.NewRepository(&cfg.Git, secretsMgr, logger)

	ctx := cli.SetupSignalHandler()

	if err := repo.Start(ctx); err != nil {
		return cli.NewCommandError("run", fmt.Errorf("failed to initialize git repository: %w", err))
	}
	fmt.Printf("repository ready: %s\n", cfg.Git.URI)

	checker := health.New(cfg.Health.CheckTimeout)
	checker.RegisterCheck("git", func(ctx context.Context) error {
		_, err := repo.CurrentCommit()
		return err
	})
	checker.RegisterCheck("encryption", func(ctx context.Context) error {
		return encryptionService.Status()
	})

	srv := httpapi.NewServer(cfg, repo, encryptionService, collector, checker, logger)

	fmt.Println()
	fmt.Printf("server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("health endpoint: http://%s%s\n", cfg.Server.ListenAddress, cfg.Health.LivenessPath)
	fmt.Printf("metrics endpoint: http://%s%s\n", cfg.Server.ListenAddress, cfg.Metrics.Path)
	fmt.Println("\npress ctrl+c to stop")

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}

	fmt.Println("server stopped")
	return nil
}

// installActiveKey installs the configured encryption key, if any, as
// the service's active key. A raw symmetric passphrase and a PEM key
// pair are both accepted directly from cfg.Encrypt.Key; KeyStore.Location
// names a PEM file on disk (this rendition has no JKS keystore support,
// see DESIGN.md). cfg.Encrypt.Key may be a ${secret:name} reference,
// resolved through mgr before use; cfg.Encrypt.KeyStore.Password is not
// read.
func installActiveKey(svc *encryption.Service, cfg *config.Config, mgr *secrets.Manager) error {
	key, err := resolveSecret(mgr, cfg.Encrypt.Key)
	if err != nil {
		return fmt.Errorf("resolving encrypt key secret: %w", err)
	}
	if key != "" {
		return svc.InstallKey([]byte(key))
	}
	if cfg.Encrypt.KeyStore.Location != "" {
		data, err := os.ReadFile(cfg.Encrypt.KeyStore.Location)
		if err != nil {
			return fmt.Errorf("failed to read key store: %w", err)
		}
		return svc.InstallKey(data)
	}
	return fmt.Errorf("no encryption key configured")
}

// resolveSecret expands a ${secret:name} reference in value through mgr.
// A nil manager or a value without a reference passes through unchanged.
func resolveSecret(mgr *secrets.Manager, value string) (string, error) {
	if mgr == nil || value == "" {
		return value, nil
	}
	return mgr.ResolveReferences(context.Background(), value)
}

func printBanner(cfg *config.Config, logger *logging.Logger) {
	fmt.Printf("configserver v%s\n", Version)
	fmt.Printf("loading configuration from: %s\n", cfgFile)
	fmt.Println("configuration loaded")
	logger.Debug("git repository configured", "uri", cfg.Git.URI, "default_label", cfg.Git.DefaultLabel)
}
