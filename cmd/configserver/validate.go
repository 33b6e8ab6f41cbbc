package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"configserver/pkg/cli"
	"configserver/pkg/config"
	"configserver/pkg/gitrepo"
	"configserver/pkg/security/secrets"
	"configserver/pkg/telemetry/logging"
)

var validateFlags struct {
	checkGit bool
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the server configuration",
	Long: `Validate the configuration file without starting the server.

By default validate only checks the configuration's shape (required
fields, valid enum values, internally consistent settings). Pass
--check-git to additionally attempt to resolve the configured git
repository's default label, which requires network access to the
remote.

Examples:
  # Validate config shape only
  configserver validate

  # Also verify the git remote is reachable
  configserver validate --check-git`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateFlags.checkGit, "check-git", false, "also verify the configured git remote is reachable")
}

func runValidate(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("", err.Error())
	}
	fmt.Println("configuration shape is valid")

	if !validateFlags.checkGit {
		return nil
	}

	logger, err := logging.New(logging.Config{Level: "warn", Format: "text", Writer: os.Stdout})
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Shutdown()

	secretsMgr, err := secrets.NewManagerFromConfig(cfg.Secrets)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to configure secrets: %v", err))
	}
	repo := gitrepo.NewRepository(&cfg.Git, secretsMgr, logger)

	ctx := context.Background()
	locations, err := repo.GetLocations(ctx, "application", "default", cfg.Git.DefaultLabel)
	if err != nil {
		return cli.NewCommandError("validate", fmt.Errorf("git remote check failed: %w", err))
	}

	fmt.Printf("git remote reachable: %s\n", cfg.Git.URI)
	fmt.Printf("resolved revision: %s\n", locations.Version)
	return nil
}
