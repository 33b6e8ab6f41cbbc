package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "configserver",
	Short: "A centralized, git-backed configuration server",
	Long: `configserver is a centralized configuration server that serves
versioned application configuration out of a git repository.

It provides:
  - Resolution of application/profile/label requests to a git revision
  - Property-file materialisation into ordered property sources
  - An encryption endpoint for encrypting and decrypting property values
  - Health and Prometheus metrics endpoints

For more information, visit: https://github.com/configserver`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Keep the default completion command enabled; cobra does not add it
	// because completion.go registers its own "completion" command.
	rootCmd.CompletionOptions.DisableDefaultCmd = false
}
