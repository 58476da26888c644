package main

import (
	"fmt"
	"os"

	"github.com/beijingsoftware/QR-Code-Database/config"
	"github.com/spf13/cobra"
)

// cfg holds the configuration loaded before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "qrctl",
	Short: "Operator CLI for the QR code link database",
	Long: `qrctl manages the QR code link database from the terminal:
issue new secret-gated links, run schema setup, and review scan audit
trails.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
}
