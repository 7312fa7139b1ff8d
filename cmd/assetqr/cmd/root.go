package cmd

import (
	"fmt"
	"os"
	"time"

	"asset-qr/internal/config"
	"asset-qr/internal/storeclient"
	"asset-qr/pkg/logger"

	"github.com/spf13/cobra"
)

// app is what every subcommand needs, built once per invocation.
type app struct {
	cfg    *config.Config
	store  *storeclient.Client
	logger *logger.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "assetqr",
		Short: "Laptop asset QR codes",
		Long: `assetqr turns laptop asset details into a QR code URL and back.

Codes either embed the record (inline) or point at a record store (reference).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			envFile, _ := cmd.Flags().GetString("env-file")
			cfg, err := config.LoadFile(envFile)
			if err != nil {
				return err
			}

			if url, _ := cmd.Flags().GetString("store-url"); url != "" {
				cfg.Store.URL = url
			}
			if cmd.Flags().Changed("timeout") {
				cfg.Store.Timeout, _ = cmd.Flags().GetDuration("timeout")
			}
			level := cfg.App.LogLevel
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				level = "debug"
			}

			a.cfg = cfg
			a.store = storeclient.NewClient(cfg.Store)
			a.logger = logger.NewWithWriter(cmd.ErrOrStderr(), level)
			return nil
		},
	}

	rootCmd.PersistentFlags().String("env-file", "", "Path to a .env file (default: ./.env when present)")
	rootCmd.PersistentFlags().String("store-url", "", "Record store base URL (overrides STORE_URL)")
	rootCmd.PersistentFlags().Duration("timeout", 15*time.Second, "Record store request timeout")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(newGenerateCmd(a))
	rootCmd.AddCommand(newResolveCmd(a))

	return rootCmd
}

// Execute runs the CLI. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func printField(cmd *cobra.Command, label, value string) {
	if value == "" {
		value = "N/A"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", label+":", value)
}
