package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"raisingate/internal"
	"raisingate/internal/config"
)

type app struct {
	config *config.Config
	logger *internal.Logger
}

func main() {
	if err := godotenv.Load(); err != nil {
		internal.DefaultLogger.Debug("No .env file found, using system environment variables")
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "raisin",
		Short:         "Raisin dataset workflow: acquire, clean, validate, visualize and fit",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			a.config = cfg
			a.logger = internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level))
			internal.DefaultLogger = a.logger
			return nil
		},
	}

	rootCmd.AddCommand(
		newAcquireCmd(a),
		newCleanCmd(a),
		newValidateCmd(a),
		newVisualizeCmd(a),
		newFitCmd(a),
		newPredictCmd(a),
	)
	return rootCmd
}
