package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/verdict/internal/config"
	"github.com/aretw0/verdict/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "verdict",
	Short: "Verdict turns lines of text into a list you can judge",
	Long: `Verdict converts selected lines into items that you mark as success or failure.
Successes rise to the top, failures sink to the bottom and the list reports the ratio
once every item has a verdict.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			loaded.Log.Level, _ = cmd.Flags().GetString("log-level")
		}

		level, err := logging.ParseLevel(loaded.Log.Level)
		if err != nil {
			return err
		}
		format, err := logging.ParseFormat(loaded.Log.Format)
		if err != nil {
			return err
		}
		cfg = loaded
		logger = logging.NewWithFormat(cmd.ErrOrStderr(), level, format)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
}
