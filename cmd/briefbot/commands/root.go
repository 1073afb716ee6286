// Package commands implements the briefbot CLI using cobra.
package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root CLI command with all subcommands registered.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "briefbot",
		Short: "briefbot - daily Discord channel summaries",
		Long: `briefbot watches a Discord channel, stores its messages, and posts an
LLM-generated summary of the last 24 hours to subscriber channels once a day.

Examples:
  briefbot serve
  briefbot summary
  briefbot credentials set-token`,
		Version: version,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newSummaryCmd(),
		newCredentialsCmd(),
	)

	rootCmd.PersistentFlags().StringP("config", "c", "config.yaml", "path to the configuration file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	return rootCmd
}

// newLogger builds the process logger from the persistent flags.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
