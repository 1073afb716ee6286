package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nkoski/briefbot/pkg/briefbot/bot"
	"github.com/nkoski/briefbot/pkg/briefbot/config"
)

// newServeCmd creates the serve command: connect to Discord and run the
// ingestion + daily summary loop until interrupted.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot (ingestion + daily summary schedule)",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			logger := newLogger(cmd)

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			b, err := bot.New(cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return b.Run(ctx)
		},
	}
}
