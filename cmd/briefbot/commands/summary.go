package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nkoski/briefbot/pkg/briefbot/config"
	"github.com/nkoski/briefbot/pkg/briefbot/store"
	"github.com/nkoski/briefbot/pkg/briefbot/summary"
)

// newSummaryCmd creates the summary command: run the generation pipeline
// once against the stored messages and print the result, without touching
// Discord. Useful for checking prompt and fallback output before a scheduled
// run.
func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Generate a summary of the last 24 hours and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			logger := newLogger(cmd)

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			spec, err := cfg.Schedule()
			if err != nil {
				return err
			}

			st, err := store.Open(cfg.Database.Path, logger)
			if err != nil {
				return err
			}
			defer st.Close()

			var llm summary.TextGenerator
			client, err := summary.NewLLMClient(cfg.API.Key, cfg.API.BaseURL, cfg.API.Model, cfg.API.MaxTokens, logger)
			if err != nil {
				logger.Warn("LLM client unavailable, using fallback summary", "error", err)
			} else {
				llm = client
			}

			gen := summary.NewGenerator(st, llm, spec, logger)
			text, genErr := gen.Generate(cmd.Context())
			if genErr != nil {
				logger.Warn("generation fault, printed summary is the fallback", "error", genErr)
			}

			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}
