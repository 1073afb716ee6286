package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nkoski/briefbot/pkg/briefbot/config"
)

// newCredentialsCmd creates the credentials command group for storing the
// bot token and LLM API key in the OS keyring instead of the config file or
// environment.
func newCredentialsCmd() *cobra.Command {
	credCmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage secrets in the OS keyring",
	}

	credCmd.AddCommand(
		&cobra.Command{
			Use:   "set-token",
			Short: "Store the Discord bot token in the OS keyring",
			RunE: func(cmd *cobra.Command, args []string) error {
				value, err := promptSecret("Discord bot token: ")
				if err != nil {
					return err
				}
				if err := config.StoreBotToken(value); err != nil {
					return fmt.Errorf("storing token in keyring: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Token stored.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "set-api-key",
			Short: "Store the LLM API key in the OS keyring",
			RunE: func(cmd *cobra.Command, args []string) error {
				value, err := promptSecret("LLM API key: ")
				if err != nil {
					return err
				}
				if err := config.StoreAPIKey(value); err != nil {
					return fmt.Errorf("storing API key in keyring: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "API key stored.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove stored secrets from the OS keyring",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := config.ClearCredentials(); err != nil {
					return fmt.Errorf("clearing keyring: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Credentials cleared.")
				return nil
			},
		},
	)

	return credCmd
}

// promptSecret reads a secret without echoing it to the terminal.
func promptSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	data, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading secret: %w", err)
	}
	value := strings.TrimSpace(string(data))
	if value == "" {
		return "", fmt.Errorf("empty secret")
	}
	return value, nil
}
