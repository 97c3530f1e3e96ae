package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strrl/trackdash/internal/apiclient"
)

// NewHealthCommand creates the health command
func NewHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the tracker API is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			client, _, err := newClient(cmd, cfg)
			if err != nil {
				return err
			}

			health, err := client.Health(cmd.Context())
			if err != nil {
				if apiclient.IsNetwork(err) {
					return fmt.Errorf("tracker API at %s is offline: %w", client.BaseURL(), err)
				}
				return fmt.Errorf("tracker API at %s is unhealthy: %w", client.BaseURL(), err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: online (%s)\n", client.BaseURL(), health.Status)
			return nil
		},
	}
}

// NewConfigCommand creates the config command
func NewConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.String())
			return nil
		},
	}
}
