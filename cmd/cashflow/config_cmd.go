package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/warp/cashflow-engine/config"
)

func newConfigCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if _, err := os.Stat(root.configPath); err == nil {
				fmt.Fprintf(out, "# Config file: %s\n", root.configPath)
			} else {
				fmt.Fprintf(out, "# Config file: %s (not found, using defaults)\n", root.configPath)
			}
			return toml.NewEncoder(out).Encode(cfg)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to --config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(root.configPath); err == nil {
				return fmt.Errorf("%s already exists", root.configPath)
			}
			if err := config.Save(root.configPath, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", root.configPath)
			return nil
		},
	})
	return cmd
}
