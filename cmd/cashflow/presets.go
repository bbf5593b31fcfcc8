package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/warp/cashflow-engine/cli"
	"github.com/warp/cashflow-engine/factory"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List built-in scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := cli.Table{
				Title:   "Presets",
				Headers: []string{"ID", "Category", "Description"},
			}
			for _, p := range factory.Presets() {
				t.Rows = append(t.Rows, []string{p.ID, p.Category, p.Description})
			}
			fmt.Fprint(cmd.OutOrStdout(), cli.RenderTable(t))
			return nil
		},
	}
}
