package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/warp/cashflow-engine/config"
)

type rootOptions struct {
	configPath string
	quiet      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "cashflow",
		Short:         "Household cash-flow and mortgage projection",
		Long:          "Project 20 years of household income, expenses, savings funds and mortgage payoff.",
		SilenceUsage:  true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "cashflow.toml", "TOML config file")
	root.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress progress output")

	root.AddCommand(
		newSimulateCmd(opts),
		newPresetsCmd(),
		newServeCmd(opts),
		newConfigCmd(opts),
	)
	return root
}

func (o *rootOptions) loadConfig() (config.Config, error) {
	return config.Load(o.configPath)
}

// progress writes to stderr unless --quiet.
func (o *rootOptions) progress(w io.Writer, format string, args ...any) {
	if !o.quiet {
		fmt.Fprintf(w, "  "+format+"\n", args...)
	}
}
