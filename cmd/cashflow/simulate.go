package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/warp/cashflow-engine/cashflow"
	"github.com/warp/cashflow-engine/cli"
	"github.com/warp/cashflow-engine/factory"
)

type simulateOptions struct {
	preset     string
	months     int
	json       bool
	eventsOnly bool
}

func newSimulateCmd(root *rootOptions) *cobra.Command {
	opts := &simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate [file]",
		Short: "Run a scenario file (TOML or JSON) or a preset",
		Long: "Run a 240-month projection. The scenario comes from a TOML or JSON file,\n" +
			"or from --preset. With neither, the baseline preset is used.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, root, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.preset, "preset", "p", "", "Preset ID (see `cashflow presets`)")
	cmd.Flags().IntVarP(&opts.months, "months", "m", 24, "Ledger rows to show (0 for all)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the full result as JSON")
	cmd.Flags().BoolVar(&opts.eventsOnly, "events-only", false, "Only show accelerated payments")
	return cmd
}

func runSimulate(cmd *cobra.Command, root *rootOptions, opts *simulateOptions, args []string) error {
	if len(args) == 1 && opts.preset != "" {
		return errors.New("give a scenario file or --preset, not both")
	}

	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}

	sj, err := loadScenario(args, opts.preset)
	if err != nil {
		return err
	}
	if sj.Start == "" {
		sj.Start = cfg.Simulation.Start
	}

	in, err := factory.NewScenarioFactory().FromJSON(sj)
	if err != nil {
		return err
	}

	root.progress(cmd.ErrOrStderr(), "Simulating %d months from %s...", cashflow.HorizonMonths, in.StartDate.Label(0))
	res := cashflow.Run(in)

	out := cmd.OutOrStdout()
	switch {
	case opts.json:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case opts.eventsOnly:
		_, err := io.WriteString(out, cli.RenderAccelerations(res.Accelerations))
		return err
	}

	name := sj.Name
	if name == "" {
		name = "Scenario"
	}
	fmt.Fprintln(out, cli.RenderSummary(name, res))
	fmt.Fprintln(out, cli.RenderRisk(res.Risk, res.Ledger))
	fmt.Fprintln(out, cli.RenderLedger(res.Ledger, opts.months))
	fmt.Fprint(out, cli.RenderAccelerations(res.Accelerations))
	return nil
}

func loadScenario(args []string, preset string) (factory.ScenarioJSON, error) {
	if len(args) == 1 {
		return factory.LoadFile(args[0])
	}
	if preset == "" {
		preset = "baseline"
	}
	p, ok := factory.LookupPreset(preset)
	if !ok {
		return factory.ScenarioJSON{}, fmt.Errorf("unknown preset %q", preset)
	}
	return p.Scenario, nil
}
