package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/safetyctl/internal/scenario"
	"github.com/san-kum/safetyctl/internal/viz"
)

var (
	sweepMin     float64
	sweepMax     float64
	sweepSteps   int
	workers      int
	trials       int
	perturbation float64
	seed         int64
)

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sweep := &scenario.Sweep{
		Base:     cfg,
		MinPower: sweepMin,
		MaxPower: sweepMax,
		Steps:    sweepSteps,
		Workers:  workers,
	}
	points, err := sweep.Run(ctx)
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MAX POWER\tPEAK INJECTED\tMEAN FACTOR\tLIMITED\tVIOLATIONS")
	factors := make([]float64, len(points))
	for i, p := range points {
		fmt.Fprintf(w, "%.2f\t%.3f\t%.4f\t%d\t%d\n",
			p.MaxPower, p.PeakInjectedPower, p.MeanFactor, p.LimitedCycles, p.Violations)
		factors[i] = p.MeanFactor
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, asciigraph.Plot(factors,
		asciigraph.Height(8),
		asciigraph.Caption(fmt.Sprintf("mean factor, max power %.1f..%.1f W", sweepMin, sweepMax))))
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	mc := &scenario.MonteCarlo{
		Base:         cfg,
		Perturbation: perturbation,
		Trials:       trials,
		Seed:         seed,
		Workers:      workers,
	}
	results, err := mc.Run(ctx)
	if err != nil {
		return fmt.Errorf("monte carlo failed: %w", err)
	}

	var violations, limited int
	worst := 0.0
	meanFactor := 0.0
	for _, r := range results {
		violations += r.Violations
		limited += r.LimitedCycles
		worst = min(worst, r.PeakInjectedPower)
		meanFactor += r.MeanFactor
	}
	meanFactor /= float64(len(results))

	fmt.Fprintln(cmd.OutOrStdout(), viz.RenderSummary(
		fmt.Sprintf("%s: %d trials, max power %.1f W", cfg.Name, len(results), cfg.MaxPower),
		map[string]float64{
			"trials":              float64(len(results)),
			"power_violations":    float64(violations),
			"limited_cycles":      float64(limited),
			"peak_injected_power": worst,
			"mean_factor":         meanFactor,
		}))

	if violations > 0 {
		return fmt.Errorf("%d power bound violations", violations)
	}
	return nil
}
