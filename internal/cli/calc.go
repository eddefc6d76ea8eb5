package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wafertools/wafermap/pkg/pipeline"
)

// calcCommand creates the calc command for computing die placement layouts.
func (c *CLI) calcCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
	)
	flags := &specFlags{}

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute a die placement layout",
		Long: `Compute a die placement layout.

The calc command grids the usable wafer area with dies at the effective
pitch (die size plus scribe line) and classifies each position as fully
inside, partially overlapping the boundary, or excluded. It prints die
counts and area utilization; with --output the full layout is written as
JSON for downstream tooling.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := flags.toSpec(cmd)
			if err != nil {
				return err
			}
			return c.runCalc(cmd.Context(), pipeline.Options{Spec: spec, Refresh: refresh}, output, noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the full layout as JSON to this file ('-' for stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if a cached layout exists")

	return cmd
}

// runCalc computes the layout and prints statistics.
func (c *CLI) runCalc(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	layout, cacheHit, err := runner.ComputeWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if layout.TotalSites() == 0 {
		printWarning("No dies fit the usable area")
	}
	printSuccess("Placed %d dies on a %gmm wafer", layout.TotalSites(), layout.Spec.Diameter)
	printStats(layout.FullCount, layout.PartialCount, layout.UtilizationPercent, cacheHit)
	printDetail("usable radius: %.2fmm  pitch: %.2f x %.2fmm",
		layout.Geometry.UsableRadius, layout.Geometry.EffectiveDieW, layout.Geometry.EffectiveDieH)

	if output != "" {
		data, err := json.MarshalIndent(layout, "", "  ")
		if err != nil {
			return fmt.Errorf("encode layout: %w", err)
		}
		if output == "-" {
			fmt.Println(string(data))
		} else {
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write output %s: %w", output, err)
			}
			printFile(output)
		}
	}

	printNewline()
	printNextStep("Render", "wafermap render "+calcFlagsHint(opts))
	return nil
}

// calcFlagsHint reproduces the geometry flags for the suggested next command.
func calcFlagsHint(opts pipeline.Options) string {
	s := opts.Spec
	return fmt.Sprintf("-w %g --die-width %g --die-height %g", s.Diameter, s.DieWidth, s.DieHeight)
}
