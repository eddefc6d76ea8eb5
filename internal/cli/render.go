package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wafertools/wafermap/pkg/pipeline"
)

// renderCommand creates the render command for wafer map previews.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		refresh    bool
		scale      float64
		title      string
		noLegend   bool
	)
	flags := &specFlags{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a wafer map preview as SVG or PNG",
		Long: `Render a wafer map preview as SVG or PNG.

The preview shows the wafer outline, the usable area boundary, and every
retained die colored by classification (full or partial), with an optional
legend carrying the die counts and utilization.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr)
			for _, f := range formats {
				if f == pipeline.FormatGDS {
					return fmt.Errorf("format gds is not an image; use 'wafermap export'")
				}
				if err := pipeline.ValidateFormat(f); err != nil {
					return err
				}
			}
			spec, err := flags.toSpec(cmd)
			if err != nil {
				return err
			}
			opts := pipeline.Options{
				Spec:     spec,
				Formats:  formats,
				Scale:    scale,
				Title:    title,
				NoLegend: noLegend,
				Refresh:  refresh,
			}
			return c.runRender(cmd.Context(), opts, output, noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-render even if a cached image exists")
	cmd.Flags().Float64Var(&scale, "scale", pipeline.DefaultScale, "raster scale in pixels per mm")
	cmd.Flags().StringVar(&title, "title", "", "title text drawn above the wafer")
	cmd.Flags().BoolVar(&noLegend, "no-legend", false, "omit the legend strip")

	return cmd
}

// runRender runs the pipeline and writes one file per requested format.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Rendering wafer map...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := renderBasePath(output, opts.Formats)
	printSuccess("Rendered %d dies", result.Layout.TotalSites())
	for _, format := range opts.Formats {
		path := base + "." + format
		if output != "" && len(opts.Formats) == 1 {
			path = output
		}
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(result.Layout.FullCount, result.Layout.PartialCount,
		result.Layout.UtilizationPercent, result.CacheInfo.ExportHit)
	return nil
}

// renderBasePath picks the extension-less base for output files.
func renderBasePath(output string, formats []string) string {
	if output == "" {
		return "wafer_map"
	}
	for _, format := range formats {
		output = strings.TrimSuffix(output, "."+format)
	}
	return output
}
