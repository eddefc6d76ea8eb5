package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wafertools/wafermap/pkg/gds"
	"github.com/wafertools/wafermap/pkg/pipeline"
)

// exportCommand creates the export command for writing GDSII streams.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		output     string
		noCache    bool
		refresh    bool
		libName    string
		structName string
		lypFile    string
		layerFlags gdsLayerFlags
	)
	flags := &specFlags{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the die placement layout as a GDSII stream",
		Long: `Export the die placement layout as a GDSII stream.

The stream contains one structure with the wafer outline, the usable area
outline, and one boundary per retained die, each on its own layer. One
database unit equals one nanometer.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := flags.toSpec(cmd)
			if err != nil {
				return err
			}
			layers := gds.DefaultLayerConfig()
			if lypFile != "" {
				if layers, err = applyLYP(layers, lypFile); err != nil {
					return err
				}
			}
			// Explicit layer flags beat the .lyp file.
			if layers, err = layerFlags.apply(layers); err != nil {
				return err
			}
			opts := pipeline.Options{
				Spec:       spec,
				Formats:    []string{pipeline.FormatGDS},
				LibName:    libName,
				StructName: structName,
				Layers:     layers,
				Refresh:    refresh,
			}
			return c.runExport(cmd.Context(), opts, output, noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "wafer_layout.gds", "output file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-encode even if a cached stream exists")
	cmd.Flags().StringVar(&libName, "lib-name", "", "GDSII library name (default WAFER_LIB)")
	cmd.Flags().StringVar(&structName, "struct-name", "", "GDSII structure name (default WAFER)")
	cmd.Flags().StringVar(&lypFile, "lyp", "", "KLayout layer properties file with layer assignments")
	layerFlags.register(cmd)

	return cmd
}

// runExport runs the pipeline and writes the GDSII artifact.
func (c *CLI) runExport(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	prog := newProgress(c.Logger)

	spinner := newSpinnerWithContext(ctx, "Encoding GDSII...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Export failed")
		return fmt.Errorf("export: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	data := result.Artifacts[pipeline.FormatGDS]
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	prog.done("GDSII stream written")

	printSuccess("Exported %d dies (%d bytes)", result.Layout.TotalSites(), len(data))
	printFile(output)
	printStats(result.Layout.FullCount, result.Layout.PartialCount,
		result.Layout.UtilizationPercent, result.CacheInfo.ExportHit)
	return nil
}

// applyLYP overlays layer assignments from a KLayout .lyp file.
func applyLYP(cfg gds.LayerConfig, path string) (gds.LayerConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return gds.LayerConfig{}, fmt.Errorf("open layer properties %s: %w", path, err)
	}
	defer f.Close()

	props, err := gds.ReadLYP(f)
	if err != nil {
		return gds.LayerConfig{}, err
	}
	return cfg.ApplyProperties(props), nil
}

// gdsLayerFlags holds the layer/datatype assignment overrides.
type gdsLayerFlags struct {
	wafer  []int
	usable []int
	die    []int
}

func (f *gdsLayerFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntSliceVar(&f.wafer, "layer-wafer", nil, "wafer outline layer,datatype (default 0,0)")
	cmd.Flags().IntSliceVar(&f.usable, "layer-usable", nil, "usable area layer,datatype (default 1,0)")
	cmd.Flags().IntSliceVar(&f.die, "layer-die", nil, "die layer,datatype (default 2,0)")
}

// apply overlays any set flag values on the base configuration.
func (f *gdsLayerFlags) apply(cfg gds.LayerConfig) (gds.LayerConfig, error) {
	for _, a := range []struct {
		name   string
		values []int
		target *gds.LayerAssignment
	}{
		{"layer-wafer", f.wafer, &cfg.WaferOutline},
		{"layer-usable", f.usable, &cfg.UsableOutline},
		{"layer-die", f.die, &cfg.Die},
	} {
		if len(a.values) == 0 {
			continue
		}
		if len(a.values) != 2 {
			return gds.LayerConfig{}, fmt.Errorf("--%s expects layer,datatype", a.name)
		}
		for _, v := range a.values {
			if v < 0 || v > 255 {
				return gds.LayerConfig{}, fmt.Errorf("--%s values must be in [0,255]", a.name)
			}
		}
		a.target.Layer = int16(a.values[0])
		a.target.Datatype = int16(a.values[1])
	}
	return cfg, nil
}
