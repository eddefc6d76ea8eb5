package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/wafertools/wafermap/pkg/preset"
)

// presetsCommand creates the presets command for listing wafer size presets.
func (c *CLI) presetsCommand() *cobra.Command {
	var (
		presetFile  string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List standard wafer size presets",
		Long: `List standard wafer size presets.

Presets carry the wafer-level dimensions of the common SEMI wafer sizes:
diameter, edge exclusion, and the flat chord length or notch depth. Die
dimensions are never part of a preset.

Additional presets can be loaded from a TOML file with --preset-file;
entries there override builtin ones of the same name.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := preset.Builtin()
			if presetFile != "" {
				var err error
				if table, err = preset.Load(presetFile); err != nil {
					return err
				}
			}
			if interactive {
				return c.runPresetPicker(table)
			}
			printPresetTable(table)
			return nil
		},
	}

	cmd.Flags().StringVar(&presetFile, "preset-file", "", "TOML file with additional presets")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick a preset interactively")

	return cmd
}

// runPresetPicker launches the interactive preset selection.
func (c *CLI) runPresetPicker(table preset.Table) error {
	model := NewPresetListModel(table)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return fmt.Errorf("preset picker: %w", err)
	}

	m, ok := final.(PresetListModel)
	if !ok || m.Selected == "" {
		printInfo("No preset selected")
		return nil
	}

	p, err := table.Get(m.Selected)
	if err != nil {
		return err
	}

	printSuccess("Selected %s", m.Selected)
	printKeyValue("diameter", fmt.Sprintf("%g mm", p.Diameter))
	printKeyValue("edge", fmt.Sprintf("%g mm", p.EdgeExclusion))
	if p.FlatLength > 0 {
		printKeyValue("flat", fmt.Sprintf("%g mm", p.FlatLength))
	}
	if p.NotchDepth > 0 {
		printKeyValue("notch", fmt.Sprintf("%g mm", p.NotchDepth))
	}
	printNewline()
	printNextStep("Compute", fmt.Sprintf("wafermap calc -p %s --die-width 10 --die-height 10", m.Selected))
	return nil
}
