package cli

import (
	"testing"

	"github.com/spf13/cobra"
)

func specCommand(f *specFlags, args ...string) (*cobra.Command, error) {
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	f.register(cmd)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return cmd, err
}

func TestSpecFlagsDefaults(t *testing.T) {
	f := &specFlags{}
	cmd, err := specCommand(f)
	if err != nil {
		t.Fatal(err)
	}

	spec, err := f.toSpec(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if spec.Diameter != 100 || spec.DieWidth != 10 || spec.DieHeight != 10 {
		t.Errorf("unexpected defaults: %+v", spec)
	}
	if spec.ScribeLine != 0.1 || spec.EdgeExclusion != 3 {
		t.Errorf("unexpected defaults: %+v", spec)
	}
	if !spec.IncludePartial {
		t.Error("partial dies should be included by default")
	}
}

func TestSpecFlagsPresetApplies(t *testing.T) {
	f := &specFlags{}
	cmd, err := specCommand(f, "-p", "300mm", "--die-width", "20")
	if err != nil {
		t.Fatal(err)
	}

	spec, err := f.toSpec(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if spec.Diameter != 300 {
		t.Errorf("Diameter = %g, want 300", spec.Diameter)
	}
	if spec.NotchDepth != 1.0 {
		t.Errorf("NotchDepth = %g, want 1", spec.NotchDepth)
	}
	if spec.DieWidth != 20 {
		t.Errorf("DieWidth = %g, want 20", spec.DieWidth)
	}
}

func TestSpecFlagsExplicitBeatsPreset(t *testing.T) {
	f := &specFlags{}
	cmd, err := specCommand(f, "-p", "200mm", "--edge", "5")
	if err != nil {
		t.Fatal(err)
	}

	spec, err := f.toSpec(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if spec.Diameter != 200 {
		t.Errorf("Diameter = %g, want 200", spec.Diameter)
	}
	if spec.EdgeExclusion != 5 {
		t.Errorf("EdgeExclusion = %g, want 5 (explicit flag)", spec.EdgeExclusion)
	}
}

func TestSpecFlagsUnknownPreset(t *testing.T) {
	f := &specFlags{}
	cmd, err := specCommand(f, "-p", "999mm")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.toSpec(cmd); err == nil {
		t.Error("expected error for unknown preset")
	}
}
