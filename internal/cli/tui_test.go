package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wafertools/wafermap/pkg/preset"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPresetListNavigation(t *testing.T) {
	m := NewPresetListModel(preset.Builtin())
	if m.Cursor != 0 {
		t.Fatalf("initial cursor = %d", m.Cursor)
	}

	next, _ := m.Update(keyMsg("down"))
	m = next.(PresetListModel)
	if m.Cursor != 1 {
		t.Errorf("cursor after down = %d, want 1", m.Cursor)
	}

	next, _ = m.Update(keyMsg("up"))
	m = next.(PresetListModel)
	if m.Cursor != 0 {
		t.Errorf("cursor after up = %d, want 0", m.Cursor)
	}

	// Up at the top stays put.
	next, _ = m.Update(keyMsg("up"))
	m = next.(PresetListModel)
	if m.Cursor != 0 {
		t.Errorf("cursor clamped = %d, want 0", m.Cursor)
	}
}

func TestPresetListSelection(t *testing.T) {
	m := NewPresetListModel(preset.Builtin())

	next, _ := m.Update(keyMsg("down"))
	m = next.(PresetListModel)
	next, cmd := m.Update(keyMsg("enter"))
	m = next.(PresetListModel)

	if cmd == nil {
		t.Error("enter should quit the program")
	}
	if m.Selected != "200mm" {
		t.Errorf("Selected = %q, want 200mm (second largest)", m.Selected)
	}
}

func TestPresetListQuitWithoutSelection(t *testing.T) {
	m := NewPresetListModel(preset.Builtin())
	next, cmd := m.Update(keyMsg("q"))
	m = next.(PresetListModel)

	if cmd == nil {
		t.Error("q should quit the program")
	}
	if m.Selected != "" {
		t.Errorf("Selected = %q, want empty", m.Selected)
	}
}

func TestPresetListView(t *testing.T) {
	m := NewPresetListModel(preset.Builtin())
	view := m.View()

	for _, name := range []string{"300mm", "150mm", "50mm"} {
		if !strings.Contains(view, name) {
			t.Errorf("view missing preset %q", name)
		}
	}
	if !strings.Contains(view, "notch") || !strings.Contains(view, "flat") {
		t.Error("view should name the orientation features")
	}
}

func TestPresetFeature(t *testing.T) {
	if got := presetFeature(preset.Preset{NotchDepth: 1}); got != "notch 1mm" {
		t.Errorf("presetFeature notch = %q", got)
	}
	if got := presetFeature(preset.Preset{FlatLength: 47.5}); got != "flat 47.5mm" {
		t.Errorf("presetFeature flat = %q", got)
	}
	if got := presetFeature(preset.Preset{}); got != "none" {
		t.Errorf("presetFeature none = %q", got)
	}
}
