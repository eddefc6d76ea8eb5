package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/wafertools/wafermap/pkg/preset"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PresetListModel - Interactive preset selection
// =============================================================================

// PresetListModel is the bubbletea model for interactive preset selection.
type PresetListModel struct {
	Names    []string
	Table    preset.Table
	Cursor   int
	Selected string
}

// NewPresetListModel creates a new preset list model ordered by diameter.
func NewPresetListModel(t preset.Table) PresetListModel {
	return PresetListModel{
		Names: t.Names(),
		Table: t,
	}
}

func (m PresetListModel) Init() tea.Cmd {
	return nil
}

func (m PresetListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Names)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = m.Names[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m PresetListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Wafer Preset"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, name := range m.Names {
		p := m.Table[name]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		line := fmt.Sprintf("%s%-8s %6gmm  edge %gmm  %s",
			cursor, name, p.Diameter, p.EdgeExclusion, presetFeature(p))

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Names))))

	return b.String()
}

// =============================================================================
// Table Output
// =============================================================================

// printPresetTable prints all presets in a bordered table, largest first.
func printPresetTable(t preset.Table) {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := [][]string{}
	for _, name := range t.Names() {
		p := t[name]
		rows = append(rows, []string{
			name,
			fmt.Sprintf("%g", p.Diameter),
			fmt.Sprintf("%g", p.EdgeExclusion),
			presetFeature(p),
		})
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Preset", "Diameter (mm)", "Edge (mm)", "Feature").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	fmt.Println(tbl.Render())
}

// presetFeature describes the orientation feature of a preset.
func presetFeature(p preset.Preset) string {
	switch {
	case p.NotchDepth > 0:
		return fmt.Sprintf("notch %gmm", p.NotchDepth)
	case p.FlatLength > 0:
		return fmt.Sprintf("flat %gmm", p.FlatLength)
	default:
		return "none"
	}
}
