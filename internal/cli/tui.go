package cli

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PassListModel - Interactive render pass selection
// =============================================================================

// PassListModel is the bubbletea model for picking render passes before
// submission. Space toggles a pass, enter confirms the selection.
type PassListModel struct {
	Scene   string
	Passes  []string
	Cursor  int
	Checked map[int]bool
	Height  int
	Offset  int

	confirmed bool
}

// NewPassListModel creates a pass list model with every pass selected.
func NewPassListModel(scene string, passes []string) PassListModel {
	checked := make(map[int]bool, len(passes))
	for i := range passes {
		checked[i] = true
	}
	return PassListModel{
		Scene:   scene,
		Passes:  passes,
		Checked: checked,
		Height:  15,
	}
}

func (m PassListModel) Init() tea.Cmd {
	return nil
}

func (m PassListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Passes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ":
			m.Checked[m.Cursor] = !m.Checked[m.Cursor]
		case "a":
			for i := range m.Passes {
				m.Checked[i] = true
			}
		case "n":
			for i := range m.Passes {
				m.Checked[i] = false
			}
		case "enter":
			m.confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m PassListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Render Passes"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(m.Scene))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  n none  ⏎ submit  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Passes) {
		end = len(m.Passes)
	}

	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		check := "[ ]"
		if m.Checked[i] {
			check = "[x]"
		}

		style := listNormalStyle
		if i == m.Cursor {
			style = listSelectedStyle
		}
		b.WriteString(cursor + check + " " + style.Render(m.Passes[i]) + "\n")
	}

	checked := 0
	for _, on := range m.Checked {
		if on {
			checked++
		}
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(strconv.Itoa(checked) + " of " + strconv.Itoa(len(m.Passes)) + " passes selected"))
	b.WriteString("\n")
	return b.String()
}

// Selection returns the checked pass prim paths in list order, or nil when
// nothing was confirmed. Paths are returned verbatim so the planner submits
// exactly the checked passes and no lookalike-named siblings.
func (m PassListModel) Selection() []string {
	if !m.confirmed {
		return nil
	}
	var paths []string
	for i, pass := range m.Passes {
		if m.Checked[i] {
			paths = append(paths, pass)
		}
	}
	return paths
}
