package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestNewPassListModel_AllChecked(t *testing.T) {
	m := NewPassListModel("shot.usd", []string{"/Render/pass_fg", "/Render/pass_bg"})
	for i := range m.Passes {
		if !m.Checked[i] {
			t.Errorf("pass %d should start checked", i)
		}
	}
}

func TestPassListModel_ToggleAndConfirm(t *testing.T) {
	m := NewPassListModel("shot.usd", []string{"/Render/pass_fg", "/Render/pass_bg"})

	// Uncheck the first pass, then confirm.
	next, _ := m.Update(keyMsg(" "))
	m = next.(PassListModel)
	if m.Checked[0] {
		t.Fatal("space should toggle the pass under the cursor")
	}

	next, _ = m.Update(keyMsg("enter"))
	m = next.(PassListModel)

	got := m.Selection()
	if len(got) != 1 || got[0] != "/Render/pass_bg" {
		t.Errorf("Selection() = %v, want [/Render/pass_bg]", got)
	}
}

// A deselected pass whose name contains a selected pass's name must stay
// deselected, so the picker hands out full prim paths, never base names
// that would go back through pattern matching.
func TestPassListModel_SelectionIsExactPaths(t *testing.T) {
	m := NewPassListModel("shot.usd", []string{"/Render/fg", "/Render/fg_matte"})

	next, _ := m.Update(keyMsg("j"))
	m = next.(PassListModel)
	next, _ = m.Update(keyMsg(" ")) // uncheck fg_matte
	m = next.(PassListModel)
	next, _ = m.Update(keyMsg("enter"))
	m = next.(PassListModel)

	got := m.Selection()
	if len(got) != 1 || got[0] != "/Render/fg" {
		t.Errorf("Selection() = %v, want [/Render/fg]", got)
	}
}

func TestPassListModel_SelectionUnconfirmed(t *testing.T) {
	m := NewPassListModel("shot.usd", []string{"/Render/pass_fg"})
	if got := m.Selection(); got != nil {
		t.Errorf("Selection() before confirm = %v, want nil", got)
	}
}

func TestPassListModel_Navigation(t *testing.T) {
	m := NewPassListModel("shot.usd", []string{"/a", "/b", "/c"})

	next, _ := m.Update(keyMsg("j"))
	m = next.(PassListModel)
	next, _ = m.Update(keyMsg("j"))
	m = next.(PassListModel)
	if m.Cursor != 2 {
		t.Errorf("Cursor = %d after two downs, want 2", m.Cursor)
	}

	// Down at the end is a no-op.
	next, _ = m.Update(keyMsg("j"))
	m = next.(PassListModel)
	if m.Cursor != 2 {
		t.Errorf("Cursor = %d, want 2", m.Cursor)
	}

	next, _ = m.Update(keyMsg("k"))
	m = next.(PassListModel)
	if m.Cursor != 1 {
		t.Errorf("Cursor = %d after up, want 1", m.Cursor)
	}
}

func TestPassListModel_AllNone(t *testing.T) {
	m := NewPassListModel("shot.usd", []string{"/a", "/b"})

	next, _ := m.Update(keyMsg("n"))
	m = next.(PassListModel)
	for i := range m.Passes {
		if m.Checked[i] {
			t.Errorf("pass %d should be unchecked after n", i)
		}
	}

	next, _ = m.Update(keyMsg("a"))
	m = next.(PassListModel)
	for i := range m.Passes {
		if !m.Checked[i] {
			t.Errorf("pass %d should be checked after a", i)
		}
	}
}

func TestPassListModel_View(t *testing.T) {
	m := NewPassListModel("shot.usd", []string{"/Render/pass_fg", "/Render/pass_bg"})
	view := m.View()

	if !strings.Contains(view, "pass_fg") || !strings.Contains(view, "pass_bg") {
		t.Errorf("view should list all passes: %s", view)
	}
	if !strings.Contains(view, "2 of 2 passes selected") {
		t.Errorf("view should show the selection count: %s", view)
	}
}

func TestPassListModel_QuitKeys(t *testing.T) {
	for _, key := range []string{"q", "esc"} {
		m := NewPassListModel("shot.usd", []string{"/a"})
		next, cmd := m.Update(keyMsg(key))
		m = next.(PassListModel)
		if cmd == nil {
			t.Errorf("key %q should quit", key)
		}
		if m.Selection() != nil {
			t.Errorf("quitting with %q should not confirm a selection", key)
		}
	}
}
