package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/kmltool/pkg/kml"
	"github.com/matzehuels/kmltool/pkg/styles"
)

func editorTable() *styles.Table {
	doc := kml.NewDocument("net")
	pipe := kml.NewStyle("pipe")
	pipe.EnsureLineStyle().Width = 2
	doc.Contents.AddStyleSelector(pipe)
	valve := kml.NewStyle("valve")
	valve.EnsureIconStyle().Scale = 1
	doc.Contents.AddStyleSelector(valve)
	return styles.NewTable(kml.NewTree(doc))
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// press feeds keys to m and returns the final model and the last command.
func press(m StyleEditorModel, keys ...tea.KeyMsg) (StyleEditorModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(StyleEditorModel)
	}
	return m, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestStyleEditor_EditCell(t *testing.T) {
	table := editorTable()
	m, _ := press(NewStyleEditorModel(table),
		tea.KeyMsg{Type: tea.KeyEnter},
		tea.KeyMsg{Type: tea.KeyBackspace},
		runes("4.5"),
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	if m.Editing {
		t.Error("still editing after enter")
	}
	if m.Edits != 1 {
		t.Errorf("Edits = %d, want 1", m.Edits)
	}
	if v, _ := table.Value(0, styles.ColLineWidth); v != 4.5 {
		t.Errorf("line width = %v, want 4.5", v)
	}
	if !strings.Contains(m.View(), "4.5") {
		t.Error("View() does not show the new value")
	}
}

func TestStyleEditor_InvalidValue(t *testing.T) {
	table := editorTable()
	m, _ := press(NewStyleEditorModel(table),
		tea.KeyMsg{Type: tea.KeyEnter},
		runes("x"),
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	if !m.Editing {
		t.Error("editing ended on an invalid value")
	}
	if m.Err == "" {
		t.Error("Err is empty after an invalid value")
	}
	if v, _ := table.Value(0, styles.ColLineWidth); v != 2.0 {
		t.Errorf("line width = %v, want 2 (unchanged)", v)
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Editing || m.Err != "" {
		t.Errorf("after esc Editing = %v, Err = %q", m.Editing, m.Err)
	}
}

func TestStyleEditor_MissingSubStyle(t *testing.T) {
	m, _ := press(NewStyleEditorModel(editorTable()),
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	if m.Editing {
		t.Error("started editing a cell without a line style")
	}
	if want := "valve has no line style"; m.Err != want {
		t.Errorf("Err = %q, want %q", m.Err, want)
	}
}

func TestStyleEditor_Navigation(t *testing.T) {
	tests := []struct {
		name    string
		keys    []tea.KeyMsg
		wantRow int
		wantCol styles.Column
	}{
		{"start", nil, 0, styles.ColLineWidth},
		{"down", []tea.KeyMsg{runes("j")}, 1, styles.ColLineWidth},
		{"down clamps", []tea.KeyMsg{runes("j"), runes("j"), runes("j")}, 1, styles.ColLineWidth},
		{"up clamps", []tea.KeyMsg{runes("k")}, 0, styles.ColLineWidth},
		{"left skips name", []tea.KeyMsg{runes("h")}, 0, styles.ColLineWidth},
		{"right", []tea.KeyMsg{runes("l"), {Type: tea.KeyTab}}, 0, styles.ColIconURL},
		{"right clamps", []tea.KeyMsg{runes("l"), runes("l"), runes("l"), runes("l"), runes("l")}, 0, styles.ColIconHeading},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := press(NewStyleEditorModel(editorTable()), tt.keys...)
			if m.Row != tt.wantRow || m.Col != tt.wantCol {
				t.Errorf("cursor = (%d, %s), want (%d, %s)", m.Row, m.Col, tt.wantRow, tt.wantCol)
			}
		})
	}
}

func TestStyleEditor_Quit(t *testing.T) {
	tests := []struct {
		name      string
		key       tea.KeyMsg
		wantSaved bool
	}{
		{"save", runes("s"), true},
		{"quit", runes("q"), false},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, cmd := press(NewStyleEditorModel(editorTable()), tt.key)
			if !isQuit(cmd) {
				t.Error("key did not quit")
			}
			if m.Saved != tt.wantSaved {
				t.Errorf("Saved = %v, want %v", m.Saved, tt.wantSaved)
			}
		})
	}
}

func TestStyleEditor_Scroll(t *testing.T) {
	m := NewStyleEditorModel(editorTable())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 9})
	m = next.(StyleEditorModel)
	if m.Height != 5 {
		t.Fatalf("Height = %d, want 5", m.Height)
	}
	m.Height = 1
	m, _ = press(m, runes("j"))
	if m.Offset != 1 {
		t.Errorf("Offset = %d, want 1", m.Offset)
	}
}
