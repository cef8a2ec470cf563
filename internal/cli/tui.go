package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	apperr "github.com/matzehuels/kmltool/pkg/errors"
	"github.com/matzehuels/kmltool/pkg/styles"
)

// Editor styles
var (
	editorCursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	editorEditingStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorGreen).Padding(0, 1)
	editorCellStyle     = lipgloss.NewStyle().Foreground(colorWhite).Padding(0, 1)
	editorReadOnlyStyle = lipgloss.NewStyle().Foreground(colorDim).Padding(0, 1)
	editorErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
	editorDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// StyleEditorModel - Interactive style table
// =============================================================================

// StyleEditorModel is the bubbletea model of "styles edit". Edits go straight
// to the styles behind the table; Saved tells the caller to export them.
type StyleEditorModel struct {
	Table *styles.Table
	Row   int
	Col   styles.Column

	// Editing is true while Input holds the text of the selected cell.
	Editing bool
	Input   string
	Err     string

	Saved bool
	Edits int

	Height int
	Offset int

	rows []styles.Row
}

// NewStyleEditorModel creates an editor over t with the cursor on the first
// editable column.
func NewStyleEditorModel(t *styles.Table) StyleEditorModel {
	return StyleEditorModel{
		Table:  t,
		Col:    styles.ColLineWidth,
		Height: 15,
		rows:   t.Rows(),
	}
}

func (m StyleEditorModel) Init() tea.Cmd {
	return nil
}

func (m StyleEditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Editing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
		m.scroll()
	}
	return m, nil
}

func (m StyleEditorModel) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.Err = ""
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.Saved = false
		return m, tea.Quit
	case "s", "ctrl+s":
		m.Saved = true
		return m, tea.Quit
	case "up", "k":
		if m.Row > 0 {
			m.Row--
		}
	case "down", "j":
		if m.Row < m.Table.Len()-1 {
			m.Row++
		}
	case "left", "h":
		if m.Col > styles.ColLineWidth {
			m.Col--
		}
	case "right", "l", "tab":
		if int(m.Col) < len(styles.Columns())-1 {
			m.Col++
		}
	case "enter":
		if !m.Table.Editable(m.Row, m.Col) {
			m.Err = fmt.Sprintf("%s has no %s", m.rows[m.Row].Cells[styles.ColName], subStyle(m.Col))
			return m, nil
		}
		m.Editing = true
		m.Input = m.rows[m.Row].Cells[m.Col]
	}
	m.scroll()
	return m, nil
}

func (m StyleEditorModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.Editing = false
		m.Saved = false
		return m, tea.Quit
	case tea.KeyEsc:
		m.Editing = false
		m.Err = ""
	case tea.KeyEnter:
		if err := m.Table.SetString(m.Row, m.Col, m.Input); err != nil {
			m.Err = apperr.UserMessage(err)
			return m, nil
		}
		m.Editing = false
		m.Err = ""
		m.Edits++
		m.rows = m.Table.Rows()
	case tea.KeyBackspace:
		if r := []rune(m.Input); len(r) > 0 {
			m.Input = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.Input += string(msg.Runes)
	}
	return m, nil
}

// scroll keeps the cursor row inside the visible window.
func (m *StyleEditorModel) scroll() {
	if m.Row < m.Offset {
		m.Offset = m.Row
	}
	if m.Row >= m.Offset+m.Height {
		m.Offset = m.Row - m.Height + 1
	}
}

func (m StyleEditorModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Styles"))
	b.WriteString("\n")
	b.WriteString(editorDimStyle.Render("↑/↓/←/→ navigate  ⏎ edit  s save  q quit"))
	b.WriteString("\n\n")

	cols := styles.Columns()
	headers := make([]string, len(cols))
	for i, col := range cols {
		headers[i] = col.String()
	}

	end := m.Offset + m.Height
	if end > len(m.rows) {
		end = len(m.rows)
	}
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		cells := make([]string, len(cols))
		copy(cells, m.rows[i].Cells[:])
		if m.Editing && i == m.Row {
			cells[m.Col] = m.Input + "▏"
		}
		rows = append(rows, cells)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleTableHeader.Padding(0, 1)
			}
			idx := m.Offset + row
			c := styles.Column(col)
			switch {
			case idx == m.Row && c == m.Col && m.Editing:
				return editorEditingStyle
			case idx == m.Row && c == m.Col:
				return editorCursorStyle.Reverse(true)
			case !m.rows[idx].Editable[c]:
				return editorReadOnlyStyle
			}
			return editorCellStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	if m.Err != "" {
		b.WriteString(editorErrorStyle.Render(m.Err))
		b.WriteString("\n")
	}
	b.WriteString(editorDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d edits", m.Row+1, m.Table.Len(), m.Edits)))

	return b.String()
}

// subStyle names the sub-style a column belongs to.
func subStyle(col styles.Column) string {
	switch col {
	case styles.ColLineWidth, styles.ColLineColor:
		return "line style"
	case styles.ColIconURL, styles.ColIconScale, styles.ColIconHeading:
		return "icon style"
	}
	return "style"
}
