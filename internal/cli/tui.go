package cli

import (
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/daikumatan/shippai-knowledge-etl/pkg/fkd"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// CaseListModel is the bubbletea model for interactive case selection
// from an archive index page.
type CaseListModel struct {
	Cases    []fkd.CaseRef
	Cursor   int
	Selected *fkd.CaseRef
	Height   int
	Offset   int
	filter   string
}

// NewCaseListModel creates a case list over refs.
func NewCaseListModel(refs []fkd.CaseRef) CaseListModel {
	return CaseListModel{
		Cases:  refs,
		Height: 15,
	}
}

func (m CaseListModel) Init() tea.Cmd {
	return nil
}

func (m CaseListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.visible())-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			visible := m.visible()
			if len(visible) > 0 {
				ref := visible[m.Cursor]
				m.Selected = &ref
			}
			return m, tea.Quit
		case "backspace":
			if len(m.filter) > 0 {
				_, size := utf8.DecodeLastRuneInString(m.filter)
				m.filter = m.filter[:len(m.filter)-size]
				m.resetCursor()
			}
		default:
			// Single printable rune extends the filter; titles are
			// Japanese so this must count runes, not bytes.
			if utf8.RuneCountInString(msg.String()) == 1 {
				m.filter += msg.String()
				m.resetCursor()
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m *CaseListModel) resetCursor() {
	m.Cursor = 0
	m.Offset = 0
}

// visible returns the cases matching the typed filter.
func (m CaseListModel) visible() []fkd.CaseRef {
	if m.filter == "" {
		return m.Cases
	}
	var out []fkd.CaseRef
	needle := strings.ToLower(m.filter)
	for _, ref := range m.Cases {
		if strings.Contains(strings.ToLower(ref.Title), needle) ||
			strings.Contains(strings.ToLower(ref.CaseID), needle) {
			out = append(out, ref)
		}
	}
	return out
}

func (m CaseListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Case"))
	b.WriteString("\n")
	hint := "↑/↓ navigate  ⏎ select  q quit"
	if m.filter != "" {
		hint += "  filter: " + m.filter
	} else {
		hint += "  type to filter"
	}
	b.WriteString(listDimStyle.Render(hint))
	b.WriteString("\n\n")

	visible := m.visible()
	end := m.Offset + m.Height
	if end > len(visible) {
		end = len(visible)
	}
	for i := m.Offset; i < end; i++ {
		ref := visible[i]
		line := ref.CaseID + "  " + ref.Title
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + line))
		} else {
			b.WriteString(listNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	if len(visible) == 0 {
		b.WriteString(listDimStyle.Render("  no matching cases"))
		b.WriteString("\n")
	}

	return b.String()
}
