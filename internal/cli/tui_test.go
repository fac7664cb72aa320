package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/daikumatan/shippai-knowledge-etl/pkg/fkd"
)

func testRefs() []fkd.CaseRef {
	return []fkd.CaseRef{
		{CaseID: "CZ0200703", Title: "六本木ヒルズ回転ドア事故", URL: "https://example.com/cf/CZ0200703.html"},
		{CaseID: "CB0011025", Title: "タンク底板の腐食漏洩", URL: "https://example.com/cf/CB0011025.html"},
		{CaseID: "CA0000056", Title: "配管の水素脆化破断", URL: "https://example.com/cf/CA0000056.html"},
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestCaseListNavigation(t *testing.T) {
	m := NewCaseListModel(testRefs())

	next, _ := m.Update(keyMsg("down"))
	m = next.(CaseListModel)
	if m.Cursor != 1 {
		t.Errorf("Cursor = %d after down, want 1", m.Cursor)
	}

	next, _ = m.Update(keyMsg("up"))
	m = next.(CaseListModel)
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d after up, want 0", m.Cursor)
	}

	// Up at the top stays put.
	next, _ = m.Update(keyMsg("up"))
	m = next.(CaseListModel)
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d, want 0", m.Cursor)
	}
}

func TestCaseListSelect(t *testing.T) {
	m := NewCaseListModel(testRefs())

	next, _ := m.Update(keyMsg("down"))
	m = next.(CaseListModel)
	next, cmd := m.Update(keyMsg("enter"))
	m = next.(CaseListModel)

	if m.Selected == nil {
		t.Fatal("Selected should be set after enter")
	}
	if m.Selected.CaseID != "CB0011025" {
		t.Errorf("Selected.CaseID = %q, want CB0011025", m.Selected.CaseID)
	}
	if cmd == nil {
		t.Error("enter should return tea.Quit")
	}
}

func TestCaseListFilter(t *testing.T) {
	m := NewCaseListModel(testRefs())

	for _, r := range "cb" {
		next, _ := m.Update(keyMsg(string(r)))
		m = next.(CaseListModel)
	}

	visible := m.visible()
	if len(visible) != 1 {
		t.Fatalf("visible() returned %d cases, want 1", len(visible))
	}
	if visible[0].CaseID != "CB0011025" {
		t.Errorf("visible()[0].CaseID = %q, want CB0011025", visible[0].CaseID)
	}

	next, _ := m.Update(keyMsg("backspace"))
	m = next.(CaseListModel)
	next, _ = m.Update(keyMsg("backspace"))
	m = next.(CaseListModel)
	if len(m.visible()) != 3 {
		t.Errorf("visible() after clearing filter = %d cases, want 3", len(m.visible()))
	}
}

func TestCaseListFilterByTitle(t *testing.T) {
	m := NewCaseListModel(testRefs())
	m.filter = "腐食"

	visible := m.visible()
	if len(visible) != 1 || visible[0].CaseID != "CB0011025" {
		t.Errorf("filter by title matched %v, want the corrosion case", visible)
	}
}

func TestCaseListQuitWithoutSelection(t *testing.T) {
	m := NewCaseListModel(testRefs())

	next, cmd := m.Update(keyMsg("esc"))
	m = next.(CaseListModel)

	if m.Selected != nil {
		t.Error("esc should not select a case")
	}
	if cmd == nil {
		t.Error("esc should return tea.Quit")
	}
}

func TestCaseListView(t *testing.T) {
	m := NewCaseListModel(testRefs())
	view := m.View()

	if !strings.Contains(view, "Select Case") {
		t.Error("view should contain the title")
	}
	if !strings.Contains(view, "CZ0200703") {
		t.Error("view should list case IDs")
	}

	m.Cases = nil
	if !strings.Contains(m.View(), "no matching cases") {
		t.Error("empty list should show placeholder")
	}
}
