package summary_test

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/prodpick/internal/model"
	"github.com/nikbrunner/prodpick/internal/tui/layout"
	"github.com/nikbrunner/prodpick/internal/tui/summary"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func testCatalog() model.Catalog {
	return model.NewCatalog([]model.Product{
		{ID: 1, Title: "Red Shirt"},
		{ID: 2, Title: "Blue Hat"},
		{ID: 3, Title: "Red Hat"},
	})
}

func newSummary() summary.Model {
	cfg := layout.DefaultConfig()
	return summary.New(summary.Params{Config: cfg.Summary, Text: cfg.Text})
}

func viewLines(m summary.Model) []string {
	return strings.Split(layout.StripANSI(m.View()), "\n")
}

func TestView_SelectionOrder(t *testing.T) {
	m := newSummary().SetData(model.NewSelection(3, 1), testCatalog())

	lines := viewLines(m)
	assert.Check(t, is.Equal(lines[0], "Selected (2)"))
	assert.Check(t, is.Contains(lines[2], "Product ID"))
	assert.Check(t, is.Contains(lines[2], "Title"))
	assert.Check(t, is.Contains(lines[2], "Action"))
	assert.Check(t, is.Contains(lines[4], "Red Hat"))
	assert.Check(t, is.Contains(lines[4], "remove"))
	assert.Check(t, is.Contains(lines[5], "Red Shirt"))
}

func TestView_UnknownIDRendersBlankCells(t *testing.T) {
	m := newSummary().SetData(model.NewSelection(999), testCatalog())

	row := viewLines(m)[4]
	assert.Check(t, !strings.Contains(row, "999"))
	assert.Check(t, is.Contains(row, "remove"))
}

func TestView_EmptySelection(t *testing.T) {
	m := newSummary().SetData(model.Selection{}, testCatalog())
	assert.Check(t, is.Equal(m.View(), ""))
}

func TestUpdate_KeysIgnoredWithoutFocus(t *testing.T) {
	m := newSummary().SetData(model.NewSelection(1), testCatalog())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	assert.Check(t, cmd == nil)
}

func TestUpdate_RemoveKeys(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
	}{
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}},
		{"delete", tea.KeyMsg{Type: tea.KeyDelete}},
		{"x", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newSummary().SetData(model.NewSelection(3, 1, 2), testCatalog()).Focus()
			m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})

			_, cmd := m.Update(tt.msg)
			assert.Assert(t, cmd != nil)
			assert.DeepEqual(t, cmd(), summary.RemoveRequestedMsg{ProductID: 1})
		})
	}
}

func TestUpdate_CursorBounds(t *testing.T) {
	m := newSummary().SetData(model.NewSelection(1, 2), testCatalog()).Focus()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Check(t, is.Equal(m.Cursor(), 0))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Check(t, is.Equal(m.Cursor(), 1))

	// Shrinking the selection pulls the cursor back in range.
	m = m.SetData(model.NewSelection(2), testCatalog())
	assert.Check(t, is.Equal(m.Cursor(), 0))
}

func TestUpdate_ClickRemoveCell(t *testing.T) {
	m := newSummary().SetData(model.NewSelection(3, 1), testCatalog())

	line := viewLines(m)[5]
	col := layout.VisibleLength(line[:strings.Index(line, "remove")])

	_, cmd := m.Update(tea.MouseMsg{X: col + 2, Y: 5, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	assert.Assert(t, cmd != nil)
	assert.DeepEqual(t, cmd(), summary.RemoveRequestedMsg{ProductID: 1})
}

func TestUpdate_ClickOutsideRemoveCell(t *testing.T) {
	m := newSummary().SetData(model.NewSelection(3, 1), testCatalog())

	tests := []struct {
		name string
		x, y int
	}{
		{"title cell", 3, 4},
		{"header row", 30, 2},
		{"heading", 0, 0},
		{"below table", 30, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cmd := m.Update(tea.MouseMsg{X: tt.x, Y: tt.y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
			assert.Check(t, cmd == nil)
		})
	}
}

func TestView_Scrolls(t *testing.T) {
	cfg := layout.DefaultConfig()
	cfg.Summary.MaxVisible = 2
	m := summary.New(summary.Params{Config: cfg.Summary, Text: cfg.Text}).
		SetData(model.NewSelection(1, 2, 3), testCatalog()).
		Focus()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})

	out := layout.StripANSI(m.View())
	assert.Check(t, is.Contains(out, "Red Hat"))
	assert.Check(t, !strings.Contains(out, "Red Shirt"))
	assert.Check(t, is.Contains(out, "2-3 of 3"))
}
