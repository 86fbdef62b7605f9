// Package summary renders the selected products as a table with a remove
// action per row.
package summary

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/nikbrunner/prodpick/internal/model"
	"github.com/nikbrunner/prodpick/internal/tui/layout"
)

// RemoveLabel is the text of the action cell.
const RemoveLabel = "remove"

// Lines above the first data row: heading, top border, header, header rule.
const rowsTop = 4

// RemoveRequestedMsg asks the host to drop a product from the selection.
type RemoveRequestedMsg struct {
	ProductID int
}

// KeyMap defines the bindings active while the summary has focus.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Remove key.Binding
}

// DefaultKeyMap returns the default summary bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up", "ctrl+p"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down", "ctrl+n"),
			key.WithHelp("↓/j", "down"),
		),
		Remove: key.NewBinding(
			key.WithKeys("enter", "delete", "x"),
			key.WithHelp("x", "remove"),
		),
	}
}

// Styles holds the lipgloss styles for the table.
type Styles struct {
	Heading lipgloss.Style
	Border  lipgloss.Style
	Header  lipgloss.Style
	Cell    lipgloss.Style
	Cursor  lipgloss.Style
	Action  lipgloss.Style
	More    lipgloss.Style
}

// DefaultStyles returns the industrial palette used by the app.
func DefaultStyles() Styles {
	primary := lipgloss.AdaptiveColor{Light: "#505050", Dark: "#A0A0A0"}
	subtle := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#606060"}
	accent := lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}
	border := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#505050"}

	return Styles{
		Heading: lipgloss.NewStyle().Bold(true).Foreground(accent),
		Border:  lipgloss.NewStyle().Foreground(border),
		Header:  lipgloss.NewStyle().Bold(true).Foreground(primary).Padding(0, 1),
		Cell:    lipgloss.NewStyle().Foreground(primary).Padding(0, 1),
		Cursor:  lipgloss.NewStyle().Foreground(accent).Bold(true).Padding(0, 1),
		Action:  lipgloss.NewStyle().Foreground(subtle).Padding(0, 1),
		More:    lipgloss.NewStyle().Foreground(subtle),
	}
}

// Model is the selection summary. It renders ids in selection order,
// looking each one up in the catalog.
type Model struct {
	ids     []int
	catalog model.Catalog

	focused bool
	cursor  int
	offset  int

	keys   KeyMap
	styles Styles
	cfg    layout.SummaryConfig
	text   layout.TextConfig
}

// Params holds parameters for creating a new Model.
type Params struct {
	Keys   *KeyMap // optional
	Styles *Styles // optional
	Config layout.SummaryConfig
	Text   layout.TextConfig
}

// New creates an empty summary.
func New(params Params) Model {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	cfg := params.Config
	if cfg.MaxVisible < 1 {
		cfg.MaxVisible = layout.DefaultConfig().Summary.MaxVisible
	}

	return Model{
		keys:   keys,
		styles: styles,
		cfg:    cfg,
		text:   params.Text,
	}
}

// SetData replaces the selection and catalog shown.
func (m Model) SetData(selection model.Selection, catalog model.Catalog) Model {
	m.ids = selection.IDs()
	m.catalog = catalog
	if m.cursor >= len(m.ids) {
		m.cursor = len(m.ids) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.offset = layout.ScrollNearest(m.offset, m.cursor, len(m.ids), m.cfg.MaxVisible)
	return m
}

// Focus gives the summary keyboard focus.
func (m Model) Focus() Model {
	m.focused = true
	return m
}

// Blur removes keyboard focus.
func (m Model) Blur() Model {
	m.focused = false
	return m
}

// Cursor returns the index of the row under the keyboard cursor.
func (m Model) Cursor() int { return m.cursor }

// Len returns the number of selected ids.
func (m Model) Len() int { return len(m.ids) }

// Update handles keys while focused and mouse input at any time. Mouse
// coordinates are relative to the top-left corner of the summary view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.focused || len(m.ids) == 0 {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.ids)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Remove):
			return m, remove(m.ids[m.cursor])
		}
		m.offset = layout.ScrollNearest(m.offset, m.cursor, len(m.ids), m.cfg.MaxVisible)

	case tea.MouseMsg:
		switch {
		case msg.Button == tea.MouseButtonWheelUp:
			m.offset = layout.ClampOffset(m.offset-1, len(m.ids), m.cfg.MaxVisible)
		case msg.Button == tea.MouseButtonWheelDown:
			m.offset = layout.ClampOffset(m.offset+1, len(m.ids), m.cfg.MaxVisible)
		case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
			if id, ok := m.removeCellAt(msg.X, msg.Y); ok {
				return m, remove(id)
			}
		}
	}

	return m, nil
}

func remove(id int) tea.Cmd {
	return func() tea.Msg { return RemoveRequestedMsg{ProductID: id} }
}

// removeCellAt reports the id whose remove cell covers (x, y).
func (m Model) removeCellAt(x, y int) (int, bool) {
	start, end := layout.VisibleRange(m.offset, len(m.ids), m.cfg.MaxVisible)
	row := y - rowsTop
	if row < 0 || start+row >= end {
		return 0, false
	}

	lines := strings.Split(m.View(), "\n")
	if y >= len(lines) {
		return 0, false
	}
	line := layout.StripANSI(lines[y])
	idx := strings.LastIndex(line, RemoveLabel)
	if idx < 0 {
		return 0, false
	}
	col := layout.VisibleLength(line[:idx])
	if x < col || x >= col+len(RemoveLabel) {
		return 0, false
	}
	return m.ids[start+row], true
}

// View renders the heading and the table.
func (m Model) View() string {
	if len(m.ids) == 0 {
		return ""
	}

	start, end := layout.VisibleRange(m.offset, len(m.ids), m.cfg.MaxVisible)

	rows := make([][]string, 0, end-start)
	for _, id := range m.ids[start:end] {
		rows = append(rows, m.row(id))
	}

	cursorRow := -1
	if m.focused {
		cursorRow = m.cursor - start
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(m.styles.Border).
		Headers("Product ID", "Title", "Action").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return m.styles.Header
			case row == cursorRow:
				return m.styles.Cursor
			case col == 2:
				return m.styles.Action
			default:
				return m.styles.Cell
			}
		})

	heading := m.styles.Heading.Render(fmt.Sprintf("Selected (%d)", len(m.ids)))
	out := heading + "\n" + t.Render()
	if len(m.ids) > m.cfg.MaxVisible {
		out += "\n" + m.styles.More.Render(fmt.Sprintf("%d-%d of %d", start+1, end, len(m.ids)))
	}
	return out
}

// row returns the cells for id. Ids missing from the catalog render blank.
func (m Model) row(id int) []string {
	p := m.catalog.GetProductByID(id)
	if p == nil {
		return []string{"", "", RemoveLabel}
	}

	title := p.Title
	if m.cfg.TitleWidth > 0 {
		title, _ = layout.TruncateText(title, m.cfg.TitleWidth, m.text)
	}
	return []string{strconv.Itoa(p.ID), title, RemoveLabel}
}
