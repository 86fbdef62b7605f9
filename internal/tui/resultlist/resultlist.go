// Package resultlist renders the filtered products as a scrollable list of
// checkable rows.
package resultlist

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nikbrunner/prodpick/internal/model"
	"github.com/nikbrunner/prodpick/internal/search"
	"github.com/nikbrunner/prodpick/internal/tui/layout"
)

// EntryActivatedMsg is emitted when a row is clicked.
type EntryActivatedMsg struct {
	ProductID int
}

// Styles holds the lipgloss styles for list rows.
type Styles struct {
	Marker      lipgloss.Style
	Checkbox    lipgloss.Style
	Checked     lipgloss.Style
	Title       lipgloss.Style
	Highlighted lipgloss.Style
	Match       lipgloss.Style
	Image       lipgloss.Style
	More        lipgloss.Style
}

// DefaultStyles returns the industrial palette used by the app.
func DefaultStyles() Styles {
	primary := lipgloss.AdaptiveColor{Light: "#505050", Dark: "#A0A0A0"}
	subtle := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#606060"}
	accent := lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}

	return Styles{
		Marker:      lipgloss.NewStyle().Foreground(accent).Bold(true),
		Checkbox:    lipgloss.NewStyle().Foreground(subtle),
		Checked:     lipgloss.NewStyle().Foreground(accent),
		Title:       lipgloss.NewStyle().Foreground(primary),
		Highlighted: lipgloss.NewStyle().Foreground(accent).Bold(true),
		Match:       lipgloss.NewStyle().Underline(true).Bold(true),
		Image:       lipgloss.NewStyle().Foreground(subtle),
		More:        lipgloss.NewStyle().Foreground(subtle),
	}
}

// Model is the result list. Rows are one line each; the list keeps its own
// scroll offset and never changes the highlight or selection itself.
type Model struct {
	items     []model.Product
	selection model.Selection
	highlight int
	query     string

	offset int
	height int
	width  int

	styles Styles
	text   layout.TextConfig
}

// Params holds parameters for creating a new Model.
type Params struct {
	Height int     // visible rows, at least 1
	Width  int     // optional, rows are not truncated if zero
	Styles *Styles // optional
	Text   layout.TextConfig
}

// New creates an empty list.
func New(params Params) Model {
	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	height := params.Height
	if height < 1 {
		height = 1
	}

	return Model{
		highlight: -1,
		height:    height,
		width:     params.Width,
		styles:    styles,
		text:      params.Text,
	}
}

// SetItems replaces the rows and scrolls back to the top.
func (m Model) SetItems(items []model.Product) Model {
	m.items = items
	m.offset = 0
	m.highlight = -1
	return m
}

// SetSelection updates which rows are checked.
func (m Model) SetSelection(selection model.Selection) Model {
	m.selection = selection
	return m
}

// SetQuery sets the text emphasised in titles.
func (m Model) SetQuery(query string) Model {
	m.query = query
	return m
}

// SetHighlight marks row i and scrolls it into view.
func (m Model) SetHighlight(i int) Model {
	m.highlight = i
	m.offset = layout.ScrollNearest(m.offset, i, len(m.items), m.height)
	return m
}

// SetSize changes the visible area.
func (m Model) SetSize(width, height int) Model {
	if height < 1 {
		height = 1
	}
	m.width = width
	m.height = height
	m.offset = layout.ScrollNearest(m.offset, m.highlight, len(m.items), m.height)
	return m
}

// Len returns the number of rows.
func (m Model) Len() int { return len(m.items) }

// Offset returns the index of the first visible row.
func (m Model) Offset() int { return m.offset }

// Height returns the number of visible rows.
func (m Model) Height() int { return m.height }

// Highlight returns the highlighted row, -1 for none.
func (m Model) Highlight() int { return m.highlight }

// ItemAt returns the product shown on screen line y of the list.
func (m Model) ItemAt(y int) (model.Product, bool) {
	start, end := layout.VisibleRange(m.offset, len(m.items), m.height)
	idx := start + y
	if y < 0 || idx >= end {
		return model.Product{}, false
	}
	return m.items[idx], true
}

// Update handles mouse input. Coordinates are relative to the top-left
// corner of the list.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	mouse, ok := msg.(tea.MouseMsg)
	if !ok {
		return m, nil
	}

	switch {
	case mouse.Button == tea.MouseButtonWheelUp:
		m.offset = layout.ClampOffset(m.offset-1, len(m.items), m.height)

	case mouse.Button == tea.MouseButtonWheelDown:
		m.offset = layout.ClampOffset(m.offset+1, len(m.items), m.height)

	case mouse.Button == tea.MouseButtonLeft && mouse.Action == tea.MouseActionPress:
		if p, ok := m.ItemAt(mouse.Y); ok {
			id := p.ID
			return m, func() tea.Msg { return EntryActivatedMsg{ProductID: id} }
		}
	}

	return m, nil
}

// View renders the visible rows plus a position hint when the list scrolls.
func (m Model) View() string {
	if len(m.items) == 0 {
		return ""
	}

	start, end := layout.VisibleRange(m.offset, len(m.items), m.height)
	lines := make([]string, 0, end-start+1)
	for i := start; i < end; i++ {
		lines = append(lines, m.renderRow(i))
	}

	if len(m.items) > m.height {
		lines = append(lines, m.styles.More.Render(
			fmt.Sprintf("  %d-%d of %d", start+1, end, len(m.items)),
		))
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderRow(i int) string {
	p := m.items[i]
	highlighted := i == m.highlight

	marker := "  "
	if highlighted {
		marker = m.styles.Marker.Render("›") + " "
	}

	checkbox := m.styles.Checkbox.Render("[ ]")
	if m.selection.Contains(p.ID) {
		checkbox = m.styles.Checked.Render("[x]")
	}

	titleStyle := m.styles.Title
	if highlighted {
		titleStyle = m.styles.Highlighted
	}

	row := marker + checkbox + " " + m.renderTitle(p.Title, titleStyle)
	if name := imageName(p.ImageURL); name != "" {
		row += "  " + m.styles.Image.Render(name)
	}

	if m.width > 0 {
		row = layout.TruncateANSIAware(row, m.width, m.text)
	}
	return row
}

// renderTitle emphasises the first occurrence of the query.
func (m Model) renderTitle(title string, style lipgloss.Style) string {
	start, end := search.MatchSpan(title, m.query)
	if start < 0 {
		return style.Render(title)
	}
	return style.Render(title[:start]) +
		m.styles.Match.Inherit(style).Render(title[start:end]) +
		style.Render(title[end:])
}

// imageName reduces an image URL to its file name.
func imageName(raw string) string {
	if raw == "" {
		return ""
	}
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		raw = u.Path
	}
	name := path.Base(raw)
	if name == "." || name == "/" {
		return ""
	}
	return name
}
