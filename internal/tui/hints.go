package tui

import (
	"strings"

	"github.com/nikbrunner/prodpick/internal/search"
)

// Hint represents a single keybind hint for display.
type Hint struct {
	Key  string // Display key (e.g., "↑/↓", "enter")
	Desc string // Short description (e.g., "move", "toggle")
}

// HintSet is an ordered collection of hints by group.
type HintSet struct {
	Nav    []Hint // Navigation hints (↑/↓, tab)
	Action []Hint // Action hints (enter, x, ctrl+y)
	System []Hint // System hints (esc, ctrl+c)
}

// All returns all hints flattened in display order: Nav + Action + System.
func (h HintSet) All() []Hint {
	result := make([]Hint, 0, len(h.Nav)+len(h.Action)+len(h.System))
	result = append(result, h.Nav...)
	result = append(result, h.Action...)
	result = append(result, h.System...)
	return result
}

// renderHint renders a single hint as "key:desc" with styling.
func (a App) renderHint(h Hint) string {
	return a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
}

// renderHints renders hints in horizontal format for the bottom bar.
func (a App) renderHints(hints HintSet) string {
	allHints := hints.All()
	if len(allHints) == 0 {
		return ""
	}

	parts := make([]string, len(allHints))
	for i, h := range allHints {
		parts[i] = a.renderHint(h)
	}
	return strings.Join(parts, " ")
}

// getContextualHints returns the hints for the focused section.
func (a App) getContextualHints() HintSet {
	if a.focus == focusSummary {
		return a.getSummaryHints()
	}
	return a.getInputHints()
}

// getInputHints returns hints while typing in the query input.
func (a App) getInputHints() HintSet {
	hints := HintSet{
		System: []Hint{
			{Key: "esc", Desc: "clear"},
			{Key: "ctrl+c", Desc: "done"},
		},
	}

	if a.search.Display() == search.DisplayList {
		hints.Nav = append(hints.Nav, Hint{Key: "↑/↓", Desc: "move"})
		if a.search.Highlight() >= 0 {
			hints.Action = append(hints.Action, Hint{Key: "enter", Desc: "toggle"})
		}
	}

	if a.search.ShowSummary() {
		hints.Nav = append(hints.Nav, Hint{Key: "tab", Desc: "summary"})
		hints.Action = append(hints.Action, Hint{Key: "ctrl+y", Desc: "copy"})
	}

	return hints
}

// getSummaryHints returns hints while the summary table has focus.
func (a App) getSummaryHints() HintSet {
	return HintSet{
		Nav: []Hint{
			{Key: "↑/↓", Desc: "move"},
			{Key: "tab", Desc: "search"},
		},
		Action: []Hint{
			{Key: "x", Desc: "remove"},
			{Key: "ctrl+y", Desc: "copy"},
		},
		System: []Hint{
			{Key: "esc", Desc: "back"},
			{Key: "ctrl+c", Desc: "done"},
		},
	}
}
