package tui

import "github.com/charmbracelet/lipgloss"

// App padding, used both for rendering and for translating mouse
// coordinates into section coordinates.
const (
	appPaddingTop  = 1
	appPaddingLeft = 2
)

// Styles holds all lipgloss styles for the TUI.
type Styles struct {
	App      lipgloss.Style
	Prompt   lipgloss.Style
	Input    lipgloss.Style
	Spinner  lipgloss.Style
	Loading  lipgloss.Style
	Empty    lipgloss.Style // "No results found"
	Suggest  lipgloss.Style // did-you-mean titles
	Idle     lipgloss.Style // shown before anything is typed
	Status   lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style
	HintKey  lipgloss.Style // Key portion of hints (e.g., "enter", "↑/↓")
	HintDesc lipgloss.Style // Description portion of hints (e.g., "toggle", "move")
}

// DefaultStyles returns the default style configuration.
// Industrial design: grayscale with single desaturated teal accent.
func DefaultStyles() Styles {
	// Industrial color palette
	primary := lipgloss.AdaptiveColor{Light: "#505050", Dark: "#A0A0A0"} // main text
	subtle := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#606060"}  // secondary text
	accent := lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}  // desaturated teal
	warn := lipgloss.AdaptiveColor{Light: "#8A5A44", Dark: "#B07A62"}    // muted rust

	return Styles{
		App: lipgloss.NewStyle().
			PaddingTop(appPaddingTop).
			PaddingLeft(appPaddingLeft).
			PaddingRight(2),

		Prompt: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),

		Input: lipgloss.NewStyle().
			Foreground(primary),

		Spinner: lipgloss.NewStyle().
			Foreground(accent),

		Loading: lipgloss.NewStyle().
			Foreground(subtle),

		Empty: lipgloss.NewStyle().
			Foreground(primary),

		Suggest: lipgloss.NewStyle().
			Foreground(accent),

		Idle: lipgloss.NewStyle().
			Foreground(subtle),

		Status: lipgloss.NewStyle().
			Foreground(accent),

		Error: lipgloss.NewStyle().
			Foreground(warn),

		Help: lipgloss.NewStyle().
			Foreground(subtle).
			Padding(1, 0),

		HintKey: lipgloss.NewStyle().
			Foreground(subtle),

		HintDesc: lipgloss.NewStyle().
			Foreground(subtle),
	}
}
