package layout

// LayoutConfig holds all layout-related configuration values.
type LayoutConfig struct {
	List    ListConfig
	Summary SummaryConfig
	Input   InputConfig
	Text    TextConfig
}

// ListConfig holds result list dimensions.
type ListConfig struct {
	// Height is the preferred number of visible result rows.
	Height int

	// MinHeight is the smallest list height on short terminals.
	MinHeight int

	// ReservedLines is subtracted from the terminal height before sizing
	// the list. Accounts for: app padding (1) + input (1) + gap (1) + help bar (3) = 6
	ReservedLines int

	// ContentPadding is subtracted from the terminal width for row rendering.
	// Accounts for app padding on each side.
	ContentPadding int
}

// SummaryConfig holds selection summary table configuration.
type SummaryConfig struct {
	// MaxVisible is the number of selection rows shown before scrolling.
	MaxVisible int

	// TitleWidth caps the Title column.
	TitleWidth int
}

// InputConfig holds query input configuration.
type InputConfig struct {
	CharLimit int
	Width     int
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	// Ellipsis is the string used to indicate truncation.
	Ellipsis string
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		List: ListConfig{
			Height:         10,
			MinHeight:      3,
			ReservedLines:  6, // app padding (1) + input (1) + gap (1) + help bar (3)
			ContentPadding: 4,
		},
		Summary: SummaryConfig{
			MaxVisible: 6,
			TitleWidth: 48,
		},
		Input: InputConfig{
			CharLimit: 100,
			Width:     40,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
	}
}
