package layout

import "github.com/charmbracelet/x/ansi"

// StripANSI removes ANSI escape codes from a string.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// VisibleLength returns the display width of a string, ignoring ANSI codes.
func VisibleLength(s string) int {
	return ansi.StringWidth(s)
}

// TruncateText truncates plain text to maxWidth cells with an ellipsis.
// Returns the truncated text and whether truncation occurred.
func TruncateText(text string, maxWidth int, cfg TextConfig) (string, bool) {
	if maxWidth <= 0 {
		return "", text != ""
	}
	if ansi.StringWidth(text) <= maxWidth {
		return text, false
	}
	if ansi.StringWidth(cfg.Ellipsis) >= maxWidth {
		return ansi.Truncate(cfg.Ellipsis, maxWidth, ""), true
	}
	return ansi.Truncate(text, maxWidth, cfg.Ellipsis), true
}

// TruncateANSIAware truncates styled text, preserving ANSI codes.
// Used for result rows where the matched substring is highlighted.
// A reset code is appended after truncation to prevent style bleed.
func TruncateANSIAware(styledText string, maxWidth int, cfg TextConfig) string {
	if maxWidth <= 0 {
		return ""
	}
	if ansi.StringWidth(styledText) <= maxWidth {
		return styledText
	}
	return ansi.Truncate(styledText, maxWidth, cfg.Ellipsis) + "\x1b[0m"
}
