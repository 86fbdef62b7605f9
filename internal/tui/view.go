package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nikbrunner/prodpick/internal/search"
)

// sectionOffsets returns the screen rows where the result list and the
// summary start. Must agree with renderView.
func (a App) sectionOffsets() (listTop, summaryTop int) {
	listTop = appPaddingTop + 2 // input line + gap
	summaryTop = listTop + lipgloss.Height(a.renderBody()) + 1
	return listTop, summaryTop
}

func (a App) renderView() string {
	sections := []string{
		a.input.View(),
		"",
		a.renderBody(),
	}

	if a.search.ShowSummary() {
		sections = append(sections, "", a.summary.View())
	}

	if a.status != "" {
		style := a.styles.Status
		if a.statusIsErr {
			style = a.styles.Error
		}
		sections = append(sections, "", style.Render(a.status))
	}

	sections = append(sections, a.styles.Help.Render(a.renderHints(a.getContextualHints())))

	return a.styles.App.Render(strings.Join(sections, "\n"))
}

// renderBody renders the area under the input: a loading indicator, the
// no-results message, the result list or an idle hint.
func (a App) renderBody() string {
	if !a.catalogLoaded {
		return a.spinner.View() + " " + a.styles.Loading.Render("Loading catalog...")
	}

	switch a.search.Display() {
	case search.DisplayLoading:
		return a.spinner.View() + " " + a.styles.Loading.Render("Searching...")

	case search.DisplayNoResults:
		body := a.styles.Empty.Render("No results found")
		if len(a.suggestions) > 0 {
			titles := make([]string, len(a.suggestions))
			for i, p := range a.suggestions {
				titles[i] = a.styles.Suggest.Render(p.Title)
			}
			body += "\n" + a.styles.Idle.Render("Did you mean: ") + strings.Join(titles, a.styles.Idle.Render(", "))
		}
		return body

	case search.DisplayList:
		return a.list.View()

	default:
		n := a.search.Catalog().Len()
		if n == 0 {
			return a.styles.Idle.Render("Catalog is empty")
		}
		return a.styles.Idle.Render(fmt.Sprintf("Type to search %d products", n))
	}
}
