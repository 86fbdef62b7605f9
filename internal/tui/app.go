package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nikbrunner/prodpick/internal/catalog"
	"github.com/nikbrunner/prodpick/internal/model"
	"github.com/nikbrunner/prodpick/internal/search"
	"github.com/nikbrunner/prodpick/internal/tui/layout"
	"github.com/nikbrunner/prodpick/internal/tui/resultlist"
	"github.com/nikbrunner/prodpick/internal/tui/summary"
	"github.com/rs/zerolog"
)

// focusArea is the section receiving keyboard input.
type focusArea int

const (
	focusInput focusArea = iota
	focusSummary
)

// catalogLoadedMsg carries the result of the one catalog fetch.
type catalogLoadedMsg struct {
	products []model.Product
	err      error
}

// debounceMsg fires when the debounce delay for ticket has elapsed.
type debounceMsg struct {
	ticket search.Ticket
}

// statusMsg sets the transient status line.
type statusMsg struct {
	text  string
	isErr bool
}

// App is the main bubbletea model for the product picker.
type App struct {
	search   search.Controller
	provider catalog.Provider

	input   textinput.Model
	spinner spinner.Model
	list    resultlist.Model
	summary summary.Model
	focus   focusArea

	keys         KeyMap
	styles       Styles
	layoutConfig layout.LayoutConfig
	logger       zerolog.Logger

	suggestionLimit int
	suggestions     []model.Product
	catalogLoaded   bool
	clipboard       func(string) error

	status      string
	statusIsErr bool

	// Window dimensions
	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Provider     catalog.Provider
	Delay        time.Duration        // optional, search.DefaultDebounce if zero
	InitialQuery string               // optional, applied once the catalog is loaded
	Suggestions  int                  // optional, did-you-mean entries; zero or negative disables
	Keys         *KeyMap              // optional, uses default if nil
	Styles       *Styles              // optional, uses default if nil
	LayoutConfig *layout.LayoutConfig // optional, uses default if nil
	Logger       *zerolog.Logger      // optional
	Clipboard    func(string) error   // optional, system clipboard if nil
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	layoutCfg := layout.DefaultConfig()
	if params.LayoutConfig != nil {
		layoutCfg = *params.LayoutConfig
	}

	logger := zerolog.Nop()
	if params.Logger != nil {
		logger = *params.Logger
	}

	provider := params.Provider
	if provider == nil {
		provider = catalog.ProviderFunc(func(context.Context) ([]model.Product, error) {
			return nil, nil
		})
	}

	copyFn := params.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	input := textinput.New()
	input.Placeholder = "Search products"
	input.Prompt = "> "
	input.PromptStyle = styles.Prompt
	input.TextStyle = styles.Input
	input.CharLimit = layoutCfg.Input.CharLimit
	input.Width = layoutCfg.Input.Width
	input.SetValue(params.InitialQuery)
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = styles.Spinner

	app := App{
		search:          search.New(search.Params{Delay: params.Delay, Logger: &logger}),
		provider:        provider,
		input:           input,
		spinner:         spin,
		list:            resultlist.New(resultlist.Params{Height: layoutCfg.List.Height, Text: layoutCfg.Text}),
		summary:         summary.New(summary.Params{Config: layoutCfg.Summary, Text: layoutCfg.Text}),
		keys:            keys,
		styles:          styles,
		layoutConfig:    layoutCfg,
		logger:          logger,
		suggestionLimit: params.Suggestions,
		clipboard:       copyFn,
		width:           80,
		height:          24,
	}

	app.syncViews()
	return app
}

// WithDimensions returns a copy of the app sized for width x height.
func (a App) WithDimensions(width, height int) App {
	a.width = width
	a.height = height
	a.syncViews()
	return a
}

// Search returns the current search state.
func (a App) Search() search.Controller {
	return a.search
}

// SelectedProducts returns the selected products in selection order.
func (a App) SelectedProducts() []model.Product {
	return a.search.SelectedProducts()
}

// CatalogLoaded reports whether the catalog fetch has completed.
func (a App) CatalogLoaded() bool {
	return a.catalogLoaded
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(a.fetchCatalog(), textinput.Blink, a.spinner.Tick)
}

func (a App) fetchCatalog() tea.Cmd {
	provider := a.provider
	return func() tea.Msg {
		products, err := provider.Fetch(context.Background())
		return catalogLoadedMsg{products: products, err: err}
	}
}

// scheduleRecompute arms the debounce timer for ticket.
func (a App) scheduleRecompute(ticket search.Ticket) tea.Cmd {
	return tea.Tick(a.search.Delay(), func(time.Time) tea.Msg {
		return debounceMsg{ticket: ticket}
	})
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.syncViews()
		return a, nil

	case catalogLoadedMsg:
		return a.handleCatalogLoaded(msg)

	case debounceMsg:
		a.search = a.search.Recompute(msg.ticket)
		if a.search.Pending() == 0 {
			a.list = a.list.SetItems(a.search.Results())
			a.suggestions = a.computeSuggestions()
		}
		a.syncViews()
		return a, nil

	case spinner.TickMsg:
		if a.catalogLoaded && !a.search.Loading() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case statusMsg:
		a.status = msg.text
		a.statusIsErr = msg.isErr
		return a, nil

	case resultlist.EntryActivatedMsg:
		a.search = a.search.ToggleSelection(msg.ProductID)
		if !a.search.ShowSummary() {
			a.setFocus(focusInput)
		}
		a.syncViews()
		return a, nil

	case summary.RemoveRequestedMsg:
		a.search = a.search.RemoveFromSelection(msg.ProductID)
		if !a.search.ShowSummary() {
			a.setFocus(focusInput)
		}
		a.syncViews()
		return a, nil

	case tea.MouseMsg:
		return a.handleMouse(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	// Cursor blink and other textinput internals
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a App) handleCatalogLoaded(msg catalogLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.logger.Warn().Err(msg.err).Msg("catalog fetch failed, continuing with empty catalog")
	}
	a.search = a.search.LoadCatalog(msg.products)
	a.catalogLoaded = true
	a.list = a.list.SetItems(nil)
	a.suggestions = nil

	// Text typed while loading (or the initial query) is searched now.
	var cmd tea.Cmd
	if q := a.input.Value(); q != "" {
		cmd = a.queryChanged(q)
	}
	a.syncViews()
	return a, cmd
}

// queryChanged forwards new input text to the controller and arms the
// debounce timer.
func (a *App) queryChanged(text string) tea.Cmd {
	wasLoading := a.search.Loading()
	var ticket search.Ticket
	a.search, ticket = a.search.OnQueryChanged(text)
	a.status = ""

	cmds := []tea.Cmd{a.scheduleRecompute(ticket)}
	if !wasLoading {
		cmds = append(cmds, a.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Copy):
		return a, a.copySelection()

	case key.Matches(msg, a.keys.Focus):
		if a.focus == focusSummary {
			a.setFocus(focusInput)
		} else if a.search.ShowSummary() {
			a.setFocus(focusSummary)
		}
		a.syncViews()
		return a, nil
	}

	if a.focus == focusSummary {
		if key.Matches(msg, a.keys.Clear) {
			a.setFocus(focusInput)
			a.syncViews()
			return a, nil
		}
		var cmd tea.Cmd
		a.summary, cmd = a.summary.Update(msg)
		return a, cmd
	}

	switch {
	case key.Matches(msg, a.keys.Up):
		a.search = a.search.OnKeyNavigate(search.KeyArrowUp)
	case key.Matches(msg, a.keys.Down):
		a.search = a.search.OnKeyNavigate(search.KeyArrowDown)
	case key.Matches(msg, a.keys.Toggle):
		a.search = a.search.OnKeyNavigate(search.KeyEnter)
	case key.Matches(msg, a.keys.Clear):
		a.search = a.search.OnKeyNavigate(search.KeyEscape)
		a.input.SetValue("")
		a.list = a.list.SetItems(nil)
		a.suggestions = nil
	default:
		before := a.input.Value()
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		if after := a.input.Value(); after != before && a.catalogLoaded {
			cmd = tea.Batch(cmd, a.queryChanged(after))
		}
		a.syncViews()
		return a, cmd
	}

	a.syncViews()
	return a, nil
}

// handleMouse translates screen coordinates into list or summary
// coordinates and forwards the event.
func (a App) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	listTop, summaryTop := a.sectionOffsets()
	local := msg
	local.X = msg.X - appPaddingLeft

	if a.search.Display() == search.DisplayList && msg.Y >= listTop && msg.Y < listTop+lipgloss.Height(a.list.View()) {
		local.Y = msg.Y - listTop
		var cmd tea.Cmd
		a.list, cmd = a.list.Update(local)
		return a, cmd
	}

	if a.search.ShowSummary() && msg.Y >= summaryTop {
		local.Y = msg.Y - summaryTop
		var cmd tea.Cmd
		a.summary, cmd = a.summary.Update(local)
		return a, cmd
	}

	return a, nil
}

func (a App) copySelection() tea.Cmd {
	products := a.search.SelectedProducts()
	copyFn := a.clipboard
	logger := a.logger
	return func() tea.Msg {
		if len(products) == 0 {
			return statusMsg{text: "Nothing selected"}
		}
		if err := copyFn(FormatSelection(products)); err != nil {
			logger.Warn().Err(err).Msg("clipboard write failed")
			return statusMsg{text: "Clipboard unavailable: " + err.Error(), isErr: true}
		}
		return statusMsg{text: fmt.Sprintf("Copied %d product(s)", len(products))}
	}
}

// FormatSelection renders products as "id<TAB>title" lines.
func FormatSelection(products []model.Product) string {
	var b strings.Builder
	for _, p := range products {
		fmt.Fprintf(&b, "%d\t%s\n", p.ID, p.Title)
	}
	return b.String()
}

func (a *App) setFocus(f focusArea) {
	a.focus = f
	if f == focusSummary {
		a.summary = a.summary.Focus()
		a.input.Blur()
		return
	}
	a.summary = a.summary.Blur()
	a.input.Focus()
}

func (a App) computeSuggestions() []model.Product {
	if a.search.Display() != search.DisplayNoResults {
		return nil
	}
	return search.Suggest(a.search.Catalog(), a.search.Query(), a.suggestionLimit)
}

// syncViews pushes controller state into the child views.
func (a *App) syncViews() {
	a.summary = a.summary.SetData(a.search.Selection(), a.search.Catalog())

	summaryLines := 0
	if a.search.ShowSummary() {
		summaryLines = lipgloss.Height(a.summary.View()) + 1
	}
	height := layout.CalculateListHeight(a.height, summaryLines, a.layoutConfig.List)
	a.list = a.list.
		SetSize(a.width-a.layoutConfig.List.ContentPadding, height).
		SetSelection(a.search.Selection()).
		SetQuery(a.search.Query())

	if a.list.Highlight() != a.search.Highlight() {
		a.list = a.list.SetHighlight(a.search.Highlight())
	}
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}
