package search

import (
	"context"
	"time"

	"github.com/nikbrunner/prodpick/internal/catalog"
	"github.com/nikbrunner/prodpick/internal/model"
	"github.com/rs/zerolog"
)

// DefaultDebounce is the pause after the last query change before the
// results are recomputed.
const DefaultDebounce = 500 * time.Millisecond

// Key is a navigation key understood by OnKeyNavigate.
type Key int

const (
	KeyArrowUp Key = iota
	KeyArrowDown
	KeyEnter
	KeyEscape
)

func (k Key) String() string {
	switch k {
	case KeyArrowUp:
		return "ArrowUp"
	case KeyArrowDown:
		return "ArrowDown"
	case KeyEnter:
		return "Enter"
	case KeyEscape:
		return "Escape"
	default:
		return "Unknown"
	}
}

// Ticket identifies a scheduled recomputation.
// Only the most recently issued ticket is honoured by Recompute.
type Ticket uint64

// Display is what the area below the input shows.
type Display int

const (
	DisplayNone Display = iota
	DisplayLoading
	DisplayNoResults
	DisplayList
)

// Controller owns the search interaction state.
// It is a value type: every transition returns the next Controller and
// leaves the receiver untouched, so hosts can keep it inside a bubbletea
// model.
type Controller struct {
	catalog   model.Catalog
	query     string
	results   []model.Product
	selection model.Selection
	highlight int
	loading   bool

	pending Ticket // zero when nothing is scheduled
	issued  Ticket // last ticket handed out

	delay  time.Duration
	logger zerolog.Logger
}

// Params holds parameters for creating a new Controller.
type Params struct {
	Delay  time.Duration   // optional, DefaultDebounce if zero
	Logger *zerolog.Logger // optional, discards if nil
}

// New creates a Controller with an empty catalog.
func New(params Params) Controller {
	delay := params.Delay
	if delay <= 0 {
		delay = DefaultDebounce
	}

	logger := zerolog.Nop()
	if params.Logger != nil {
		logger = *params.Logger
	}

	return Controller{
		highlight: -1,
		delay:     delay,
		logger:    logger,
	}
}

// Initialize fetches the catalog once from provider and resets all
// interaction state. A failing provider leaves the catalog empty.
func (c Controller) Initialize(ctx context.Context, provider catalog.Provider) Controller {
	products, err := provider.Fetch(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("catalog fetch failed, continuing with empty catalog")
		products = nil
	}
	return c.LoadCatalog(products)
}

// LoadCatalog installs products as the catalog and resets all interaction
// state. Hosts that fetch asynchronously call it when the fetch completes.
func (c Controller) LoadCatalog(products []model.Product) Controller {
	c.catalog = model.NewCatalog(products)
	c.query = ""
	c.results = nil
	c.selection = model.Selection{}
	c.highlight = -1
	c.loading = false
	c.pending = 0
	c.logger.Debug().Int("products", c.catalog.Len()).Msg("catalog loaded")
	return c
}

// OnQueryChanged records the new query text and schedules a recomputation.
// The returned ticket supersedes any earlier one; the host delivers it to
// Recompute after Delay.
func (c Controller) OnQueryChanged(text string) (Controller, Ticket) {
	c.query = text
	c.loading = true
	c.issued++
	c.pending = c.issued
	return c, c.pending
}

// Recompute runs the filter for ticket t. Superseded or cancelled tickets
// are ignored.
func (c Controller) Recompute(t Ticket) Controller {
	if t == 0 || t != c.pending {
		c.logger.Debug().Uint64("ticket", uint64(t)).Msg("stale recompute ignored")
		return c
	}

	c.results = Filter(c.catalog, c.query)
	c.highlight = -1
	c.loading = false
	c.pending = 0
	c.logger.Debug().
		Str("query", c.query).
		Int("results", len(c.results)).
		Msg("results recomputed")
	return c
}

// OnKeyNavigate applies a navigation key.
func (c Controller) OnKeyNavigate(k Key) Controller {
	n := len(c.results)

	switch k {
	case KeyArrowUp:
		if n == 0 {
			return c
		}
		if c.highlight <= 0 {
			c.highlight = n - 1
		} else {
			c.highlight--
		}

	case KeyArrowDown:
		if n == 0 {
			return c
		}
		if c.highlight == n-1 {
			c.highlight = 0
		} else {
			c.highlight++
		}

	case KeyEnter:
		if c.highlight >= 0 && c.highlight < n {
			return c.ToggleSelection(c.results[c.highlight].ID)
		}

	case KeyEscape:
		c.query = ""
		c.results = nil
		c.highlight = -1
		// A recompute still in flight would bring the old results back.
		c.pending = 0
		c.loading = false
	}

	return c
}

// ToggleSelection removes id from the selection if present, otherwise
// appends it.
func (c Controller) ToggleSelection(id int) Controller {
	c.selection = c.selection.Toggle(id)
	return c
}

// RemoveFromSelection removes id from the selection if present.
func (c Controller) RemoveFromSelection(id int) Controller {
	c.selection = c.selection.Remove(id)
	return c
}

// Display reports which of loading, no-results or the list to show.
func (c Controller) Display() Display {
	switch {
	case c.loading:
		return DisplayLoading
	case c.query != "" && len(c.results) == 0:
		return DisplayNoResults
	case len(c.results) > 0:
		return DisplayList
	default:
		return DisplayNone
	}
}

// ShowSummary reports whether the selection summary should be shown.
func (c Controller) ShowSummary() bool {
	return c.selection.Len() > 0
}

// Query returns the current query text.
func (c Controller) Query() string {
	return c.query
}

// Results returns the products matched by the last recomputation.
func (c Controller) Results() []model.Product {
	return c.results
}

// Selection returns the selected product IDs.
func (c Controller) Selection() model.Selection {
	return c.selection
}

// SelectedProducts returns the selected products in selection order.
// IDs missing from the catalog are skipped.
func (c Controller) SelectedProducts() []model.Product {
	var products []model.Product
	for _, id := range c.selection.IDs() {
		if p := c.catalog.GetProductByID(id); p != nil {
			products = append(products, *p)
		}
	}
	return products
}

// Highlight returns the highlighted result index, -1 for none.
func (c Controller) Highlight() int {
	return c.highlight
}

// Loading reports whether a recomputation is pending.
func (c Controller) Loading() bool {
	return c.loading
}

// Pending returns the ticket awaiting Recompute, zero for none.
func (c Controller) Pending() Ticket {
	return c.pending
}

// Catalog returns the loaded catalog.
func (c Controller) Catalog() model.Catalog {
	return c.catalog
}

// Delay returns the debounce delay.
func (c Controller) Delay() time.Duration {
	return c.delay
}
