package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/prodpick/internal/catalog"
	"github.com/nikbrunner/prodpick/internal/config"
	"github.com/nikbrunner/prodpick/internal/exporter"
	"github.com/nikbrunner/prodpick/internal/model"
	"github.com/nikbrunner/prodpick/internal/obs"
	"github.com/nikbrunner/prodpick/internal/tui"
	"github.com/nikbrunner/prodpick/internal/tui/layout"
	"github.com/spf13/cobra"
)

// globalOptions are the flags shared by every command.
type globalOptions struct {
	configPath string
	source     string
	catalog    string // path, glob, URL or DSN depending on source
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}
	var (
		exportPath string
		asJSON     bool
	)

	root := &cobra.Command{
		Use:   "prodpick [query...]",
		Short: "Pick products from a catalog with an autocomplete search",
		Long: `prodpick loads a product catalog and lets you search it as you type.

Keys:
  type         filter by title
  ↑/↓          move (ctrl+p/ctrl+n)
  enter        toggle the highlighted product
  esc          clear the query
  tab          focus the selection table (x removes a row)
  ctrl+y       copy the selection to the clipboard
  ctrl+c       done, print the selection

Configuration: ~/.config/prodpick/config.toml (or $PRODPICK_CONFIG)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts, strings.Join(args, " "), exportPath, asJSON)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file path")
	root.PersistentFlags().StringVar(&opts.source, "source", "", "catalog source: http, file, sqlite or postgres")
	root.PersistentFlags().StringVar(&opts.catalog, "catalog", "", "catalog location: URL, file glob, database path or DSN")
	root.Flags().StringVar(&exportPath, "export", "", "write the selection as an HTML table to this path")
	root.Flags().BoolVar(&asJSON, "json", false, "print the selection as JSON")

	root.AddCommand(
		newSearchCommand(opts),
		newImportCommand(opts),
		newExportCommand(opts),
		newCheckCommand(opts),
	)
	return root
}

// load reads the config file and applies flag overrides.
func (o *globalOptions) load() (*config.Config, error) {
	path := o.configPath
	if path == "" {
		var err error
		path, err = config.DefaultConfigFilePath()
		if err != nil {
			return nil, fmt.Errorf("getting config path: %w", err)
		}
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}

	if o.source != "" {
		cfg.Catalog.Source = o.source
	}
	if o.catalog != "" {
		switch cfg.Catalog.Source {
		case config.SourceHTTP:
			cfg.Catalog.URL = o.catalog
		case config.SourcePostgres:
			cfg.Catalog.DSN = o.catalog
		default:
			cfg.Catalog.Path = o.catalog
		}
	}
	return cfg, nil
}

// initLogging points the global logger at the configured log file.
func initLogging(cfg *config.Config) (io.Closer, error) {
	path := cfg.Log.Path
	if path == "" {
		var err error
		path, err = config.DefaultLogPath()
		if err != nil {
			return nil, err
		}
	}
	return obs.InitLogger(cfg.Log.Level, path)
}

// setup loads configuration, starts logging and opens the catalog.
// The returned cleanup closes both.
func (o *globalOptions) setup() (*config.Config, catalog.Provider, func(), error) {
	cfg, err := o.load()
	if err != nil {
		return nil, nil, nil, err
	}

	logCloser, err := initLogging(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening log: %w", err)
	}

	provider, closeProvider, err := catalog.Open(cfg.Catalog, obs.Logger("catalog"))
	if err != nil {
		_ = logCloser.Close()
		return nil, nil, nil, err
	}

	cleanup := func() {
		_ = closeProvider()
		_ = logCloser.Close()
	}
	return cfg, provider, cleanup, nil
}

// runTUI runs the interactive picker and prints the final selection.
func runTUI(opts *globalOptions, query, exportPath string, asJSON bool) error {
	cfg, provider, cleanup, err := opts.setup()
	if err != nil {
		return err
	}
	defer cleanup()

	layoutCfg := layout.DefaultConfig()
	layoutCfg.List.Height = cfg.Search.ListHeight
	logger := obs.Logger("tui")

	app := tui.NewApp(tui.AppParams{
		Provider:     provider,
		Delay:        cfg.Search.Debounce(),
		InitialQuery: query,
		Suggestions:  cfg.Search.Suggestions,
		LayoutConfig: &layoutCfg,
		Logger:       &logger,
	})

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("running app: %w", err)
	}

	selected := finalModel.(tui.App).SelectedProducts()
	if err := printProducts(os.Stdout, selected, asJSON); err != nil {
		return err
	}

	if exportPath != "" {
		if err := writeExport(exportPath, selected, "Selected products"); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Exported %d products to %s\n", len(selected), exportPath)
	}
	return nil
}

// printProducts writes products as "id<TAB>title" lines or a JSON array.
func printProducts(w io.Writer, products []model.Product, asJSON bool) error {
	if asJSON {
		if products == nil {
			products = []model.Product{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(products)
	}
	_, err := io.WriteString(w, tui.FormatSelection(products))
	return err
}

// writeExport writes products as an HTML table, creating parent directories.
func writeExport(path string, products []model.Product, title string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(exporter.ExportHTML(products, title)), 0644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}
