package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nikbrunner/prodpick/internal/catalog"
	"github.com/nikbrunner/prodpick/internal/config"
	"github.com/nikbrunner/prodpick/internal/exporter"
	"github.com/nikbrunner/prodpick/internal/imgcheck"
	"github.com/nikbrunner/prodpick/internal/model"
	"github.com/nikbrunner/prodpick/internal/obs"
	"github.com/nikbrunner/prodpick/internal/search"
	"github.com/spf13/cobra"
)

func newSearchCommand(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Print the products whose title contains query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, provider, cleanup, err := opts.setup()
			if err != nil {
				return err
			}
			defer cleanup()

			results := runSearch(cmd.Context(), provider, joinArgs(args))
			if len(results) == 0 {
				fmt.Fprintf(os.Stderr, "No products found for '%s'\n", joinArgs(args))
			}
			return printProducts(cmd.OutOrStdout(), results, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}

// runSearch drives the search controller through one settled query.
func runSearch(ctx context.Context, provider catalog.Provider, query string) []model.Product {
	logger := obs.Logger("search")
	ctrl := search.New(search.Params{Logger: &logger}).Initialize(ctx, provider)
	ctrl, ticket := ctrl.OnQueryChanged(query)
	return ctrl.Recompute(ticket).Results()
}

func newImportCommand(opts *globalOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Load products into the SQLite catalog",
		Long: `Load products into the SQLite catalog, replacing its contents.

The file may be JSON, YAML or an HTML table. Without a file the configured
HTTP catalog is downloaded.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			logCloser, err := initLogging(cfg)
			if err != nil {
				return err
			}
			defer logCloser.Close()

			var products []model.Product
			if len(args) == 1 {
				products, err = catalog.ReadFile(args[0])
			} else {
				logger := obs.Logger("catalog")
				p := catalog.NewHTTPProvider(catalog.HTTPParams{
					URL:     cfg.Catalog.URL,
					Timeout: cfg.Catalog.Timeout(),
					Logger:  &logger,
				})
				products, err = p.Fetch(cmd.Context())
			}
			if err != nil {
				return fmt.Errorf("reading products: %w", err)
			}

			if dbPath == "" {
				dbPath, err = sqlitePath(cfg)
				if err != nil {
					return err
				}
			}

			s, err := catalog.NewSQLiteProvider(dbPath)
			if err != nil {
				return fmt.Errorf("opening %s: %w", dbPath, err)
			}
			defer s.Close()

			previous, err := s.ImportedAt(cmd.Context())
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.Path(), err)
			}
			if err := s.Save(cmd.Context(), products); err != nil {
				return fmt.Errorf("saving products: %w", err)
			}

			out := cmd.OutOrStdout()
			if !previous.IsZero() {
				fmt.Fprintf(out, "Replacing catalog imported %s\n", previous.Local().Format(time.DateTime))
			}
			imported := model.NewCatalog(products).Len()
			fmt.Fprintf(out, "Imported %d products into %s\n", imported, s.Path())
			if imported == 0 {
				fmt.Fprintf(os.Stderr, "Warning: no products found\n")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default ~/.config/prodpick/catalog.db)")
	return cmd
}

// sqlitePath is the configured SQLite catalog, or the default one.
func sqlitePath(cfg *config.Config) (string, error) {
	if cfg.Catalog.Source == config.SourceSQLite && cfg.Catalog.Path != "" {
		return cfg.Catalog.Path, nil
	}
	return config.DefaultSQLitePath()
}

func newExportCommand(opts *globalOptions) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "export [path]",
		Short: "Export the catalog as an HTML table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, provider, cleanup, err := opts.setup()
			if err != nil {
				return err
			}
			defer cleanup()

			var outputPath string
			if len(args) == 1 {
				outputPath = args[0]
			} else {
				outputPath, err = exporter.DefaultExportPath()
				if err != nil {
					return fmt.Errorf("getting export path: %w", err)
				}
			}

			var products []model.Product
			title := "Products"
			if query != "" {
				products = runSearch(cmd.Context(), provider, query)
				title = fmt.Sprintf("Products matching %q", query)
			} else {
				all, err := provider.Fetch(cmd.Context())
				if err != nil {
					return fmt.Errorf("loading catalog: %w", err)
				}
				products = model.NewCatalog(all).Products
			}

			if err := writeExport(outputPath, products, title); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d products to %s\n", len(products), outputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "only export products whose title contains query")
	return cmd
}

func newCheckCommand(opts *globalOptions) *cobra.Command {
	var (
		concurrency int
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that product image URLs resolve",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, provider, cleanup, err := opts.setup()
			if err != nil {
				return err
			}
			defer cleanup()

			all, err := provider.Fetch(cmd.Context())
			if err != nil {
				return fmt.Errorf("loading catalog: %w", err)
			}
			products := model.NewCatalog(all).Products
			fmt.Fprintf(os.Stderr, "Checking %d product images...\n", len(products))

			logger := obs.Logger("imgcheck")
			results, err := imgcheck.CheckImages(cmd.Context(), products, imgcheck.Params{
				Concurrency: concurrency,
				Timeout:     timeout,
				Logger:      &logger,
				OnProgress: func(completed, total int) {
					fmt.Fprintf(os.Stderr, "\r[%d/%d]", completed, total)
				},
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr)

			out := cmd.OutOrStdout()
			for _, r := range results {
				if r.Status == imgcheck.Healthy {
					continue
				}
				detail := r.Error
				if detail == "" && r.StatusCode != 0 {
					detail = fmt.Sprintf("HTTP %d", r.StatusCode)
				}
				fmt.Fprintf(out, "%-11s %d\t%s\t%s\n", r.Status, r.Product.ID, r.Product.Title, detail)
			}

			counts := imgcheck.Summary(results)
			fmt.Fprintf(out, "\n%d healthy, %d broken, %d unreachable, %d missing\n",
				counts[imgcheck.Healthy],
				counts[imgcheck.Broken],
				counts[imgcheck.Unreachable],
				counts[imgcheck.Missing],
			)
			return nil
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", 8, "parallel requests")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "per-request timeout")
	return cmd
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
