package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nikbrunner/prodpick/internal/config"
	"github.com/nikbrunner/prodpick/internal/model"
	"github.com/rs/zerolog"
)

var (
	ErrUnknownSource    = errors.New("unknown catalog source")
	ErrUnexpectedStatus = errors.New("unexpected catalog response status")
	ErrNoCatalogFiles   = errors.New("no catalog files match")
)

// Provider supplies the product catalog.
type Provider interface {
	Fetch(ctx context.Context) ([]model.Product, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) ([]model.Product, error)

// Fetch calls f.
func (f ProviderFunc) Fetch(ctx context.Context) ([]model.Product, error) {
	return f(ctx)
}

// Open returns the provider selected by cfg.Source, bounded by
// cfg.Timeout(). The returned closer must be called when the provider is no
// longer needed.
func Open(cfg config.CatalogConfig, logger zerolog.Logger) (Provider, func() error, error) {
	p, closer, err := open(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return WithTimeout(p, cfg.Timeout()), closer, nil
}

func open(cfg config.CatalogConfig, logger zerolog.Logger) (Provider, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Source {
	case config.SourceHTTP, "":
		return NewHTTPProvider(HTTPParams{
			URL:    cfg.URL,
			Logger: &logger,
		}), noop, nil

	case config.SourceFile:
		return NewFileProvider(cfg.Path), noop, nil

	case config.SourceSQLite:
		path := cfg.Path
		if path == "" {
			var err error
			path, err = config.DefaultSQLitePath()
			if err != nil {
				return nil, nil, err
			}
		}
		s, err := NewSQLiteProvider(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite catalog: %w", err)
		}
		event := logger.Debug().Str("path", s.Path())
		if at, err := s.ImportedAt(context.Background()); err == nil && !at.IsZero() {
			event = event.Time("imported_at", at)
		}
		event.Msg("sqlite catalog opened")
		return s, s.Close, nil

	case config.SourcePostgres:
		p := NewPostgresProvider(PostgresParams{
			DSN:    cfg.DSN,
			Table:  cfg.Table,
			Logger: &logger,
		})
		return p, p.Close, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Source)
	}
}

// WithTimeout wraps p so every Fetch is bounded by timeout.
func WithTimeout(p Provider, timeout time.Duration) Provider {
	if timeout <= 0 {
		return p
	}
	return ProviderFunc(func(ctx context.Context) ([]model.Product, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return p.Fetch(ctx)
	})
}
