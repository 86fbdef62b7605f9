package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikbrunner/prodpick/internal/model"
	"github.com/rs/zerolog"
)

// PostgresProvider reads the catalog from a Postgres table with the columns
// id, title and image_url. The pool is created on the first Fetch.
type PostgresProvider struct {
	dsn    string
	table  string
	logger zerolog.Logger

	mu   sync.Mutex
	pool *pgxpool.Pool
}

// PostgresParams holds parameters for creating a new PostgresProvider.
type PostgresParams struct {
	DSN    string          // required
	Table  string          // optional, "products" if empty
	Logger *zerolog.Logger // optional
}

// NewPostgresProvider creates a new PostgresProvider.
func NewPostgresProvider(params PostgresParams) *PostgresProvider {
	table := params.Table
	if table == "" {
		table = "products"
	}

	logger := zerolog.Nop()
	if params.Logger != nil {
		logger = *params.Logger
	}

	return &PostgresProvider{
		dsn:    params.DSN,
		table:  table,
		logger: logger,
	}
}

// Table returns the configured table name.
func (p *PostgresProvider) Table() string {
	return p.table
}

// query builds the select statement. The table name may be schema
// qualified ("shop.products"); each part is quoted as an identifier.
func (p *PostgresProvider) query() string {
	table := pgx.Identifier(strings.Split(p.table, ".")).Sanitize()
	return fmt.Sprintf("SELECT id, title, COALESCE(image_url, '') FROM %s ORDER BY id", table)
}

func (p *PostgresProvider) connect(ctx context.Context) (*pgxpool.Pool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pool != nil {
		return p.pool, nil
	}
	if p.dsn == "" {
		return nil, fmt.Errorf("postgres catalog: dsn is empty")
	}

	pool, err := pgxpool.New(ctx, p.dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	p.pool = pool
	return pool, nil
}

// Fetch reads every product from the table ordered by id.
func (p *PostgresProvider) Fetch(ctx context.Context) ([]model.Product, error) {
	pool, err := p.connect(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, p.query())
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var prod model.Product
		if err := rows.Scan(&prod.ID, &prod.Title, &prod.ImageURL); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, prod)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read products: %w", err)
	}

	p.logger.Debug().Str("table", p.table).Int("count", len(products)).Msg("catalog loaded from postgres")
	return products, nil
}

// Close releases the connection pool, if one was opened.
func (p *PostgresProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
	}
	return nil
}
