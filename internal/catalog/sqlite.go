package catalog

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nikbrunner/prodpick/internal/model"
)

const currentSchemaVersion = 2

// SQLiteProvider serves the catalog from a SQLite database.
// The catalog is written with Save, typically by `prodpick import`.
type SQLiteProvider struct {
	db   *sql.DB
	path string
}

// NewSQLiteProvider opens (creating if needed) the database at path.
func NewSQLiteProvider(path string) (*SQLiteProvider, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &SQLiteProvider{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteProvider) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteProvider) Close() error {
	return s.db.Close()
}

// SchemaVersion returns the migrated schema version.
func (s *SQLiteProvider) SchemaVersion() (int, error) {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	return version, err
}

// migrate runs database migrations.
func (s *SQLiteProvider) migrate() error {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	if version < currentSchemaVersion {
		if err := s.migrateV2(); err != nil {
			return err
		}
	}

	return nil
}

// migrateV1 creates the initial schema.
func (s *SQLiteProvider) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS products (
			id INTEGER PRIMARY KEY NOT NULL,
			title TEXT NOT NULL,
			image_url TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_products_position ON products(position);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// migrateV2 records when each product was imported.
func (s *SQLiteProvider) migrateV2() error {
	migration := `
		ALTER TABLE products ADD COLUMN imported_at TEXT;
		UPDATE schema_version SET version = 2;
	`
	_, err := s.db.Exec(migration)
	return err
}

// ImportedAt returns when the stored catalog was last saved, or the zero
// time if it is empty.
func (s *SQLiteProvider) ImportedAt(ctx context.Context) (time.Time, error) {
	var importedAt sql.NullString
	if err := s.db.QueryRowContext(ctx, "SELECT MAX(imported_at) FROM products").Scan(&importedAt); err != nil {
		return time.Time{}, err
	}
	if !importedAt.Valid || importedAt.String == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, importedAt.String)
}

// Fetch reads the catalog in its saved order.
func (s *SQLiteProvider) Fetch(ctx context.Context) ([]model.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, image_url
		FROM products
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.ImageURL); err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

// Save replaces the stored catalog with products.
// Uses a transaction for atomicity - all or nothing. Later duplicates of an
// ID are dropped, matching model.NewCatalog.
func (s *SQLiteProvider) Save(ctx context.Context, products []model.Product) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM products"); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO products (id, title, image_url, position, imported_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	importedAt := time.Now().UTC().Format(time.RFC3339)
	for i, p := range model.NewCatalog(products).Products {
		if _, err := stmt.ExecContext(ctx, p.ID, p.Title, p.ImageURL, i, importedAt); err != nil {
			return err
		}
	}

	return tx.Commit()
}
