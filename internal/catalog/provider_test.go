package catalog_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nikbrunner/prodpick/internal/catalog"
	"github.com/nikbrunner/prodpick/internal/config"
	"github.com/nikbrunner/prodpick/internal/model"
	"github.com/rs/zerolog"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestHTTPProvider_Fetch(t *testing.T) {
	var requestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 1, "title": "Red Shirt", "image": "https://img.example/1.png", "price": 9.5},
			{"id": 2, "title": "Blue Hat", "imageUrl": "https://img.example/2.png"}
		]`))
	}))
	defer srv.Close()

	p := catalog.NewHTTPProvider(catalog.HTTPParams{URL: srv.URL})
	products, err := p.Fetch(context.Background())
	assert.NilError(t, err)

	assert.DeepEqual(t, products, []model.Product{
		{ID: 1, Title: "Red Shirt", ImageURL: "https://img.example/1.png"},
		{ID: 2, Title: "Blue Hat", ImageURL: "https://img.example/2.png"},
	})
	assert.Assert(t, requestID != "", "expected request id header")
}

func TestHTTPProvider_UnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := catalog.NewHTTPProvider(catalog.HTTPParams{URL: srv.URL})
	_, err := p.Fetch(context.Background())
	assert.Assert(t, errors.Is(err, catalog.ErrUnexpectedStatus))
	assert.ErrorContains(t, err, "503")
}

func TestHTTPProvider_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not": "an array"`))
	}))
	defer srv.Close()

	p := catalog.NewHTTPProvider(catalog.HTTPParams{URL: srv.URL})
	_, err := p.Fetch(context.Background())
	assert.ErrorContains(t, err, "decode catalog")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	assert.NilError(t, os.MkdirAll(filepath.Dir(path), 0755))
	assert.NilError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestFileProvider_Formats(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.json"), `[{"id": 1, "title": "Red Shirt", "imageUrl": "a.png"}]`)
	writeFile(t, filepath.Join(dir, "b.json"), `{"products": [{"id": 2, "title": "Blue Hat"}]}`)
	writeFile(t, filepath.Join(dir, "c.yaml"), "- id: 3\n  title: Red Hat\n  imageUrl: c.png\n")
	writeFile(t, filepath.Join(dir, "d.yml"), "products:\n  - id: 4\n    title: Green Scarf\n")
	writeFile(t, filepath.Join(dir, "e.html"), `<table><tr><td>5</td><td>Wool Socks</td><td><img src="e.png"></td></tr></table>`)
	writeFile(t, filepath.Join(dir, "f.json"), `[{"id": 6, "title": "Bag", "image": "https://fakestoreapi.com/img/1.jpg"}]`)
	writeFile(t, filepath.Join(dir, "g.yaml"), "products:\n  - id: 7\n    title: Belt\n    image: g.png\n")

	tests := []struct {
		name    string
		pattern string
		want    []int
	}{
		{"bare json array", "a.json", []int{1}},
		{"wrapped json", "b.json", []int{2}},
		{"yaml sequence", "c.yaml", []int{3}},
		{"yaml mapping", "d.yml", []int{4}},
		{"html table", "e.html", []int{5}},
		{"glob in lexical order", "*.{json,yaml,yml,html}", []int{1, 2, 3, 4, 5, 6, 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := catalog.NewFileProvider(filepath.Join(dir, tt.pattern))
			products, err := p.Fetch(context.Background())
			assert.NilError(t, err)

			var ids []int
			for _, prod := range products {
				ids = append(ids, prod.ID)
			}
			assert.DeepEqual(t, ids, tt.want)
		})
	}
}

func TestFileProvider_ImageKeys(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "store.json"), `[
		{"id": 1, "title": "Bag", "image": "https://fakestoreapi.com/img/1.jpg"},
		{"id": 2, "title": "Hat", "imageUrl": "hat.png", "image": "ignored.png"}
	]`)
	writeFile(t, filepath.Join(dir, "store.yaml"), "- id: 3\n  title: Belt\n  image: belt.png\n")

	products, err := catalog.NewFileProvider(filepath.Join(dir, "store.*")).Fetch(context.Background())
	assert.NilError(t, err)
	assert.DeepEqual(t, products, []model.Product{
		{ID: 1, Title: "Bag", ImageURL: "https://fakestoreapi.com/img/1.jpg"},
		{ID: 2, Title: "Hat", ImageURL: "hat.png"},
		{ID: 3, Title: "Belt", ImageURL: "belt.png"},
	})
}

func TestFileProvider_RecursiveGlob(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "shop", "men", "shirts.json"), `[{"id": 10, "title": "Shirt"}]`)
	writeFile(t, filepath.Join(dir, "shop", "women", "hats.json"), `[{"id": 20, "title": "Hat"}]`)
	writeFile(t, filepath.Join(dir, "shop", "notes.txt"), "ignored")

	p := catalog.NewFileProvider(filepath.Join(dir, "shop", "**", "*.json"))
	products, err := p.Fetch(context.Background())
	assert.NilError(t, err)
	assert.Check(t, is.Len(products, 2))
}

func TestFileProvider_Errors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "catalog.csv"), "id,title\n1,Shirt\n")

	_, err := catalog.NewFileProvider(filepath.Join(dir, "missing-*.json")).Fetch(context.Background())
	assert.Assert(t, errors.Is(err, catalog.ErrNoCatalogFiles))

	_, err = catalog.NewFileProvider("").Fetch(context.Background())
	assert.Assert(t, errors.Is(err, catalog.ErrNoCatalogFiles))

	_, err = catalog.NewFileProvider(filepath.Join(dir, "catalog.csv")).Fetch(context.Background())
	assert.ErrorContains(t, err, "unsupported catalog file")
}

func TestOpen_Sources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "products.json"), `[{"id": 1, "title": "Shirt"}]`)

	p, closer, err := catalog.Open(config.CatalogConfig{
		Source: config.SourceFile,
		Path:   filepath.Join(dir, "products.json"),
	}, zerolog.Nop())
	assert.NilError(t, err)
	defer closer()

	products, err := p.Fetch(context.Background())
	assert.NilError(t, err)
	assert.Check(t, is.Len(products, 1))

	sp, sqlCloser, err := catalog.Open(config.CatalogConfig{
		Source: config.SourceSQLite,
		Path:   filepath.Join(dir, "catalog.db"),
	}, zerolog.Nop())
	assert.NilError(t, err)
	defer sqlCloser()

	products, err = sp.Fetch(context.Background())
	assert.NilError(t, err)
	assert.Check(t, is.Len(products, 0))
}

func TestOpen_UnknownSource(t *testing.T) {
	_, _, err := catalog.Open(config.CatalogConfig{Source: "ftp"}, zerolog.Nop())
	assert.Assert(t, errors.Is(err, catalog.ErrUnknownSource))
}

func TestWithTimeout(t *testing.T) {
	slow := catalog.ProviderFunc(func(ctx context.Context) ([]model.Product, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	_, err := catalog.WithTimeout(slow, 10*time.Millisecond).Fetch(context.Background())
	assert.Assert(t, errors.Is(err, context.DeadlineExceeded))
}

func TestPostgresProvider_Fetch(t *testing.T) {
	dsn := os.Getenv("PRODPICK_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("PRODPICK_TEST_POSTGRES_DSN not set")
	}

	p := catalog.NewPostgresProvider(catalog.PostgresParams{DSN: dsn})
	defer p.Close()

	_, err := p.Fetch(context.Background())
	assert.NilError(t, err)
}

func TestPostgresProvider_EmptyDSN(t *testing.T) {
	p := catalog.NewPostgresProvider(catalog.PostgresParams{})
	defer p.Close()

	assert.Equal(t, p.Table(), "products")
	_, err := p.Fetch(context.Background())
	assert.ErrorContains(t, err, "dsn is empty")
}
