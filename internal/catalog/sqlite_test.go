package catalog_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/nikbrunner/prodpick/internal/catalog"
	"github.com/nikbrunner/prodpick/internal/model"
)

func TestSQLiteProvider_SaveAndFetch(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	s, err := catalog.NewSQLiteProvider(dbPath)
	if err != nil {
		t.Fatalf("failed to open catalog: %v", err)
	}
	defer s.Close()

	products := []model.Product{
		{ID: 3, Title: "Red Hat", ImageURL: "https://img.example/3.png"},
		{ID: 1, Title: "Red Shirt", ImageURL: ""},
		{ID: 2, Title: "Blue Hat", ImageURL: "https://img.example/2.png"},
	}

	ctx := context.Background()
	if err := s.Save(ctx, products); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := s.Fetch(ctx)
	if err != nil {
		t.Fatalf("failed to fetch: %v", err)
	}

	if len(loaded) != len(products) {
		t.Fatalf("expected %d products, got %d", len(products), len(loaded))
	}
	for i := range products {
		if loaded[i] != products[i] {
			t.Errorf("product %d: expected %+v, got %+v", i, products[i], loaded[i])
		}
	}
}

func TestSQLiteProvider_EmptyDatabase(t *testing.T) {
	s, err := catalog.NewSQLiteProvider(filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatalf("failed to open catalog: %v", err)
	}
	defer s.Close()

	loaded, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("failed to fetch: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("expected empty catalog, got %d products", len(loaded))
	}
}

func TestSQLiteProvider_SaveReplaces(t *testing.T) {
	s, err := catalog.NewSQLiteProvider(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("failed to open catalog: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.Save(ctx, []model.Product{{ID: 1, Title: "Old"}, {ID: 2, Title: "Gone"}}); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	if err := s.Save(ctx, []model.Product{{ID: 1, Title: "New"}, {ID: 1, Title: "Duplicate"}}); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := s.Fetch(ctx)
	if err != nil {
		t.Fatalf("failed to fetch: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected 1 product, got %d", len(loaded))
	}
	if loaded[0].Title != "New" {
		t.Errorf("expected title 'New', got %q", loaded[0].Title)
	}
}

func TestSQLiteProvider_ImportedAt(t *testing.T) {
	s, err := catalog.NewSQLiteProvider(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("failed to open catalog: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	at, err := s.ImportedAt(ctx)
	if err != nil {
		t.Fatalf("failed to read import time: %v", err)
	}
	if !at.IsZero() {
		t.Errorf("expected zero import time for an empty catalog, got %v", at)
	}

	before := time.Now().Add(-time.Second)
	if err := s.Save(ctx, []model.Product{{ID: 1, Title: "Shirt"}}); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	at, err = s.ImportedAt(ctx)
	if err != nil {
		t.Fatalf("failed to read import time: %v", err)
	}
	if at.Before(before) {
		t.Errorf("expected import time after %v, got %v", before, at)
	}
}

func TestSQLiteProvider_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")
	ctx := context.Background()

	s, err := catalog.NewSQLiteProvider(dbPath)
	if err != nil {
		t.Fatalf("failed to open catalog: %v", err)
	}
	if err := s.Save(ctx, []model.Product{{ID: 9, Title: "Scarf"}}); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	s.Close()

	s, err = catalog.NewSQLiteProvider(dbPath)
	if err != nil {
		t.Fatalf("failed to reopen catalog: %v", err)
	}
	defer s.Close()

	version, err := s.SchemaVersion()
	if err != nil {
		t.Fatalf("failed to read schema version: %v", err)
	}
	if version != 2 {
		t.Errorf("expected schema version 2, got %d", version)
	}

	loaded, err := s.Fetch(ctx)
	if err != nil {
		t.Fatalf("failed to fetch: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Title != "Scarf" {
		t.Errorf("expected persisted product, got %+v", loaded)
	}
}
