package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/nikbrunner/prodpick/internal/importer"
	"github.com/nikbrunner/prodpick/internal/model"
	"gopkg.in/yaml.v3"
)

// FileProvider reads the catalog from local files.
// The pattern may be a plain path or a doublestar glob such as
// "catalog/**/*.json"; matching files are read in lexical order and their
// products concatenated.
type FileProvider struct {
	pattern string
}

// NewFileProvider creates a new FileProvider for pattern.
func NewFileProvider(pattern string) *FileProvider {
	return &FileProvider{pattern: pattern}
}

// Fetch reads every matching file.
func (p *FileProvider) Fetch(ctx context.Context) ([]model.Product, error) {
	if p.pattern == "" {
		return nil, fmt.Errorf("%w: empty path", ErrNoCatalogFiles)
	}

	paths, err := doublestar.FilepathGlob(p.pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", p.pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCatalogFiles, p.pattern)
	}
	sort.Strings(paths)

	var products []model.Product
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		loaded, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		products = append(products, loaded...)
	}
	return products, nil
}

// ReadFile decodes the products in a single catalog file.
// The format follows the extension: .json, .yaml/.yml or .html/.htm.
func ReadFile(path string) ([]model.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var products []model.Product
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		products, err = decodeJSON(data)
	case ".yaml", ".yml":
		products, err = decodeYAML(data)
	case ".html", ".htm":
		products, err = importer.ParseHTMLProducts(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported catalog file %q", path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return products, nil
}

// decodeJSON accepts either a bare product array or {"products": [...]}.
func decodeJSON(data []byte) ([]model.Product, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var entries []apiProduct
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, err
		}
		return toProducts(entries), nil
	}

	var wrapper struct {
		Products []apiProduct `json:"products"`
	}
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return nil, err
	}
	return toProducts(wrapper.Products), nil
}

// decodeYAML accepts either a product sequence or a mapping with a
// "products" key.
func decodeYAML(data []byte) ([]model.Product, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.SequenceNode {
		var entries []apiProduct
		if err := root.Decode(&entries); err != nil {
			return nil, err
		}
		return toProducts(entries), nil
	}

	var wrapper struct {
		Products []apiProduct `yaml:"products"`
	}
	if err := root.Decode(&wrapper); err != nil {
		return nil, err
	}
	return toProducts(wrapper.Products), nil
}

// apiProduct is the serialized shape of a catalog entry. Both the
// fakestoreapi "image" key and our own "imageUrl" key are accepted.
type apiProduct struct {
	ID       int    `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Image    string `json:"image" yaml:"image"`
	ImageURL string `json:"imageUrl" yaml:"imageUrl"`
}

func toProducts(entries []apiProduct) []model.Product {
	if entries == nil {
		return nil
	}
	products := make([]model.Product, len(entries))
	for i, e := range entries {
		image := e.ImageURL
		if image == "" {
			image = e.Image
		}
		products[i] = model.Product{ID: e.ID, Title: e.Title, ImageURL: image}
	}
	return products
}
