package search

import (
	"strings"

	"github.com/nikbrunner/prodpick/internal/model"
	"github.com/sahilm/fuzzy"
)

// Filter returns the catalog products whose title contains query,
// ignoring case, in catalog order. An empty query matches nothing.
func Filter(catalog model.Catalog, query string) []model.Product {
	if query == "" {
		return nil
	}

	needle := strings.ToLower(query)
	var results []model.Product
	for _, p := range catalog.Products {
		if strings.Contains(strings.ToLower(p.Title), needle) {
			results = append(results, p)
		}
	}
	return results
}

// MatchSpan returns the byte range of the first case-insensitive
// occurrence of query in title, or (-1, -1) when there is none.
func MatchSpan(title, query string) (start, end int) {
	if query == "" {
		return -1, -1
	}
	lowerTitle := strings.ToLower(title)
	lowerQuery := strings.ToLower(query)
	// Lowercasing can change byte lengths for some scripts.
	if len(lowerTitle) != len(title) || len(lowerQuery) != len(query) {
		return -1, -1
	}
	idx := strings.Index(lowerTitle, lowerQuery)
	if idx < 0 {
		return -1, -1
	}
	return idx, idx + len(query)
}

// productTitles implements fuzzy.Source for a product slice.
type productTitles []model.Product

func (pt productTitles) String(i int) string {
	return pt[i].Title
}

func (pt productTitles) Len() int {
	return len(pt)
}

// Suggest returns up to limit products whose titles fuzzy-match query,
// best match first. It feeds the "did you mean" hint shown when Filter
// finds nothing and never affects the result list itself.
func Suggest(catalog model.Catalog, query string, limit int) []model.Product {
	if query == "" || limit <= 0 {
		return nil
	}

	matches := fuzzy.FindFrom(query, productTitles(catalog.Products))
	if len(matches) > limit {
		matches = matches[:limit]
	}

	results := make([]model.Product, len(matches))
	for i, m := range matches {
		results[i] = catalog.Products[m.Index]
	}
	return results
}
