package search

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/nikbrunner/prodpick/internal/model"
	"gotest.tools/v3/assert"
)

func productIDs(products []model.Product) []int {
	ids := make([]int, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}

func sampleCatalog() model.Catalog {
	return model.NewCatalog([]model.Product{
		{ID: 1, Title: "Red Shirt"},
		{ID: 2, Title: "Blue Hat"},
		{ID: 3, Title: "Red Hat"},
	})
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{"lowercase query", "red", []int{1, 3}},
		{"uppercase query", "HAT", []int{2, 3}},
		{"mixed case", "bLuE", []int{2}},
		{"inner substring", "d h", []int{3}},
		{"no match", "shoe", []int{}},
		{"empty query matches nothing", "", []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(sampleCatalog(), tt.query)
			assert.DeepEqual(t, productIDs(got), tt.want)
		})
	}
}

func TestFilter_EmptyCatalog(t *testing.T) {
	got := Filter(model.NewCatalog(nil), "red")
	assert.Equal(t, len(got), 0)
}

// Filter must equal the order-preserving subsequence of case-insensitive
// substring matches for arbitrary catalogs and queries.
func TestFilter_MatchesReferenceSubsequence(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	alphabet := []rune("abcABC xyZ")

	randomString := func(maxLen int) string {
		n := rng.IntN(maxLen + 1)
		var b strings.Builder
		for range n {
			b.WriteRune(alphabet[rng.IntN(len(alphabet))])
		}
		return b.String()
	}

	for round := range 200 {
		products := make([]model.Product, rng.IntN(12))
		for i := range products {
			products[i] = model.Product{ID: i + 1, Title: randomString(10)}
		}
		catalog := model.NewCatalog(products)
		query := randomString(3)

		want := []int{}
		if query != "" {
			for _, p := range products {
				if strings.Contains(strings.ToLower(p.Title), strings.ToLower(query)) {
					want = append(want, p.ID)
				}
			}
		}

		got := productIDs(Filter(catalog, query))
		assert.DeepEqual(t, got, want)
		if t.Failed() {
			t.Fatalf("round %d: query %q", round, query)
		}
	}
}

func TestMatchSpan(t *testing.T) {
	tests := []struct {
		title, query string
		start, end   int
	}{
		{"Red Shirt", "shi", 4, 7},
		{"Red Shirt", "RED", 0, 3},
		{"Red Shirt", "hat", -1, -1},
		{"Red Shirt", "", -1, -1},
	}

	for _, tt := range tests {
		start, end := MatchSpan(tt.title, tt.query)
		assert.Equal(t, start, tt.start, "title %q query %q", tt.title, tt.query)
		assert.Equal(t, end, tt.end, "title %q query %q", tt.title, tt.query)
	}
}

func TestSuggest(t *testing.T) {
	catalog := model.NewCatalog([]model.Product{
		{ID: 1, Title: "Red Shirt"},
		{ID: 2, Title: "Blue Hat"},
		{ID: 3, Title: "Red Hat"},
	})

	got := Suggest(catalog, "rdsht", 3)
	assert.DeepEqual(t, productIDs(got), []int{1})

	assert.Equal(t, len(Suggest(catalog, "rdsht", 0)), 0)
	assert.Equal(t, len(Suggest(catalog, "", 3)), 0)
	assert.Equal(t, len(Suggest(catalog, "zzz", 3)), 0)
}

func TestSuggest_Limit(t *testing.T) {
	catalog := model.NewCatalog([]model.Product{
		{ID: 1, Title: "Hat A"},
		{ID: 2, Title: "Hat B"},
		{ID: 3, Title: "Hat C"},
	})

	got := Suggest(catalog, "ht", 2)
	assert.Equal(t, len(got), 2)
}
