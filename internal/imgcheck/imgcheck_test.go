package imgcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/nikbrunner/prodpick/internal/model"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestCheckImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.WriteHeader(http.StatusOK)
		case "/gone.png":
			w.WriteHeader(http.StatusGone)
		case "/head-only-get.png":
			if r.Method == http.MethodHead {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			w.WriteHeader(http.StatusOK)
		case "/error.png":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	products := []model.Product{
		{ID: 1, Title: "Shirt", ImageURL: srv.URL + "/ok.png"},
		{ID: 2, Title: "Hat", ImageURL: srv.URL + "/missing.png"},
		{ID: 3, Title: "Scarf", ImageURL: srv.URL + "/gone.png"},
		{ID: 4, Title: "Sock", ImageURL: srv.URL + "/head-only-get.png"},
		{ID: 5, Title: "Glove", ImageURL: srv.URL + "/error.png"},
		{ID: 6, Title: "Belt", ImageURL: ""},
	}

	var calls atomic.Int32
	results, err := CheckImages(context.Background(), products, Params{
		Concurrency: 2,
		OnProgress: func(completed, total int) {
			calls.Add(1)
			assert.Check(t, completed <= total)
		},
	})
	assert.NilError(t, err)
	assert.Assert(t, is.Len(results, len(products)))

	want := []Status{Healthy, Broken, Broken, Healthy, Unreachable, Missing}
	for i, r := range results {
		assert.Check(t, is.Equal(r.Product.ID, products[i].ID))
		assert.Check(t, is.Equal(r.Status, want[i]), "product %d", r.Product.ID)
	}
	assert.Check(t, is.Equal(results[4].Error, "Internal Server Error"))
	assert.Check(t, is.Equal(int(calls.Load()), len(products)))

	counts := Summary(results)
	assert.Check(t, is.Equal(counts[Healthy], 2))
	assert.Check(t, is.Equal(counts[Broken], 2))
}

func TestCheckImages_Empty(t *testing.T) {
	results, err := CheckImages(context.Background(), nil, Params{})
	assert.NilError(t, err)
	assert.Check(t, is.Len(results, 0))
}

func TestCheckImages_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CheckImages(ctx, []model.Product{{ID: 1, ImageURL: "http://127.0.0.1:1/x.png"}}, Params{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCheckImages_Unreachable(t *testing.T) {
	results, err := CheckImages(context.Background(), []model.Product{
		{ID: 1, ImageURL: "ftp://example.invalid/x.png"},
	}, Params{})
	assert.NilError(t, err)
	assert.Check(t, is.Equal(results[0].Status, Unreachable))
	assert.Check(t, is.Equal(results[0].Error, "Invalid URL"))
}

func TestNormalizeError(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"dial tcp: lookup nope.invalid: no such host", "DNS failure"},
		{"Get \"x\": context deadline exceeded (Client.Timeout exceeded)", "Timeout"},
		{"dial tcp 127.0.0.1:1: connect: connection refused", "Connection refused"},
		{"x509: certificate signed by unknown authority", "TLS/certificate error"},
		{"something else", "something else"},
	}
	for _, tt := range tests {
		assert.Check(t, is.Equal(normalizeError(tt.in), tt.want))
	}
}
