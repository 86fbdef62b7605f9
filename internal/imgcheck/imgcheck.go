// Package imgcheck reports whether product image URLs still resolve.
package imgcheck

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/nikbrunner/prodpick/internal/model"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Status represents the health of an image URL.
type Status int

const (
	Healthy     Status = iota // 2xx or 3xx response
	Broken                    // 404 or 410 Gone
	Unreachable               // timeout, DNS failure, 5xx, etc.
	Missing                   // product has no image URL
)

func (s Status) String() string {
	switch s {
	case Healthy:
		return "healthy"
	case Broken:
		return "broken"
	case Unreachable:
		return "unreachable"
	case Missing:
		return "missing"
	default:
		return "unknown"
	}
}

// Result holds the check result for a single product.
type Result struct {
	Product    model.Product
	Status     Status
	StatusCode int    // HTTP status code (0 if connection failed)
	Error      string // readable reason for unreachable URLs
}

// ProgressFunc is called after each URL is checked.
type ProgressFunc func(completed, total int)

// Params configures CheckImages.
type Params struct {
	Concurrency int             // optional, 8 if zero
	Timeout     time.Duration   // optional, 10s if zero
	Client      *http.Client    // optional, overrides Timeout
	OnProgress  ProgressFunc    // optional
	Logger      *zerolog.Logger // optional
}

// CheckImages checks every product image concurrently. Results keep the
// order of products. Only cancellation of ctx produces an error.
func CheckImages(ctx context.Context, products []model.Product, params Params) ([]Result, error) {
	if len(products) == 0 {
		return nil, nil
	}

	concurrency := params.Concurrency
	if concurrency <= 0 {
		concurrency = 8
	}

	client := params.Client
	if client == nil {
		timeout := params.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		}
	}

	logger := zerolog.Nop()
	if params.Logger != nil {
		logger = *params.Logger
	}

	results := make([]Result, len(products))

	var progressMu sync.Mutex
	completed := 0

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := range products {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = checkImage(ctx, client, products[i])
			if results[i].Status != Healthy {
				logger.Debug().
					Int("product_id", products[i].ID).
					Stringer("status", results[i].Status).
					Str("reason", results[i].Error).
					Msg("image check failed")
			}

			if params.OnProgress != nil {
				progressMu.Lock()
				completed++
				params.OnProgress(completed, len(products))
				progressMu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// checkImage checks a single URL, HEAD first with a GET fallback.
func checkImage(ctx context.Context, client *http.Client, product model.Product) Result {
	result := Result{Product: product}

	if strings.TrimSpace(product.ImageURL) == "" {
		result.Status = Missing
		return result
	}

	resp, err := do(ctx, client, http.MethodHead, product.ImageURL)
	if err != nil || resp.StatusCode == http.StatusMethodNotAllowed {
		if resp != nil {
			resp.Body.Close()
		}
		// Some servers don't support HEAD
		resp, err = do(ctx, client, http.MethodGet, product.ImageURL)
		if err != nil {
			result.Status = Unreachable
			result.Error = normalizeError(err.Error())
			return result
		}
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		result.Status = Healthy
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		result.Status = Broken
	default:
		result.Status = Unreachable
		result.Error = http.StatusText(resp.StatusCode)
	}

	return result
}

func do(ctx context.Context, client *http.Client, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	return client.Do(req)
}

// Summary counts results per status.
func Summary(results []Result) map[Status]int {
	counts := make(map[Status]int)
	for _, r := range results {
		counts[r.Status]++
	}
	return counts
}

// normalizeError simplifies verbose error messages into readable categories.
func normalizeError(errStr string) string {
	lower := strings.ToLower(errStr)

	switch {
	case strings.Contains(lower, "no such host"):
		return "DNS failure"
	case strings.Contains(lower, "context deadline exceeded"),
		strings.Contains(lower, "timeout"):
		return "Timeout"
	case strings.Contains(lower, "connection refused"):
		return "Connection refused"
	case strings.Contains(lower, "certificate"):
		return "TLS/certificate error"
	case strings.Contains(lower, "unsupported protocol scheme"):
		return "Invalid URL"
	default:
		return errStr
	}
}
