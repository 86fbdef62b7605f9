package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/nikbrunner/prodpick/internal/config"
	"github.com/nikbrunner/prodpick/internal/model"
	"github.com/rs/zerolog"
)

// maxCatalogBytes bounds the response body read from the catalog endpoint.
const maxCatalogBytes = 32 << 20

// HTTPProvider fetches the catalog as a JSON array from an HTTP endpoint.
type HTTPProvider struct {
	url        string
	httpClient *http.Client
	logger     zerolog.Logger
}

// HTTPParams holds parameters for creating a new HTTPProvider.
type HTTPParams struct {
	URL     string          // optional, config.DefaultCatalogURL if empty
	Timeout time.Duration   // optional, 30s if zero
	Client  *http.Client    // optional, overrides Timeout
	Logger  *zerolog.Logger // optional
}

// NewHTTPProvider creates a new HTTPProvider.
func NewHTTPProvider(params HTTPParams) *HTTPProvider {
	url := params.URL
	if url == "" {
		url = config.DefaultCatalogURL
	}

	client := params.Client
	if client == nil {
		timeout := params.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	logger := zerolog.Nop()
	if params.Logger != nil {
		logger = *params.Logger
	}

	return &HTTPProvider{
		url:        url,
		httpClient: client,
		logger:     logger,
	}
}

// Fetch downloads and decodes the catalog.
func (p *HTTPProvider) Fetch(ctx context.Context) ([]model.Product, error) {
	requestID := uuid.NewString()
	logger := p.logger.With().Str("request_id", requestID).Str("url", p.url).Logger()
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		logger.Warn().Err(err).Msg("catalog request failed")
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn().Int("status", resp.StatusCode).Msg("catalog request rejected")
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var entries []apiProduct
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	products := toProducts(entries)

	logger.Info().
		Int("products", len(products)).
		Dur("elapsed", time.Since(start)).
		Msg("catalog fetched")

	return products, nil
}
