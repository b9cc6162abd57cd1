// Package catalog implements the external catalog client against the
// DummyJSON-style API: GET /products?limit=N and GET /carts?limit=N, each
// wrapping its records in a keyed JSON array.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"importsvc/domain/contracts"
	"importsvc/infrastructure/config"
	"importsvc/logging"
)

// Client fetches catalog records over HTTP. Failures are wrapped with
// contracts.ErrUpstream so callers can classify them without inspecting
// transport details.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewClient creates a catalog client from configuration.
func NewClient(cfg *config.CatalogConfig, logger *logging.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.WithComponent("catalog_client"),
	}
}

// FetchProducts retrieves up to limit products.
func (c *Client) FetchProducts(ctx context.Context, limit int) ([]contracts.CatalogRecord, error) {
	return c.fetch(ctx, "products", limit)
}

// FetchCarts retrieves up to limit carts.
func (c *Client) FetchCarts(ctx context.Context, limit int) ([]contracts.CatalogRecord, error) {
	return c.fetch(ctx, "carts", limit)
}

// fetch performs the request and unwraps the keyed record array. The resource
// name doubles as the wrapper key ("products" or "carts").
func (c *Client) fetch(ctx context.Context, resource string, limit int) ([]contracts.CatalogRecord, error) {
	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, resource, url.Values{"limit": {strconv.Itoa(limit)}}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building %s request: %v", contracts.ErrUpstream, resource, err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Catalog("Fetching catalog records", "resource", resource, "limit", limit)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching %s: %v", contracts.ErrUpstream, resource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: fetching %s: unexpected status %d", contracts.ErrUpstream, resource, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s response: %v", contracts.ErrUpstream, resource, err)
	}

	records, err := decodeRecords(body, resource)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s response: %v", contracts.ErrUpstream, resource, err)
	}

	c.logger.Catalog("Fetched catalog records", "resource", resource, "count", len(records))

	return records, nil
}

// decodeRecords extracts the records under the wrapper key, keeping each
// record's raw JSON and pulling its numeric "id" field as the remote ID.
func decodeRecords(body []byte, key string) ([]contracts.CatalogRecord, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}

	rawList, ok := envelope[key]
	if !ok {
		return nil, fmt.Errorf("response missing %q field", key)
	}

	var rawRecords []json.RawMessage
	if err := json.Unmarshal(rawList, &rawRecords); err != nil {
		return nil, err
	}

	records := make([]contracts.CatalogRecord, 0, len(rawRecords))
	for i, raw := range rawRecords {
		var idHolder struct {
			ID int64 `json:"id"`
		}
		if err := json.Unmarshal(raw, &idHolder); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, contracts.CatalogRecord{
			RemoteID: idHolder.ID,
			Payload:  raw,
		})
	}

	return records, nil
}
