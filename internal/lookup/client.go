// SPDX-License-Identifier: MPL-2.0

package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/keranjangkita/keranjang/pkg/types"
)

const (
	// DefaultBaseURL is the public OpenFoodFacts instance.
	DefaultBaseURL = "https://world.openfoodfacts.org"

	// DefaultTimeout bounds each request when no timeout is configured.
	DefaultTimeout = 8 * time.Second

	// SearchPageSize is the number of products requested per search.
	SearchPageSize = 20

	// UnknownProductName names search results that come back without a name.
	UnknownProductName = "Unknown Product"
)

type (
	// APIProduct is one search result from the product database.
	APIProduct struct {
		Name    string        `json:"product_name"`
		Brand   string        `json:"product_brand"`
		Barcode types.Barcode `json:"product_barcode"`
	}

	// ProductClient talks to an OpenFoodFacts compatible API.
	ProductClient struct {
		baseURL    string
		httpClient *http.Client
		timeout    time.Duration
		logger     *log.Logger
	}

	// Option configures a ProductClient.
	Option func(*ProductClient)

	offProduct struct {
		ProductName string `json:"product_name"`
		Brands      string `json:"brands"`
		Code        string `json:"code"`
	}

	offProductResponse struct {
		Status  int         `json:"status"`
		Product *offProduct `json:"product"`
	}

	offSearchResponse struct {
		Products []offProduct `json:"products"`
	}
)

// WithTimeout bounds each request. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *ProductClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *ProductClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *ProductClient) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewProductClient creates a client for baseURL, or DefaultBaseURL when empty.
func NewProductClient(baseURL string, opts ...Option) *ProductClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &ProductClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		timeout:    DefaultTimeout,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProductName returns the product name registered for barcode. It reports
// false when the product is unknown or the request failed.
func (c *ProductClient) ProductName(ctx context.Context, barcode types.Barcode) (string, bool) {
	if barcode.IsZero() {
		return "", false
	}

	var resp offProductResponse
	endpoint := c.baseURL + "/api/v0/product/" + url.PathEscape(barcode.String()) + ".json"
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		c.logger.Warn("product lookup failed", "barcode", barcode, "err", err)
		return "", false
	}

	if resp.Status != 1 || resp.Product == nil {
		return "", false
	}
	name := strings.TrimSpace(resp.Product.ProductName)
	return name, name != ""
}

// Search returns products matching the free-text query. A blank query is a
// *types.ValidationError. A failed request returns no products and no error.
func (c *ProductClient) Search(ctx context.Context, query string) ([]APIProduct, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, types.NewValidationError("query", "search query must not be empty")
	}

	params := url.Values{}
	params.Set("search_terms", q)
	params.Set("search_simple", "1")
	params.Set("action", "process")
	params.Set("json", "1")
	params.Set("page_size", strconv.Itoa(SearchPageSize))

	var resp offSearchResponse
	if err := c.getJSON(ctx, c.baseURL+"/cgi/search.pl?"+params.Encode(), &resp); err != nil {
		c.logger.Warn("product search failed", "query", q, "err", err)
		return nil, nil
	}

	products := make([]APIProduct, 0, len(resp.Products))
	for _, p := range resp.Products {
		code := strings.TrimSpace(p.Code)
		if code == "" {
			continue
		}
		name := strings.TrimSpace(p.ProductName)
		if name == "" {
			name = UnknownProductName
		}
		products = append(products, APIProduct{
			Name:    name,
			Brand:   strings.TrimSpace(p.Brands),
			Barcode: types.Barcode(code),
		})
	}
	return products, nil
}

func (c *ProductClient) getJSON(ctx context.Context, endpoint string, v any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
