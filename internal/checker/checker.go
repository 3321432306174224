package checker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/noah-ing/pricehawk/internal/model"
)

// Source describes how to read a price out of one retailer's product API
type Source struct {
	PriceExpression    string // JSONPath to the price value
	CurrencyExpression string // JSONPath to the currency code, optional
}

// DefaultSources is the built-in retailer registry. Unknown sources fall back
// to the "generic" entry.
var DefaultSources = map[string]Source{
	"generic":    {PriceExpression: "$.price"},
	"amazon":     {PriceExpression: "$.offers.price", CurrencyExpression: "$.offers.priceCurrency"},
	"walmart":    {PriceExpression: "$.data.item.priceInfo.currentPrice.price"},
	"bestbuy":    {PriceExpression: "$.salePrice"},
	"target":     {PriceExpression: "$.data.product.price.current_retail"},
	"newegg":     {PriceExpression: "$.MainItem.FinalPrice"},
	"shopify":    {PriceExpression: "$.product.variants[0].price"},
	"ebay":       {PriceExpression: "$.price.value", CurrencyExpression: "$.price.currency"},
}

// Client fetches current prices for tracked products. Every call is bounded
// by the configured timeout; batch checks run on a bounded worker pool.
type Client struct {
	httpClient  *http.Client
	sources     map[string]Source
	timeout     time.Duration
	concurrency int
}

// New creates a checker client
func New(timeout time.Duration, concurrency int) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		sources:     DefaultSources,
		timeout:     timeout,
		concurrency: concurrency,
	}
}

// Check fetches the current price for a single candidate
func (c *Client) Check(ctx context.Context, candidate model.CheckCandidate) (*model.PriceResult, error) {
	source, ok := c.sources[candidate.Source]
	if !ok {
		source = c.sources["generic"]
	}

	start := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, candidate.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", candidate.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: status %d", candidate.URL, resp.StatusCode)
	}

	// Limit to 1MB; product APIs are small, anything larger is wrong
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	price, err := ExtractPrice(body, source.PriceExpression)
	if err != nil {
		return nil, fmt.Errorf("extract price (%s): %w", candidate.Source, err)
	}

	currency := candidate.Currency
	if source.CurrencyExpression != "" {
		if extracted, err := ExtractString(body, source.CurrencyExpression); err == nil && extracted != "" {
			currency = extracted
		}
	}

	slog.Debug("Price check completed",
		"product_id", candidate.ProductID,
		"source", candidate.Source,
		"price", price.String(),
		"currency", currency,
	)

	return &model.PriceResult{
		Price:      price,
		Currency:   currency,
		CheckedAt:  time.Now().UTC(),
		DurationMs: time.Since(start).Milliseconds(),
	}, nil
}
