package currencyapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marketplace/storefront/internal/domain/currency"
)

// Client fetches supported currencies from the upstream listing API.
// The upstream is optional: when no base URL is configured the caller
// falls back to the built-in currency table.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an upstream currency API client
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether an upstream base URL is configured
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

// listResponse is the upstream envelope for the supported-currency listing
type listResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    []currencyItem `json:"data"`
}

type currencyItem struct {
	Code     string          `json:"code"`
	Symbol   string          `json:"symbol"`
	Name     string          `json:"name"`
	Rate     decimal.Decimal `json:"exchangeRate"`
	Position string          `json:"position"`
	Decimals int32           `json:"decimals"`
	IsActive *bool           `json:"isActive"`
}

// FetchSupported retrieves the active currency listing from the upstream.
// Entries that fail domain validation are skipped rather than failing
// the whole fetch.
func (c *Client) FetchSupported(ctx context.Context) ([]currency.Currency, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("currency upstream is not configured")
	}

	url := c.baseURL + "/currency/supported"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build currency request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("currency upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read currency response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("currency upstream returned status %d", resp.StatusCode)
	}

	var envelope listResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode currency response: %w", err)
	}
	if !envelope.Success {
		return nil, fmt.Errorf("currency upstream rejected request: %s", envelope.Message)
	}
	if len(envelope.Data) == 0 {
		return nil, fmt.Errorf("currency upstream returned an empty listing")
	}

	currencies := make([]currency.Currency, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		decimals := item.Decimals
		if decimals == 0 && item.Code != currency.BaseCode {
			decimals = 2
		}
		cur, err := currency.New(item.Code, item.Symbol, item.Name, item.Rate,
			currency.Position(item.Position), decimals)
		if err != nil {
			continue
		}
		// The listing endpoint only serves active currencies, so a
		// missing isActive flag means active.
		if item.IsActive != nil {
			cur.IsActive = *item.IsActive
		}
		currencies = append(currencies, cur)
	}
	if len(currencies) == 0 {
		return nil, fmt.Errorf("currency upstream returned no valid currencies")
	}

	return currencies, nil
}
