package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// poolInfoResponse is the Raydium pool-info API shape; the reference
// price is the quoted price of the configured SOL/USDC pool.
type poolInfoResponse struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Data    []struct {
		Price float64 `json:"price"`
	} `json:"data"`
}

// SolPriceClient fetches the SOL/USD reference price from the Raydium
// pool-info API. It implements domain.PriceSource; budgeting and stale
// fallback live in the oracle cache, not here.
type SolPriceClient struct {
	apiURL     string
	poolID     string
	httpClient *http.Client
}

// NewSolPriceClient creates a price client for the given endpoint and
// reference pool id.
func NewSolPriceClient(apiURL, poolID string) *SolPriceClient {
	return &SolPriceClient{
		apiURL: apiURL,
		poolID: poolID,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// FetchPrice performs one upstream fetch.
func (c *SolPriceClient) FetchPrice(ctx context.Context) (decimal.Decimal, error) {
	reqURL := c.apiURL + "?ids=" + url.QueryEscape(c.poolID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return decimal.Zero, err
	}
	req.Header.Set("User-Agent", DefaultUserAgent)

	GlobalMetrics.RecordPriceFetch()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, err
	}

	var data poolInfoResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return decimal.Zero, err
	}
	if !data.Success || len(data.Data) == 0 {
		return decimal.Zero, fmt.Errorf("empty pool info response")
	}

	return decimal.NewFromFloat(data.Data[0].Price), nil
}
