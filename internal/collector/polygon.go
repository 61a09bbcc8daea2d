package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"StockPulse/internal/model"
)

// PolygonFetcher implements CandleFetcher using Polygon.io daily aggregates.
type PolygonFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewPolygonFetcher creates a new fetcher with optional proxy support.
func NewPolygonFetcher(apiKey, proxyURL string) *PolygonFetcher {
	return &PolygonFetcher{
		BaseURL: "https://api.polygon.io",
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *PolygonFetcher) Name() string { return "polygon" }

// polygonAggs is the JSON shape of the aggregates endpoint.
type polygonAggs struct {
	Status  string `json:"status"`
	Results []struct {
		T int64   `json:"t"` // unix millis
		O float64 `json:"o"`
		H float64 `json:"h"`
		L float64 `json:"l"`
		C float64 `json:"c"`
		V float64 `json:"v"`
	} `json:"results"`
}

func (f *PolygonFetcher) FetchDailyCandles(ctx context.Context, ticker string, from, to time.Time) ([]model.Candle, error) {
	endpoint := fmt.Sprintf("%s/v2/aggs/ticker/%s/range/1/day/%s/%s?apiKey=%s",
		f.BaseURL, url.PathEscape(ticker), from.Format("2006-01-02"), to.Format("2006-01-02"), url.QueryEscape(f.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("polygon fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("polygon: %w", ErrRateLimited)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("polygon read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("polygon: status %d, body: %s", resp.StatusCode, string(body))
	}

	var aggs polygonAggs
	if err := json.Unmarshal(body, &aggs); err != nil {
		return nil, fmt.Errorf("polygon decode: %w", err)
	}
	if aggs.Status == "NOT_FOUND" {
		return nil, fmt.Errorf("polygon %s: %w", ticker, ErrTickerNotFound)
	}

	candles := make([]model.Candle, len(aggs.Results))
	for i, r := range aggs.Results {
		candles[i] = model.Candle{
			Time:   time.UnixMilli(r.T).UTC(),
			Open:   r.O,
			High:   r.H,
			Low:    r.L,
			Close:  r.C,
			Volume: r.V,
		}
	}
	return normalizeCandles(candles), nil
}
