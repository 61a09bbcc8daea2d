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

// FinnhubClient fetches quotes and company news from the Finnhub REST API.
type FinnhubClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewFinnhubClient creates a Finnhub client with optional proxy support.
func NewFinnhubClient(apiKey, proxyURL string) *FinnhubClient {
	return &FinnhubClient{
		BaseURL: "https://finnhub.io/api/v1",
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
	}
}

type finnhubQuote struct {
	C  float64 `json:"c"`
	D  float64 `json:"d"`
	DP float64 `json:"dp"`
	H  float64 `json:"h"`
	L  float64 `json:"l"`
	O  float64 `json:"o"`
	PC float64 `json:"pc"`
	T  int64   `json:"t"`
}

// FetchQuote returns the latest quote. A zero current price means the ticker is unknown.
func (f *FinnhubClient) FetchQuote(ctx context.Context, ticker string) (*model.Quote, error) {
	q := url.Values{"symbol": {ticker}, "token": {f.APIKey}}
	var raw finnhubQuote
	if err := f.get(ctx, "/quote", q, &raw); err != nil {
		return nil, fmt.Errorf("finnhub quote: %w", err)
	}
	if raw.C == 0 {
		return nil, fmt.Errorf("finnhub quote %s: %w", ticker, ErrTickerNotFound)
	}
	return &model.Quote{
		Current:       raw.C,
		Change:        raw.D,
		PercentChange: raw.DP,
		High:          raw.H,
		Low:           raw.L,
		Open:          raw.O,
		PreviousClose: raw.PC,
		Timestamp:     raw.T,
	}, nil
}

// FetchCompanyNews returns company news published between from and to.
func (f *FinnhubClient) FetchCompanyNews(ctx context.Context, ticker string, from, to time.Time) ([]model.NewsItem, error) {
	q := url.Values{
		"symbol": {ticker},
		"from":   {from.Format("2006-01-02")},
		"to":     {to.Format("2006-01-02")},
		"token":  {f.APIKey},
	}
	var raw []model.NewsItem
	if err := f.get(ctx, "/company-news", q, &raw); err != nil {
		return nil, fmt.Errorf("finnhub company news: %w", err)
	}
	return raw, nil
}

func (f *FinnhubClient) get(ctx context.Context, path string, q url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
