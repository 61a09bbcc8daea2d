package collector

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"StockPulse/internal/model"
)

var (
	// ErrTickerNotFound means the upstream has no data for the ticker.
	ErrTickerNotFound = errors.New("ticker not found")
	// ErrRateLimited means the upstream answered HTTP 429.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// CandleFetcher provides daily candles for a date range.
type CandleFetcher interface {
	FetchDailyCandles(ctx context.Context, ticker string, from, to time.Time) ([]model.Candle, error)
	Name() string
}

// QuoteFetcher provides the latest quote for a ticker.
type QuoteFetcher interface {
	FetchQuote(ctx context.Context, ticker string) (*model.Quote, error)
}

// NewsFetcher provides company news for a date range.
type NewsFetcher interface {
	FetchCompanyNews(ctx context.Context, ticker string, from, to time.Time) ([]model.NewsItem, error)
}

// PostFetcher provides forum posts or social stream messages mentioning a ticker.
type PostFetcher interface {
	FetchPosts(ctx context.Context, ticker string) ([]model.SocialPost, error)
	Name() string
}

func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}
