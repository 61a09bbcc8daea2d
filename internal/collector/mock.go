package collector

import (
	"context"
	"time"

	"StockPulse/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// It satisfies every fetcher interface.
type MockFetcher struct {
	Price     float64
	Candles   []model.Candle
	NewsItems []model.NewsItem
	Posts     []model.SocialPost
	Err       error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchQuote(_ context.Context, _ string) (*model.Quote, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &model.Quote{Current: m.Price}, nil
}

func (m *MockFetcher) FetchDailyCandles(_ context.Context, _ string, from, to time.Time) ([]model.Candle, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Candles != nil {
		return m.Candles, nil
	}
	days := int(to.Sub(from).Hours() / 24)
	return generateMockCandles(m.Price, days, from), nil
}

func (m *MockFetcher) FetchCompanyNews(_ context.Context, _ string, _, _ time.Time) ([]model.NewsItem, error) {
	return m.NewsItems, m.Err
}

func (m *MockFetcher) FetchPosts(_ context.Context, _ string) ([]model.SocialPost, error) {
	return m.Posts, m.Err
}

func generateMockCandles(basePrice float64, count int, start time.Time) []model.Candle {
	if count < 0 {
		count = 0
	}
	candles := make([]model.Candle, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		candles[i] = model.Candle{
			Time:   start.AddDate(0, 0, i),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return candles
}
