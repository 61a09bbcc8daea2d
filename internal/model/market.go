package model

import "time"

// Candle represents a single trading-period bar.
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries holds candles ordered by time ascending.
type PriceSeries struct {
	Symbol    string    `json:"symbol"`
	Candles   []Candle  `json:"candles"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// Closes returns the closing prices of the series in order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		closes[i] = c.Close
	}
	return closes
}

// Quote is the latest quote snapshot for a ticker.
type Quote struct {
	Current       float64 `json:"currentPrice"`
	Change        float64 `json:"change"`
	PercentChange float64 `json:"percentChange"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Open          float64 `json:"open"`
	PreviousClose float64 `json:"previousClose"`
	Timestamp     int64   `json:"timestamp"`
}

// NewsItem is a company news headline.
type NewsItem struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
	Datetime int64  `json:"datetime"`
}

// SocialPost is a forum post or a social stream message.
type SocialPost struct {
	ID        string `json:"id"`
	Source    string `json:"source"`
	Title     string `json:"title,omitempty"`
	Body      string `json:"body,omitempty"`
	Subreddit string `json:"subreddit,omitempty"`
	URL       string `json:"url,omitempty"`
}
