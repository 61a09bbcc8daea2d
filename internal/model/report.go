package model

import "time"

// Report is the merged response for one ticker lookup.
type Report struct {
	Ticker      string          `json:"ticker"`
	Quote       *Quote          `json:"quote"`
	News        []NewsItem      `json:"news"`
	YTD         *YTDStats       `json:"ytd"`
	Indicators  IndicatorSet    `json:"technicalAnalysis"`
	Momentum    *Momentum       `json:"momentum"`
	Candles     []Candle        `json:"candles"`
	Sentiment   SentimentReport `json:"sentiment"`
	ForumPosts  []SocialPost    `json:"forumPosts"`
	StreamPosts []SocialPost    `json:"streamPosts"`
	FetchedAt   time.Time       `json:"fetchedAt"`
}
