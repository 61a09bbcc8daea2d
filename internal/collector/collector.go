package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"StockPulse/internal/calculator"
	"StockPulse/internal/model"
	"StockPulse/internal/sentiment"
)

// companyNames maps common tickers to names that may appear in headlines instead of the symbol.
var companyNames = map[string][]string{
	"AAPL":  {"apple"},
	"MSFT":  {"microsoft"},
	"GOOGL": {"google", "alphabet"},
	"AMZN":  {"amazon"},
	"META":  {"meta", "facebook"},
}

// Collector orchestrates data fetching, indicator computation and sentiment scoring.
type Collector struct {
	Quotes       QuoteFetcher
	News         NewsFetcher
	Candles      CandleFetcher
	Forum        PostFetcher
	Stream       PostFetcher
	NewsLookback int // days
	Now          func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(quotes QuoteFetcher, news NewsFetcher, candles CandleFetcher, forum, stream PostFetcher, newsLookback int) *Collector {
	return &Collector{
		Quotes:       quotes,
		News:         news,
		Candles:      candles,
		Forum:        forum,
		Stream:       stream,
		NewsLookback: newsLookback,
		Now:          time.Now,
	}
}

// Collect fetches everything for ticker and runs both pipelines.
// Only the quote is mandatory; other upstream failures degrade to empty data.
func (c *Collector) Collect(ctx context.Context, ticker string) (*model.Report, error) {
	ticker = normalizeTicker(ticker)
	now := c.Now()

	quote, err := c.Quotes.FetchQuote(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("fetch quote: %w", err)
	}

	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	candles, err := c.Candles.FetchDailyCandles(ctx, ticker, yearStart, now)
	if err != nil {
		if errors.Is(err, ErrTickerNotFound) || errors.Is(err, ErrRateLimited) {
			return nil, fmt.Errorf("fetch candles: %w", err)
		}
		log.Printf("[WARN] %s candles for %s failed: %v, continuing without indicators", c.Candles.Name(), ticker, err)
		candles = nil
	}
	series := model.PriceSeries{Symbol: ticker, Candles: candles, FetchedAt: now}

	news, err := c.News.FetchCompanyNews(ctx, ticker, now.AddDate(0, 0, -c.NewsLookback), now)
	if err != nil {
		log.Printf("[WARN] news for %s failed: %v", ticker, err)
	}
	news = FilterNews(ticker, news)

	forum, stream := c.fetchSocial(ctx, ticker)

	indicators := calculator.ComputeIndicators(series)
	if candles == nil {
		candles = []model.Candle{}
	}
	return &model.Report{
		Ticker:      ticker,
		Quote:       quote,
		News:        news,
		YTD:         calculator.ComputeYTD(series.Candles),
		Indicators:  indicators,
		Momentum:    calculator.MACDMomentum(indicators),
		Candles:     candles,
		Sentiment:   sentiment.Analyze(Documents(news, forum, stream)),
		ForumPosts:  forum,
		StreamPosts: stream,
		FetchedAt:   now,
	}, nil
}

// CollectSentiment fetches only social data and scores it.
func (c *Collector) CollectSentiment(ctx context.Context, ticker string) (*model.SentimentReport, error) {
	ticker = normalizeTicker(ticker)
	forum, stream := c.fetchSocial(ctx, ticker)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	report := sentiment.Analyze(Documents(nil, forum, stream))
	return &report, nil
}

func (c *Collector) fetchSocial(ctx context.Context, ticker string) (forum, stream []model.SocialPost) {
	forum, err := c.Forum.FetchPosts(ctx, ticker)
	if err != nil {
		log.Printf("[WARN] %s posts for %s failed: %v", c.Forum.Name(), ticker, err)
	}
	stream, err = c.Stream.FetchPosts(ctx, ticker)
	if err != nil {
		log.Printf("[WARN] %s messages for %s failed: %v", c.Stream.Name(), ticker, err)
	}
	if forum == nil {
		forum = []model.SocialPost{}
	}
	if stream == nil {
		stream = []model.SocialPost{}
	}
	return forum, stream
}

// FilterNews keeps items whose headline mentions the ticker or a known company name.
func FilterNews(ticker string, items []model.NewsItem) []model.NewsItem {
	t := strings.ToLower(ticker)
	names := companyNames[strings.ToUpper(ticker)]
	out := []model.NewsItem{}
	for _, item := range items {
		headline := strings.ToLower(item.Headline)
		match := strings.Contains(headline, t)
		for _, name := range names {
			if match {
				break
			}
			match = strings.Contains(headline, name)
		}
		if match {
			out = append(out, item)
		}
	}
	return out
}

// Documents tags news headlines, forum titles and stream bodies with their source.
func Documents(news []model.NewsItem, forum, stream []model.SocialPost) []model.TextDocument {
	docs := make([]model.TextDocument, 0, len(news)+len(forum)+len(stream))
	for _, n := range news {
		docs = append(docs, model.TextDocument{SourceID: model.SourceNews, Text: n.Headline})
	}
	for _, p := range forum {
		docs = append(docs, model.TextDocument{SourceID: model.SourceSocialForum, Text: p.Title})
	}
	for _, p := range stream {
		docs = append(docs, model.TextDocument{SourceID: model.SourceSocialStream, Text: p.Body})
	}
	return docs
}

// normalizeCandles sorts by time ascending and drops repeated timestamps.
func normalizeCandles(candles []model.Candle) []model.Candle {
	sort.SliceStable(candles, func(i, j int) bool { return candles[i].Time.Before(candles[j].Time) })
	out := candles[:0]
	for i, c := range candles {
		if i > 0 && c.Time.Equal(out[len(out)-1].Time) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func normalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
