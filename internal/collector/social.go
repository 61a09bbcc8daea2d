package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"StockPulse/internal/model"
)

// RedditFetcher searches a set of subreddits for posts mentioning a ticker.
type RedditFetcher struct {
	BaseURL    string
	Subreddits []string
	Limit      int // per subreddit
	MaxPosts   int // after de-duplication
	Client     *http.Client
}

// NewRedditFetcher creates a Reddit search fetcher.
func NewRedditFetcher(subreddits []string, limit, maxPosts int, proxyURL string) *RedditFetcher {
	return &RedditFetcher{
		BaseURL:    "https://www.reddit.com",
		Subreddits: subreddits,
		Limit:      limit,
		MaxPosts:   maxPosts,
		Client:     newHTTPClient(proxyURL),
	}
}

func (f *RedditFetcher) Name() string { return "reddit" }

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				ID        string `json:"id"`
				Title     string `json:"title"`
				Selftext  string `json:"selftext"`
				Subreddit string `json:"subreddit"`
				Permalink string `json:"permalink"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// FetchPosts queries every subreddit; a failing subreddit is logged and skipped.
// Posts are de-duplicated by title, keeping the first occurrence.
func (f *RedditFetcher) FetchPosts(ctx context.Context, ticker string) ([]model.SocialPost, error) {
	var posts []model.SocialPost
	seen := make(map[string]bool)

	for _, sub := range f.Subreddits {
		q := url.Values{
			"q":           {"$" + ticker},
			"restrict_sr": {"1"},
			"limit":       {strconv.Itoa(f.Limit)},
		}
		endpoint := fmt.Sprintf("%s/r/%s/search.json?%s", f.BaseURL, url.PathEscape(sub), q.Encode())
		listing, err := f.search(ctx, endpoint)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("[WARN] reddit r/%s: %v", sub, err)
			continue
		}
		for _, child := range listing.Data.Children {
			d := child.Data
			if seen[d.Title] {
				continue
			}
			seen[d.Title] = true
			posts = append(posts, model.SocialPost{
				ID:        d.ID,
				Source:    f.Name(),
				Title:     d.Title,
				Body:      d.Selftext,
				Subreddit: d.Subreddit,
				URL:       "https://reddit.com" + d.Permalink,
			})
		}
	}

	if f.MaxPosts > 0 && len(posts) > f.MaxPosts {
		posts = posts[:f.MaxPosts]
	}
	return posts, nil
}

func (f *RedditFetcher) search(ctx context.Context, endpoint string) (*redditListing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "StockPulse/1.0")
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	var listing redditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &listing, nil
}

// StocktwitsFetcher reads the public symbol stream.
type StocktwitsFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewStocktwitsFetcher creates a Stocktwits stream fetcher.
func NewStocktwitsFetcher(proxyURL string) *StocktwitsFetcher {
	return &StocktwitsFetcher{
		BaseURL: "https://api.stocktwits.com",
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *StocktwitsFetcher) Name() string { return "stocktwits" }

type stocktwitsStream struct {
	Messages []struct {
		ID   int64  `json:"id"`
		Body string `json:"body"`
	} `json:"messages"`
}

func (f *StocktwitsFetcher) FetchPosts(ctx context.Context, ticker string) ([]model.SocialPost, error) {
	endpoint := fmt.Sprintf("%s/api/2/streams/symbol/%s.json", f.BaseURL, url.PathEscape(ticker))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stocktwits fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stocktwits: status %d", resp.StatusCode)
	}

	var stream stocktwitsStream
	if err := json.NewDecoder(resp.Body).Decode(&stream); err != nil {
		return nil, fmt.Errorf("stocktwits decode: %w", err)
	}
	posts := make([]model.SocialPost, 0, len(stream.Messages))
	for _, m := range stream.Messages {
		posts = append(posts, model.SocialPost{
			ID:     strconv.FormatInt(m.ID, 10),
			Source: f.Name(),
			Body:   m.Body,
		})
	}
	return posts, nil
}
