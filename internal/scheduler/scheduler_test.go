package scheduler

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"StockPulse/internal/collector"
	"StockPulse/internal/model"
	"StockPulse/internal/recorder"
)

type fakeCollector struct {
	errs  map[string]error
	calls []string
}

func (f *fakeCollector) Collect(_ context.Context, ticker string) (*model.Report, error) {
	ticker = strings.ToUpper(ticker)
	f.calls = append(f.calls, ticker)
	if err := f.errs[ticker]; err != nil {
		return nil, err
	}
	return &model.Report{
		Ticker:     ticker,
		Quote:      &model.Quote{Current: 100},
		Indicators: model.IndicatorSet{EMA: map[model.EMAPeriod]model.Indicator{}},
		FetchedAt:  time.Date(2025, 3, 14, 22, 0, 0, 0, time.UTC),
	}, nil
}

type fakeMessenger struct{ sent []string }

func (f *fakeMessenger) SendWithRetry(_ context.Context, text string, _ int) error {
	f.sent = append(f.sent, text)
	return nil
}

type memRecorder struct{ snaps []recorder.Snapshot }

func (m *memRecorder) RecordSnapshot(s *recorder.Snapshot) error {
	m.snaps = append(m.snaps, *s)
	return nil
}

func (m *memRecorder) RecentSnapshots(ticker string, limit int) ([]recorder.Snapshot, error) {
	out := []recorder.Snapshot{}
	for i := len(m.snaps) - 1; i >= 0 && len(out) < limit; i-- {
		if m.snaps[i].Ticker == ticker {
			out = append(out, m.snaps[i])
		}
	}
	return out, nil
}

func (m *memRecorder) Close() error { return nil }

func newTestScheduler(watchlist ...string) (*Scheduler, *fakeCollector, *fakeMessenger, *memRecorder) {
	col := &fakeCollector{errs: map[string]error{
		"ZZZZ": fmt.Errorf("fetch quote: %w", collector.ErrTickerNotFound),
		"LIMT": fmt.Errorf("fetch quote: %w", collector.ErrRateLimited),
	}}
	msg := &fakeMessenger{}
	rec := &memRecorder{}
	return NewScheduler(context.Background(), col, rec, msg, watchlist), col, msg, rec
}

func TestRegisterAll(t *testing.T) {
	s, _, _, _ := newTestScheduler()
	if err := s.RegisterAll("0 0 22 * * 1-5"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := s.RegisterAll("not a cron"); err == nil {
		t.Error("expected error for invalid cron spec")
	}
	if got := len(s.Cron.Entries()); got != 1 {
		t.Errorf("expected 1 entry, got %d", got)
	}
}

func TestRefreshWatchlist(t *testing.T) {
	s, col, msg, rec := newTestScheduler("AAPL", "ZZZZ", "MSFT")

	if n := s.RefreshWatchlist(context.Background()); n != 2 {
		t.Errorf("expected 2 refreshed, got %d", n)
	}
	if len(col.calls) != 3 {
		t.Errorf("expected 3 collect calls, got %v", col.calls)
	}
	if len(rec.snaps) != 2 || rec.snaps[0].Ticker != "AAPL" || rec.snaps[1].Ticker != "MSFT" {
		t.Errorf("unexpected snapshots: %+v", rec.snaps)
	}
	if len(msg.sent) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msg.sent))
	}
	if !strings.Contains(msg.sent[0], "<b>AAPL</b>") {
		t.Errorf("expected AAPL report, got %q", msg.sent[0])
	}
	if !strings.HasPrefix(msg.sent[1], "❌ Failed to refresh ZZZZ") {
		t.Errorf("expected failure message, got %q", msg.sent[1])
	}
}

func TestRefreshWatchlist_Empty(t *testing.T) {
	s, col, msg, _ := newTestScheduler()
	if n := s.RefreshWatchlist(context.Background()); n != 0 {
		t.Errorf("expected 0, got %d", n)
	}
	if len(col.calls) != 0 || len(msg.sent) != 0 {
		t.Error("expected no work for an empty watchlist")
	}
}

func TestRefreshWatchlist_NilNotifier(t *testing.T) {
	col := &fakeCollector{}
	s := NewScheduler(context.Background(), col, nil, nil, []string{"AAPL"})
	if n := s.RefreshWatchlist(context.Background()); n != 1 {
		t.Errorf("expected 1, got %d", n)
	}
}

func TestHandleCommand(t *testing.T) {
	s, _, _, _ := newTestScheduler("AAPL")

	tests := []struct {
		cmd  string
		want string
	}{
		{"/report aapl", "<b>AAPL</b>"},
		{"/report@StockPulseBot msft", "<b>MSFT</b>"},
		{"/report", "Usage: /report TICKER"},
		{"/report zzzz", "Ticker ZZZZ not found"},
		{"/report limt", "Rate limit exceeded"},
		{"/history", "Usage: /history TICKER"},
		{"/history aapl", "AAPL history"},
		{"/history tsla", "No history recorded for TSLA"},
		{"/watchlist", "Watchlist refreshed: 1/1 tickers"},
		{"hello", "Available commands"},
		{"", "Available commands"},
	}
	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			got := s.HandleCommand(context.Background(), tt.cmd)
			if !strings.Contains(got, tt.want) {
				t.Errorf("HandleCommand(%q) = %q, want it to contain %q", tt.cmd, got, tt.want)
			}
		})
	}
}

func TestHandleCommand_EmptyWatchlist(t *testing.T) {
	s, _, _, _ := newTestScheduler()
	if got := s.HandleCommand(context.Background(), "/watchlist"); got != "Watchlist is empty" {
		t.Errorf("unexpected reply: %q", got)
	}
}

func TestErrorRepliesAreEscaped(t *testing.T) {
	s, col, msg, _ := newTestScheduler("BADX")
	col.errs["BADX"] = fmt.Errorf("finnhub quote: status 502, body: <html>Bad Gateway</html>")
	col.errs["<X"] = fmt.Errorf("bad symbol <x>")

	got := s.HandleCommand(context.Background(), "/report BADX")
	if strings.Contains(got, "<html>") || !strings.Contains(got, "&lt;html&gt;Bad Gateway&lt;/html&gt;") {
		t.Errorf("expected escaped error body, got %q", got)
	}

	got = s.HandleCommand(context.Background(), "/report <x")
	if strings.Contains(got, "<") || !strings.Contains(got, "Failed to fetch &lt;X") {
		t.Errorf("expected escaped ticker, got %q", got)
	}

	s.RefreshWatchlist(context.Background())
	if len(msg.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msg.sent))
	}
	if strings.Contains(msg.sent[0], "<html>") || !strings.Contains(msg.sent[0], "&lt;html&gt;") {
		t.Errorf("expected escaped refresh failure, got %q", msg.sent[0])
	}
}
