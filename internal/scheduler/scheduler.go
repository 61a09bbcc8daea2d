package scheduler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"strings"

	"StockPulse/internal/collector"
	"StockPulse/internal/model"
	"StockPulse/internal/notifier"
	"StockPulse/internal/recorder"

	"github.com/robfig/cron/v3"
)

const (
	sendRetries  = 3
	historyLimit = 5
)

const helpText = "Available commands:\n" +
	"• /report TICKER\n" +
	"• /history TICKER\n" +
	"• /watchlist"

// ReportCollector builds a full report for one ticker.
type ReportCollector interface {
	Collect(ctx context.Context, ticker string) (*model.Report, error)
}

// Messenger delivers formatted messages.
type Messenger interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages the watchlist refresh task and chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector ReportCollector
	Recorder  recorder.Recorder
	Notifier  Messenger // nil disables delivery
	Watchlist []string
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col ReportCollector, rec recorder.Recorder, n Messenger, watchlist []string) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Recorder:  rec,
		Notifier:  n,
		Watchlist: watchlist,
		Ctx:       ctx,
	}
}

// RegisterAll registers the watchlist refresh task.
func (s *Scheduler) RegisterAll(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

func (s *Scheduler) refreshTask() {
	s.RefreshWatchlist(s.Ctx)
}

// RefreshWatchlist collects, records and delivers a report for every watched ticker.
// It returns the number of tickers refreshed successfully.
func (s *Scheduler) RefreshWatchlist(ctx context.Context) int {
	if len(s.Watchlist) == 0 {
		log.Println("[WARN] watchlist is empty, nothing to refresh")
		return 0
	}
	log.Printf("[INFO] refreshing watchlist: %s", strings.Join(s.Watchlist, ","))

	ok := 0
	for _, ticker := range s.Watchlist {
		if ctx.Err() != nil {
			break
		}
		report, err := s.refresh(ctx, ticker)
		if err != nil {
			log.Printf("[ERROR] refresh %s: %v", ticker, err)
			s.trySend(ctx, fmt.Sprintf("❌ Failed to refresh %s: %s", html.EscapeString(ticker), html.EscapeString(err.Error())))
			continue
		}
		s.trySend(ctx, notifier.FormatReport(report))
		ok++
	}
	return ok
}

// refresh collects a report and records its snapshot.
func (s *Scheduler) refresh(ctx context.Context, ticker string) (*model.Report, error) {
	report, err := s.Collector.Collect(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if err := s.Recorder.RecordSnapshot(recorder.NewSnapshot(report)); err != nil {
		log.Printf("[ERROR] record snapshot %s: %v", report.Ticker, err)
	}
	return report, nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	// Group chats append the bot name: /report@StockPulseBot AAPL
	name, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")
	args := fields[1:]

	switch name {
	case "/report":
		if len(args) == 0 {
			return "Usage: /report TICKER"
		}
		report, err := s.refresh(ctx, args[0])
		if err != nil {
			return describeError(strings.ToUpper(args[0]), err)
		}
		return notifier.FormatReport(report)
	case "/history":
		if len(args) == 0 {
			return "Usage: /history TICKER"
		}
		ticker := strings.ToUpper(args[0])
		snaps, err := s.Recorder.RecentSnapshots(ticker, historyLimit)
		if err != nil {
			log.Printf("[ERROR] load history %s: %v", ticker, err)
			return fmt.Sprintf("Failed to load history for %s", html.EscapeString(ticker))
		}
		return notifier.FormatHistory(ticker, snaps)
	case "/watchlist":
		if len(s.Watchlist) == 0 {
			return "Watchlist is empty"
		}
		n := s.RefreshWatchlist(ctx)
		return fmt.Sprintf("Watchlist refreshed: %d/%d tickers", n, len(s.Watchlist))
	default:
		return helpText
	}
}

// describeError renders err for an HTML-mode chat reply.
func describeError(ticker string, err error) string {
	ticker = html.EscapeString(ticker)
	switch {
	case errors.Is(err, collector.ErrTickerNotFound):
		return fmt.Sprintf("Ticker %s not found", ticker)
	case errors.Is(err, collector.ErrRateLimited):
		return "Rate limit exceeded, try again later"
	default:
		return fmt.Sprintf("Failed to fetch %s: %s", ticker, html.EscapeString(err.Error()))
	}
}

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(ctx, text, sendRetries); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
