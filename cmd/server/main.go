package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StockPulse/internal/api"
	"StockPulse/internal/collector"
	"StockPulse/internal/config"
	"StockPulse/internal/notifier"
	"StockPulse/internal/recorder"
	"StockPulse/internal/scheduler"

	"github.com/gin-gonic/gin"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] StockPulse starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	mock := os.Getenv("MOCK_DATA") == "true"
	if !mock {
		if err := cfg.Validate(); err != nil {
			log.Fatalf("[FATAL] config validation: %v", err)
		}
	}

	col := newCollector(cfg, mock)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Telegram notifier
	var tn *notifier.TelegramNotifier
	var messenger scheduler.Messenger
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		messenger = tn
	} else {
		log.Println("[INFO] Telegram not configured, notifications disabled")
	}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, rec, messenger, cfg.Schedule.Watchlist)
	if err := sched.RegisterAll(cfg.Schedule.RefreshCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, refreshing watchlist now")
		go sched.RefreshWatchlist(ctx)
	}

	// HTTP API
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.NewHandler(col, rec), cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("[INFO] HTTP API listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	log.Println("[INFO] StockPulse is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	log.Println("[INFO] StockPulse stopped")
}

// newCollector wires the upstream fetchers selected by cfg.
func newCollector(cfg *config.Config, mock bool) *collector.Collector {
	if mock {
		log.Println("[WARN] MOCK_DATA enabled, serving generated data")
		m := &collector.MockFetcher{Price: 100}
		return collector.NewCollector(m, m, m, m, m, cfg.Providers.NewsLookbackDays)
	}

	finnhub := collector.NewFinnhubClient(cfg.Providers.FinnhubAPIKey, cfg.Proxy)

	var candles collector.CandleFetcher
	if cfg.Providers.PolygonAPIKey != "" {
		candles = collector.NewPolygonFetcher(cfg.Providers.PolygonAPIKey, cfg.Proxy)
	} else {
		candles = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] candle source: %s", candles.Name())

	forum := collector.NewRedditFetcher(cfg.Social.Subreddits, cfg.Social.RedditLimit, cfg.Social.MaxForumPosts, cfg.Proxy)
	stream := collector.NewStocktwitsFetcher(cfg.Proxy)

	return collector.NewCollector(finnhub, finnhub, candles, forum, stream, cfg.Providers.NewsLookbackDays)
}
