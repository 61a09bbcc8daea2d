package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"StockPulse/internal/collector"
	"StockPulse/internal/model"
	"StockPulse/internal/recorder"

	"github.com/gin-gonic/gin"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

// ReportSource produces reports for the HTTP API.
type ReportSource interface {
	Collect(ctx context.Context, ticker string) (*model.Report, error)
	CollectSentiment(ctx context.Context, ticker string) (*model.SentimentReport, error)
}

type Handler struct {
	source   ReportSource
	recorder recorder.Recorder
}

func NewHandler(source ReportSource, rec recorder.Recorder) *Handler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Handler{source: source, recorder: rec}
}

type sentimentRequest struct {
	Ticker string `json:"ticker"`
}

// GetBasic returns the full report for ?ticker= and records a snapshot.
func (h *Handler) GetBasic(c *gin.Context) {
	ticker := strings.TrimSpace(c.Query("ticker"))
	if ticker == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing ticker"})
		return
	}

	report, err := h.source.Collect(c.Request.Context(), ticker)
	if err != nil {
		writeFetchError(c, ticker, err)
		return
	}

	if err := h.recorder.RecordSnapshot(recorder.NewSnapshot(report)); err != nil {
		log.Printf("[ERROR] record snapshot %s: %v", report.Ticker, err)
	}

	c.JSON(http.StatusOK, report)
}

// PostSentiment returns the social sentiment report for the JSON body ticker.
func (h *Handler) PostSentiment(c *gin.Context) {
	var req sentimentRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Ticker) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing ticker"})
		return
	}

	report, err := h.source.CollectSentiment(c.Request.Context(), req.Ticker)
	if err != nil {
		writeFetchError(c, req.Ticker, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetHistory returns recorded snapshots, newest first.
func (h *Handler) GetHistory(c *gin.Context) {
	ticker := strings.ToUpper(strings.TrimSpace(c.Query("ticker")))
	if ticker == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing ticker"})
		return
	}
	limit := getLimit(c)

	snaps, err := h.recorder.RecentSnapshots(ticker, limit)
	if err != nil {
		log.Printf("[ERROR] load history %s: %v", ticker, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ticker":    ticker,
		"limit":     limit,
		"snapshots": snaps,
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func writeFetchError(c *gin.Context, ticker string, err error) {
	switch {
	case errors.Is(err, collector.ErrTickerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticker not found"})
	case errors.Is(err, collector.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
	default:
		log.Printf("[ERROR] fetch %s: %v", ticker, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch data"})
	}
}

func getQueryInt(name string, defaultValue int, c *gin.Context) int {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("[WARN] invalid query parameter %s=%q, using default %d", name, raw, defaultValue)
		return defaultValue
	}
	return v
}

func getLimit(c *gin.Context) int {
	limit := getQueryInt("limit", defaultHistoryLimit, c)
	if limit < 1 {
		return defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		return maxHistoryLimit
	}
	return limit
}
