package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"StockPulse/internal/collector"
	"StockPulse/internal/model"
	"StockPulse/internal/recorder"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
)

type fakeSource struct {
	err     error
	tickers []string
}

func (f *fakeSource) Collect(_ context.Context, ticker string) (*model.Report, error) {
	f.tickers = append(f.tickers, ticker)
	if f.err != nil {
		return nil, f.err
	}
	return &model.Report{
		Ticker:     strings.ToUpper(ticker),
		Quote:      &model.Quote{Current: 150.25},
		Indicators: model.IndicatorSet{EMA: map[model.EMAPeriod]model.Indicator{}},
		FetchedAt:  time.Date(2025, 3, 14, 16, 0, 0, 0, time.UTC),
	}, nil
}

func (f *fakeSource) CollectSentiment(_ context.Context, ticker string) (*model.SentimentReport, error) {
	f.tickers = append(f.tickers, ticker)
	if f.err != nil {
		return nil, f.err
	}
	return &model.SentimentReport{
		Documents: []model.ScoredDocument{},
		Combined:  model.CombinedSentimentVerdict{Score: 2, Label: model.StronglyBullish, TotalDocuments: 1},
	}, nil
}

type fakeRecorder struct {
	recorded []*recorder.Snapshot
	history  []recorder.Snapshot
	err      error
	limit    int
}

func (f *fakeRecorder) RecordSnapshot(s *recorder.Snapshot) error {
	f.recorded = append(f.recorded, s)
	return f.err
}

func (f *fakeRecorder) RecentSnapshots(_ string, limit int) ([]recorder.Snapshot, error) {
	f.limit = limit
	return f.history, f.err
}

func (f *fakeRecorder) Close() error { return nil }

func newTestRouter(src ReportSource, rec recorder.Recorder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(NewHandler(src, rec), []string{"http://localhost:3000"})
}

func TestGetBasic_MissingTicker(t *testing.T) {
	r := newTestRouter(&fakeSource{}, &fakeRecorder{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/basic", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, `{"error":"Missing ticker"}`, w.Body.String())
}

func TestGetBasic_OK(t *testing.T) {
	src := &fakeSource{}
	rec := &fakeRecorder{}
	r := newTestRouter(src, rec)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/basic?ticker=aapl", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res model.Report
	json.Unmarshal(w.Body.Bytes(), &res)

	assert.Equal(t, "AAPL", res.Ticker)
	assert.Equal(t, 150.25, res.Quote.Current)
	assert.Equal(t, 1, len(rec.recorded))
	assert.Equal(t, "AAPL", rec.recorded[0].Ticker)
}

func TestGetBasic_RecordFailureStillOK(t *testing.T) {
	r := newTestRouter(&fakeSource{}, &fakeRecorder{err: errors.New("disk full")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/basic?ticker=MSFT", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetBasic_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", fmt.Errorf("fetch quote: %w", collector.ErrTickerNotFound), http.StatusNotFound},
		{"rate limited", fmt.Errorf("fetch candles: %w", collector.ErrRateLimited), http.StatusTooManyRequests},
		{"upstream down", errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecorder{}
			r := newTestRouter(&fakeSource{err: tt.err}, rec)

			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/api/basic?ticker=ZZZZ", nil)
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, 0, len(rec.recorded))
		})
	}
}

func TestPostSentiment(t *testing.T) {
	src := &fakeSource{}
	r := newTestRouter(src, &fakeRecorder{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/sentiment", strings.NewReader(`{"ticker":"TSLA"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res model.SentimentReport
	json.Unmarshal(w.Body.Bytes(), &res)

	assert.Equal(t, model.StronglyBullish, res.Combined.Label)
	assert.Equal(t, []string{"TSLA"}, src.tickers)
}

func TestPostSentiment_BadBody(t *testing.T) {
	for _, body := range []string{``, `{}`, `{"ticker":"  "}`, `not json`} {
		r := newTestRouter(&fakeSource{}, &fakeRecorder{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/sentiment", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestGetHistory(t *testing.T) {
	rec := &fakeRecorder{history: []recorder.Snapshot{{ID: "b", Ticker: "AAPL"}, {ID: "a", Ticker: "AAPL"}}}
	r := newTestRouter(&fakeSource{}, rec)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/history?ticker=aapl", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Ticker    string              `json:"ticker"`
		Limit     int                 `json:"limit"`
		Snapshots []recorder.Snapshot `json:"snapshots"`
	}
	json.Unmarshal(w.Body.Bytes(), &res)

	assert.Equal(t, "AAPL", res.Ticker)
	assert.Equal(t, defaultHistoryLimit, res.Limit)
	assert.Equal(t, 2, len(res.Snapshots))
	assert.Equal(t, "b", res.Snapshots[0].ID)
}

func TestGetHistory_Limit(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"limit=5", 5},
		{"limit=0", defaultHistoryLimit},
		{"limit=abc", defaultHistoryLimit},
		{"limit=1000", maxHistoryLimit},
	}
	for _, tt := range tests {
		rec := &fakeRecorder{}
		r := newTestRouter(&fakeSource{}, rec)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/history?ticker=AAPL&"+tt.query, nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, tt.want, rec.limit)
	}
}

func TestGetHistory_Errors(t *testing.T) {
	r := newTestRouter(&fakeSource{}, &fakeRecorder{err: errors.New("DB down")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/history?ticker=AAPL", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/api/history", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetHealth(t *testing.T) {
	r := newTestRouter(&fakeSource{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"status":"healthy"}`, w.Body.String())
}

func TestCORS(t *testing.T) {
	r := newTestRouter(&fakeSource{}, &fakeRecorder{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	r.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
