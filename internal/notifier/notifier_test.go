package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"StockPulse/internal/model"
	"StockPulse/internal/recorder"
)

func ptr(v float64) *float64 { return &v }

func sampleReport() *model.Report {
	set := model.IndicatorSet{EMA: map[model.EMAPeriod]model.Indicator{}}
	for _, p := range model.EMAPeriods {
		set.EMA[p] = model.NewIndicator([]float64{100 + float64(p)})
	}
	set.EMA[model.EMA200] = model.NewIndicator(nil)
	set.MACD = model.NewIndicator([]float64{1.5})
	set.MACDSignal = model.NewIndicator([]float64{1.0})
	set.OBV = model.NewIndicator([]float64{2500000})
	set.Trend = &model.TrendAnnotation{Label: model.TrendBullish, Polarity: 1, Message: "EMA values decreasing smoothly"}

	return &model.Report{
		Ticker:     "AAPL",
		Quote:      &model.Quote{Current: 210.5, Change: 1.25, PercentChange: 0.6, High: 212, Low: 208, PreviousClose: 209.25},
		YTD:        &model.YTDStats{PriceOnJan1: 200, YearHigh: 215, YearLow: 190, LatestClose: 210, GrowthPct: ptr(5)},
		Indicators: set,
		Momentum:   &model.Momentum{Label: model.TrendBullish, Diff: 0.5, Description: "momentum is rising"},
		Sentiment: model.SentimentReport{
			Sources: []model.SourceSentimentSummary{
				{Source: model.SourceNews, Count: 4, BullishCount: 3, NeutralCount: 1, AverageScore: 1.75},
				{Source: model.SourceSocialForum},
				{Source: model.SourceSocialStream, Count: 2, BearishCount: 1, NeutralCount: 1, AverageScore: -0.5},
			},
			Combined: model.CombinedSentimentVerdict{Score: 1, Label: model.MildlyBullish, TotalDocuments: 6},
		},
		FetchedAt: time.Date(2025, 3, 14, 16, 30, 0, 0, time.UTC),
	}
}

func TestFormatReport(t *testing.T) {
	msg := FormatReport(sampleReport())

	wants := []string{
		"<b>AAPL</b> | 2025-03-14 16:30",
		"Price: 210.50 (+1.25, +0.60%)",
		"YTD: 200.00 → 210.00 (+5.00%)",
		"EMA9: 109.00",
		"EMA200: N/A",
		"MACD: 1.50 | Signal: 1.00",
		"Momentum: momentum is rising (+0.500)",
		"OBV: 2.50M",
		"Trend: 🟢 bullish, EMA values decreasing smoothly",
		"News: 4 docs, avg +1.75",
		"Reddit: no data",
		"Stocktwits: 2 docs, avg -0.50",
		"Verdict: <b>mildly bullish</b> (+1.00 over 6 docs)",
	}
	for _, w := range wants {
		if !strings.Contains(msg, w) {
			t.Errorf("report missing %q\n%s", w, msg)
		}
	}
}

func TestFormatReport_EmptyIndicators(t *testing.T) {
	r := &model.Report{Ticker: "NEW", Indicators: model.IndicatorSet{EMA: map[model.EMAPeriod]model.Indicator{}}}
	msg := FormatReport(r)
	for _, w := range []string{"EMA9: N/A", "MACD: N/A | Signal: N/A", "OBV: N/A", "Trend: N/A", "Verdict: <b></b>"} {
		if !strings.Contains(msg, w) {
			t.Errorf("report missing %q\n%s", w, msg)
		}
	}
	if strings.Contains(msg, "Price:") || strings.Contains(msg, "YTD:") {
		t.Errorf("expected no price lines without quote\n%s", msg)
	}
}

func TestFormatVolume(t *testing.T) {
	tests := []struct {
		in   *float64
		want string
	}{
		{nil, "N/A"},
		{ptr(950), "950"},
		{ptr(-1500), "-1.50K"},
		{ptr(3.2e9), "3.20B"},
	}
	for _, tt := range tests {
		if got := formatVolume(tt.in); got != tt.want {
			t.Errorf("formatVolume() = %q, want %q", got, tt.want)
		}
	}
}

func TestFormatHistory(t *testing.T) {
	if got := FormatHistory("AAPL", nil); got != "No history recorded for AAPL" {
		t.Errorf("unexpected empty history: %q", got)
	}
	snaps := []recorder.Snapshot{{
		Timestamp:      time.Date(2025, 3, 14, 22, 0, 0, 0, time.UTC),
		Price:          210.5,
		SentimentScore: -1.25,
		SentimentLabel: "strongly bearish",
	}}
	got := FormatHistory("AAPL", snaps)
	if !strings.Contains(got, "2025-03-14 22:00  210.50  trend n/a  sentiment -1.25 (strongly bearish)") {
		t.Errorf("unexpected history:\n%s", got)
	}
}

func TestSend(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/botTOKEN/sendMessage" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "")
	tn.BaseURL = srv.URL
	if err := tn.SendWithRetry(context.Background(), "hello", 0); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got["chat_id"] != "42" || got["text"] != "hello" || got["parse_mode"] != "HTML" {
		t.Errorf("unexpected payload: %v", got)
	}
}

func TestSendWithRetry_Exhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "")
	tn.BaseURL = srv.URL
	err := tn.SendWithRetry(context.Background(), "hello", 0)
	if err == nil || !strings.Contains(err.Error(), "status 401") {
		t.Errorf("expected wrapped 401 error, got %v", err)
	}
}

func TestDispatch(t *testing.T) {
	var sent []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p map[string]string
		json.NewDecoder(r.Body).Decode(&p)
		sent = append(sent, p["text"])
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "")
	tn.BaseURL = srv.URL

	var updates []telegramUpdate
	body := `[
		{"update_id": 10, "message": {"text": " /report aapl ", "chat": {"id": 42}}},
		{"update_id": 11, "message": {"text": "/report MSFT", "chat": {"id": 7}}},
		{"update_id": 12},
		{"update_id": 13, "message": {"text": "/silent", "chat": {"id": 42}}}
	]`
	if err := json.Unmarshal([]byte(body), &updates); err != nil {
		t.Fatalf("decode updates: %v", err)
	}

	var handled []string
	handler := func(_ context.Context, cmd string) string {
		handled = append(handled, cmd)
		if cmd == "/silent" {
			return ""
		}
		return "reply to " + cmd
	}

	offset := tn.dispatch(context.Background(), updates, 0, handler)
	if offset != 14 {
		t.Errorf("expected offset 14, got %d", offset)
	}
	if len(handled) != 2 || handled[0] != "/report aapl" || handled[1] != "/silent" {
		t.Errorf("unexpected handled commands: %v", handled)
	}
	if len(sent) != 1 || sent[0] != "reply to /report aapl" {
		t.Errorf("unexpected replies: %v", sent)
	}
}

func TestTruncateHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short", "ab€", 10, "ab€"},
		{"multibyte rune", "ab€", 4, "ab"},
		{"inside tag", "ab<b>x</b>", 4, "ab"},
		{"inside entity", "a &amp; b", 4, "a "},
		{"open tag closed", "<b>hello world</b>", 10, "<b>hel</b>"},
		{"nested", "<b><i>abcdef</i></b>", 16, "<b><i>ab</i></b>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateHTML(tt.in, tt.n)
			if got != tt.want {
				t.Errorf("truncateHTML(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
			if len(got) > tt.n {
				t.Errorf("result %q exceeds %d bytes", got, tt.n)
			}
		})
	}
}
