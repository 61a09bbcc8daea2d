package notifier

import (
	"fmt"
	"html"
	"strings"

	"StockPulse/internal/model"
	"StockPulse/internal/recorder"
)

var sourceTitles = map[model.SourceID]string{
	model.SourceNews:         "News",
	model.SourceSocialForum:  "Reddit",
	model.SourceSocialStream: "Stocktwits",
}

// FormatReport formats a collected report into a Telegram message.
func FormatReport(r *model.Report) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s\n\n", html.EscapeString(r.Ticker), r.FetchedAt.Format("2006-01-02 15:04")))

	// Price
	if q := r.Quote; q != nil {
		b.WriteString(fmt.Sprintf("Price: %.2f (%+.2f, %+.2f%%)\n", q.Current, q.Change, q.PercentChange))
		b.WriteString(fmt.Sprintf("Day range: %.2f - %.2f | Prev close: %.2f\n", q.Low, q.High, q.PreviousClose))
	}
	if y := r.YTD; y != nil {
		b.WriteString(fmt.Sprintf("YTD: %.2f → %.2f (%s) | High %.2f | Low %.2f\n",
			y.PriceOnJan1, y.LatestClose, formatPct(y.GrowthPct), y.YearHigh, y.YearLow))
	}
	b.WriteString("\n")

	// Indicators
	set := r.Indicators
	b.WriteString("📈 <b>Technical analysis</b>\n")
	for _, p := range model.EMAPeriods {
		b.WriteString(fmt.Sprintf("  EMA%d: %s\n", p, formatValue(set.EMA[p].Value)))
	}
	b.WriteString(fmt.Sprintf("  MACD: %s | Signal: %s\n", formatValue(set.MACD.Value), formatValue(set.MACDSignal.Value)))
	if m := r.Momentum; m != nil {
		b.WriteString(fmt.Sprintf("  Momentum: %s (%+.3f)\n", m.Description, m.Diff))
	}
	b.WriteString(fmt.Sprintf("  OBV: %s\n", formatVolume(set.OBV.Value)))
	if t := set.Trend; t != nil {
		b.WriteString(fmt.Sprintf("  Trend: %s %s, %s\n", trendIcon(t.Polarity), t.Label, t.Message))
	} else {
		b.WriteString("  Trend: N/A\n")
	}
	b.WriteString("\n")

	// Sentiment
	b.WriteString("🗣 <b>Sentiment</b>\n")
	for _, id := range model.Sources {
		s := r.Sentiment.Source(id)
		if s.Count == 0 {
			b.WriteString(fmt.Sprintf("  %s: no data\n", sourceTitles[id]))
			continue
		}
		b.WriteString(fmt.Sprintf("  %s: %d docs, avg %+.2f (🟢%d 🔴%d ⚪%d)\n",
			sourceTitles[id], s.Count, s.AverageScore, s.BullishCount, s.BearishCount, s.NeutralCount))
	}
	c := r.Sentiment.Combined
	b.WriteString("  ─────────────────\n")
	b.WriteString(fmt.Sprintf("  Verdict: <b>%s</b> (%+.2f over %d docs)\n", c.Label, c.Score, c.TotalDocuments))

	return b.String()
}

// FormatHistory formats recorded snapshots, newest first.
func FormatHistory(ticker string, snaps []recorder.Snapshot) string {
	if len(snaps) == 0 {
		return fmt.Sprintf("No history recorded for %s", html.EscapeString(ticker))
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🗂 <b>%s history</b>\n\n", html.EscapeString(ticker)))
	for _, s := range snaps {
		trend := s.Trend
		if trend == "" {
			trend = "n/a"
		}
		b.WriteString(fmt.Sprintf("%s  %.2f  trend %s  sentiment %+.2f (%s)\n",
			s.Timestamp.Format("2006-01-02 15:04"), s.Price, trend, s.SentimentScore, s.SentimentLabel))
	}
	return b.String()
}

func formatValue(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *v)
}

func formatPct(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%+.2f%%", *v)
}

// formatVolume abbreviates large OBV values.
func formatVolume(v *float64) string {
	if v == nil {
		return "N/A"
	}
	abs := *v
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 1e9:
		return fmt.Sprintf("%.2fB", *v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%.2fM", *v/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%.2fK", *v/1e3)
	default:
		return fmt.Sprintf("%.0f", *v)
	}
}

func trendIcon(polarity int) string {
	switch {
	case polarity > 0:
		return "🟢"
	case polarity < 0:
		return "🔴"
	default:
		return "🟠"
	}
}
