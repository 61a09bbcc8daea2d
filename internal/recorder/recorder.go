package recorder

import (
	"time"

	"github.com/google/uuid"

	"StockPulse/internal/model"
)

// Snapshot is the persisted headline view of one Report.
type Snapshot struct {
	ID             string           `json:"id"`
	Ticker         string           `json:"ticker"`
	Timestamp      time.Time        `json:"timestamp"`
	Price          float64          `json:"price"`
	LastClose      *float64         `json:"lastClose"`
	EMA            map[int]*float64 `json:"ema"`
	MACD           *float64         `json:"macd"`
	MACDSignal     *float64         `json:"macdSignal"`
	OBV            *float64         `json:"obv"`
	Trend          string           `json:"trend"`
	SentimentScore float64          `json:"sentimentScore"`
	SentimentLabel string           `json:"sentimentLabel"`
	NewsCount      int              `json:"newsCount"`
	ForumCount     int              `json:"forumCount"`
	StreamCount    int              `json:"streamCount"`
}

// NewSnapshot extracts the latest scalars from a report.
func NewSnapshot(r *model.Report) *Snapshot {
	s := &Snapshot{
		ID:             uuid.NewString(),
		Ticker:         r.Ticker,
		Timestamp:      r.FetchedAt,
		EMA:            make(map[int]*float64, len(model.EMAPeriods)),
		MACD:           r.Indicators.MACD.Value,
		MACDSignal:     r.Indicators.MACDSignal.Value,
		OBV:            r.Indicators.OBV.Value,
		SentimentScore: r.Sentiment.Combined.Score,
		SentimentLabel: string(r.Sentiment.Combined.Label),
		NewsCount:      r.Sentiment.Source(model.SourceNews).Count,
		ForumCount:     r.Sentiment.Source(model.SourceSocialForum).Count,
		StreamCount:    r.Sentiment.Source(model.SourceSocialStream).Count,
	}
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now()
	}
	if r.Quote != nil {
		s.Price = r.Quote.Current
	}
	if n := len(r.Candles); n > 0 {
		c := r.Candles[n-1].Close
		s.LastClose = &c
	}
	for _, p := range model.EMAPeriods {
		s.EMA[int(p)] = r.Indicators.EMA[p].Value
	}
	if r.Indicators.Trend != nil {
		s.Trend = string(r.Indicators.Trend.Label)
	}
	return s
}

// Recorder persists historical snapshots for analysis.
type Recorder interface {
	RecordSnapshot(snap *Snapshot) error
	RecentSnapshots(ticker string, limit int) ([]Snapshot, error)
	Close() error
}
