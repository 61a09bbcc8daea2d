package model

// EMAPeriod is one of the supported EMA lookback periods.
type EMAPeriod int

const (
	EMA9   EMAPeriod = 9
	EMA21  EMAPeriod = 21
	EMA34  EMAPeriod = 34
	EMA50  EMAPeriod = 50
	EMA100 EMAPeriod = 100
	EMA200 EMAPeriod = 200
)

// EMAPeriods lists the supported periods, shortest first.
var EMAPeriods = []EMAPeriod{EMA9, EMA21, EMA34, EMA50, EMA100, EMA200}

// Indicator pairs the latest value with its full history.
// Value is nil when Series is empty; otherwise it equals the last element.
type Indicator struct {
	Value  *float64  `json:"value"`
	Series []float64 `json:"series"`
}

// NewIndicator builds an Indicator whose Value is the tail of series.
func NewIndicator(series []float64) Indicator {
	if series == nil {
		series = []float64{}
	}
	ind := Indicator{Series: series}
	if len(series) > 0 {
		v := series[len(series)-1]
		ind.Value = &v
	}
	return ind
}

// TrendLabel classifies the EMA ladder ordering.
type TrendLabel string

const (
	TrendBullish TrendLabel = "bullish"
	TrendBearish TrendLabel = "bearish"
	TrendNeutral TrendLabel = "neutral"
)

// TrendAnnotation is the categorical tag derived from EMA 9/21/34/50.
type TrendAnnotation struct {
	Label    TrendLabel `json:"label"`
	Polarity int        `json:"polarity"` // +1 bullish, -1 bearish, 0 neutral
	Message  string     `json:"message"`
	Color    string     `json:"color"`
}

// IndicatorSet is the read-only result of the indicator pipeline.
type IndicatorSet struct {
	EMA        map[EMAPeriod]Indicator `json:"ema"`
	MACD       Indicator               `json:"macd"`
	MACDSignal Indicator               `json:"macdSignal"`
	OBV        Indicator               `json:"obv"`
	Trend      *TrendAnnotation        `json:"trendAnnotation"`
}

// Momentum is the MACD versus signal interpretation.
type Momentum struct {
	Label       TrendLabel `json:"label"`
	Diff        float64    `json:"diff"`
	Description string     `json:"description"`
}

// YTDStats summarises year-to-date performance from daily candles.
type YTDStats struct {
	PriceOnJan1 float64  `json:"priceOnJan1"`
	YearHigh    float64  `json:"yearHigh"`
	YearLow     float64  `json:"yearLow"`
	LatestClose float64  `json:"latestClose"`
	GrowthPct   *float64 `json:"growthPct"`
}
