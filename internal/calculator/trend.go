package calculator

import "StockPulse/internal/model"

// Trend tags the EMA 9/21/34/50 ladder. It returns nil unless all four are defined.
func Trend(ema9, ema21, ema34, ema50 *float64) *model.TrendAnnotation {
	if ema9 == nil || ema21 == nil || ema34 == nil || ema50 == nil {
		return nil
	}
	a, b, c, d := *ema9, *ema21, *ema34, *ema50
	switch {
	case a > b && b > c && c > d:
		return &model.TrendAnnotation{
			Label:    model.TrendBullish,
			Polarity: 1,
			Message:  "Bullish trend: EMA values decreasing smoothly",
			Color:    "green",
		}
	case a < b && b < c && c < d:
		return &model.TrendAnnotation{
			Label:    model.TrendBearish,
			Polarity: -1,
			Message:  "Bearish trend: EMA values increasing smoothly",
			Color:    "red",
		}
	default:
		return &model.TrendAnnotation{
			Label:    model.TrendNeutral,
			Polarity: 0,
			Message:  "Neutral trend: EMAs are mixed, show caution",
			Color:    "orange",
		}
	}
}

// MACDMomentum compares the latest MACD and signal values.
// It returns nil when either value is unavailable.
func MACDMomentum(set model.IndicatorSet) *model.Momentum {
	if set.MACD.Value == nil || set.MACDSignal.Value == nil {
		return nil
	}
	diff := *set.MACD.Value - *set.MACDSignal.Value
	switch {
	case diff > 0:
		return &model.Momentum{Label: model.TrendBullish, Diff: diff, Description: "Bullish crossover: momentum is rising."}
	case diff < 0:
		return &model.Momentum{Label: model.TrendBearish, Diff: diff, Description: "Bearish crossover: momentum is falling."}
	default:
		return &model.Momentum{Label: model.TrendNeutral, Diff: 0, Description: "MACD and Signal are equal."}
	}
}
