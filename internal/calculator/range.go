package calculator

import (
	"math"

	"StockPulse/internal/model"
)

// ComputeYTD scans a year-to-date daily series for its opening close, range and growth.
// Returns nil for an empty series.
func ComputeYTD(candles []model.Candle) *model.YTDStats {
	if len(candles) == 0 {
		return nil
	}
	high := math.Inf(-1)
	low := math.Inf(1)
	for _, c := range candles {
		if c.High > high {
			high = c.High
		}
		if c.Low < low {
			low = c.Low
		}
	}
	stats := &model.YTDStats{
		PriceOnJan1: candles[0].Close,
		YearHigh:    high,
		YearLow:     low,
		LatestClose: candles[len(candles)-1].Close,
	}
	if stats.PriceOnJan1 != 0 {
		g := (stats.LatestClose - stats.PriceOnJan1) / stats.PriceOnJan1 * 100
		stats.GrowthPct = &g
	}
	return stats
}
