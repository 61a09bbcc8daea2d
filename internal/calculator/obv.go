package calculator

import "StockPulse/internal/model"

// OBV accumulates on-balance volume starting at 0 from the second candle.
// The history has one element per candle after the first.
func OBV(candles []model.Candle) []float64 {
	if len(candles) < 2 {
		return []float64{}
	}
	history := make([]float64, 0, len(candles)-1)
	obv := 0.0
	for i := 1; i < len(candles); i++ {
		switch {
		case candles[i].Close > candles[i-1].Close:
			obv += candles[i].Volume
		case candles[i].Close < candles[i-1].Close:
			obv -= candles[i].Volume
		}
		history = append(history, obv)
	}
	return history
}
