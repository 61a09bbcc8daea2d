package calculator

import "StockPulse/internal/model"

// ComputeIndicators runs the full indicator pipeline over a price series.
// Short or empty series never fail: unavailable indicators carry a nil Value
// and an empty Series, and the trend is nil.
func ComputeIndicators(series model.PriceSeries) model.IndicatorSet {
	closes := series.Closes()
	emas := EMASet(closes)
	line, signal := MACD(closes)

	return model.IndicatorSet{
		EMA:        emas,
		MACD:       model.NewIndicator(line),
		MACDSignal: model.NewIndicator(signal),
		OBV:        model.NewIndicator(OBV(series.Candles)),
		Trend: Trend(
			emas[model.EMA9].Value,
			emas[model.EMA21].Value,
			emas[model.EMA34].Value,
			emas[model.EMA50].Value,
		),
	}
}
