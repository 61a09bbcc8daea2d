package calculator

import "StockPulse/internal/model"

// EMA computes the exponential moving average of prices with smoothing 2/(period+1).
// The first value is seeded from prices[0] rather than an SMA of the first period
// points, so the output is always the same length as the input. An empty input or a
// non-positive period yields an empty slice.
func EMA(prices []float64, period int) []float64 {
	if len(prices) == 0 || period < 1 {
		return []float64{}
	}
	k := 2.0 / float64(period+1)
	out := make([]float64, len(prices))
	out[0] = prices[0]
	for i := 1; i < len(prices); i++ {
		out[i] = prices[i]*k + out[i-1]*(1-k)
	}
	return out
}

// EMASet computes the EMA for every supported period.
func EMASet(closes []float64) map[model.EMAPeriod]model.Indicator {
	set := make(map[model.EMAPeriod]model.Indicator, len(model.EMAPeriods))
	for _, p := range model.EMAPeriods {
		set[p] = model.NewIndicator(EMA(closes, int(p)))
	}
	return set
}
