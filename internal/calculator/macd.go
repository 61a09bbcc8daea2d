package calculator

const (
	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9
)

// MACD returns the MACD line (EMA12 - EMA26) and its 9-period EMA signal line.
// Both EMAs span the full input, so the line is a pointwise difference aligned on the tail.
func MACD(closes []float64) (line, signal []float64) {
	fast := EMA(closes, macdFast)
	slow := EMA(closes, macdSlow)
	n := len(slow)
	if len(fast) < n {
		n = len(fast)
	}
	fast = fast[len(fast)-n:]
	slow = slow[len(slow)-n:]

	line = make([]float64, n)
	for i := range line {
		line[i] = fast[i] - slow[i]
	}
	return line, EMA(line, macdSignal)
}
