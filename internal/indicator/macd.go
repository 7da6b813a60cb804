package indicator

// MACDHistogram returns the most recent MACD histogram value: the MACD line
// (EMA12 - EMA26) minus its 9-period signal line, rounded to 2 decimals.
// Fewer than 35 closes yields 0 (neutral).
func MACDHistogram(closes []float64) float64 {
	if len(closes) < 35 {
		return 0
	}

	ema12 := EMA(closes, 12)
	ema26 := EMA(closes, 26)

	macdLine := make([]float64, len(ema26))
	for i := range ema26 {
		macdLine[i] = ema12[i] - ema26[i]
	}

	signalLine := EMA(macdLine, 9)
	return round2(macdLine[len(macdLine)-1] - signalLine[len(signalLine)-1])
}
