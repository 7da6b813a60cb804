package indicator

// RSI calculates the Relative Strength Index over the last period deltas.
// Returns 50 (neutral) when fewer than period+1 closes are available or the
// window is completely flat, and 100 when it holds gains but no losses.
func RSI(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period+1 {
		return 50
	}

	var gains, losses float64
	for i := len(closes) - period; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains += change
		} else {
			losses += -change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)
	if avgLoss == 0 {
		if avgGain > 0 {
			return 100
		}
		return 50
	}

	rs := avgGain / avgLoss
	return round1(100 - 100/(1+rs))
}
