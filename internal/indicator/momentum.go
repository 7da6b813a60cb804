package indicator

// Momentum returns the percentage change from the close period steps back to
// the latest close. Fewer than period closes yields 0.
func Momentum(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period {
		return 0
	}

	current := closes[len(closes)-1]
	past := closes[len(closes)-period]
	if past == 0 {
		return 0
	}
	return (current - past) / past * 100
}
