package market

// PriceHistory is a bounded rolling window of valid price samples, oldest
// first. It is owned by the bot loop and only ever touched from a single poll
// cycle, so it carries no lock. Indicator code receives a read-only copy.
type PriceHistory struct {
	prices []float64
	max    int
}

// NewPriceHistory creates a rolling window bounded at max samples.
func NewPriceHistory(max int) *PriceHistory {
	if max <= 0 {
		max = 200
	}
	return &PriceHistory{
		prices: make([]float64, 0, max),
		max:    max,
	}
}

// Append records a sample, evicting from the front once the window is full.
// Non-positive readings signal source failure and never enter the window.
func (h *PriceHistory) Append(price float64) {
	if price <= 0 {
		return
	}
	h.prices = append(h.prices, price)
	if len(h.prices) > h.max {
		h.prices = h.prices[len(h.prices)-h.max:]
	}
}

// Prices returns a copy of the window, oldest first.
func (h *PriceHistory) Prices() []float64 {
	out := make([]float64, len(h.prices))
	copy(out, h.prices)
	return out
}

// Len returns the number of samples currently held.
func (h *PriceHistory) Len() int {
	return len(h.prices)
}
