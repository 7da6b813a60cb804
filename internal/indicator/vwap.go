package indicator

import "github.com/isaikinwork-a11y/BTC-BOT/internal/candle"

// VWAP calculates the volume-weighted average of each candle's typical price,
// rounded to 2 decimals. An empty window or zero total volume yields 0.
func VWAP(candles []candle.Candle) float64 {
	if len(candles) == 0 {
		return 0
	}

	var weighted, volume float64
	for _, c := range candles {
		weighted += c.TypicalPrice() * c.Volume
		volume += c.Volume
	}
	if volume == 0 {
		return 0
	}
	return round2(weighted / volume)
}
