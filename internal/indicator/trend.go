package indicator

import "github.com/isaikinwork-a11y/BTC-BOT/internal/candle"

// Trend is a coarse directional classification of recent price action.
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
	TrendNeutral Trend = "neutral"
)

// SimpleTrend counts up-moves among the last 10 consecutive close pairs:
// 7 or more is bullish, 3 or fewer is bearish. Fewer than 10 closes, or a
// window with no movement at all, is neutral.
func SimpleTrend(closes []float64) Trend {
	if len(closes) < 10 {
		return TrendNeutral
	}

	recent := closes[len(closes)-10:]
	upMoves, downMoves := 0, 0
	for i := 1; i < len(recent); i++ {
		if recent[i] > recent[i-1] {
			upMoves++
		} else if recent[i] < recent[i-1] {
			downMoves++
		}
	}
	if upMoves == 0 && downMoves == 0 {
		return TrendNeutral
	}

	switch {
	case upMoves >= 7:
		return TrendBullish
	case upMoves <= 3:
		return TrendBearish
	default:
		return TrendNeutral
	}
}

// HeikenAshiTrend classifies on the count of bullish Heiken Ashi candles among
// the last 5: 4 or more is bullish, 1 or fewer is bearish. Fewer than 5
// candles is neutral.
func HeikenAshiTrend(candles []candle.Candle) Trend {
	if len(candles) < 5 {
		return TrendNeutral
	}

	ha := candle.GenerateHeikenAshiCandles(candles)
	recent := ha[len(ha)-5:]
	bullish := 0
	for _, c := range recent {
		if c.Close > c.Open {
			bullish++
		}
	}

	switch {
	case bullish >= 4:
		return TrendBullish
	case bullish <= 1:
		return TrendBearish
	default:
		return TrendNeutral
	}
}
