package strategy

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/isaikinwork-a11y/BTC-BOT/internal/candle"
	"github.com/isaikinwork-a11y/BTC-BOT/internal/indicator"
)

// Trend estimator names accepted by ScorerConfig.
const (
	TrendEstimatorSimple     = "simple"
	TrendEstimatorHeikenAshi = "heiken_ashi"
)

// Weights is the scoring table: the signed delta each component contributes.
// The strong values apply at the extreme bands (RSI <30 / >70, MACD beyond
// +-50), the lean values inside them.
type Weights struct {
	RSIStrong  float64 `yaml:"rsi_strong"`
	RSILean    float64 `yaml:"rsi_lean"`
	MACDStrong float64 `yaml:"macd_strong"`
	MACDLean   float64 `yaml:"macd_lean"`
	VWAP       float64 `yaml:"vwap"`
	Trend      float64 `yaml:"trend"`
	OrderFlow  float64 `yaml:"order_flow"`
}

// DefaultWeights returns the canonical scoring table.
func DefaultWeights() Weights {
	return Weights{
		RSIStrong:  25,
		RSILean:    10,
		MACDStrong: 25,
		MACDLean:   15,
		VWAP:       15,
		Trend:      15,
		OrderFlow:  15,
	}
}

// ScorerConfig selects the trend estimator and the component weights.
type ScorerConfig struct {
	TrendEstimator string
	Weights        Weights
}

// Scorer combines indicator readings into a directional signal. Scoring is an
// additive weighted sum of independently evaluated components; each component
// appends exactly one reason string, so every signal carries five reasons in a
// fixed order: RSI, MACD, VWAP, trend, order flow.
type Scorer struct {
	cfg ScorerConfig
	now func() time.Time
}

// NewScorer creates a scorer from config, filling in defaults.
func NewScorer(cfg ScorerConfig) *Scorer {
	if cfg.TrendEstimator == "" {
		cfg.TrendEstimator = TrendEstimatorSimple
	}
	if (cfg.Weights == Weights{}) {
		cfg.Weights = DefaultWeights()
	}
	return &Scorer{cfg: cfg, now: time.Now}
}

// Score evaluates all components against the current market snapshot.
// Ties resolve to DOWN: a score of exactly 0 is not a third state.
func (s *Scorer) Score(price float64, candles []candle.Candle, buyPressure float64, history []float64) Signal {
	closes := selectCloses(price, candles, history)

	sig := Signal{
		ID:          uuid.NewString(),
		Time:        s.now().UTC(),
		Price:       price,
		RSI:         indicator.RSI(closes, 14),
		MACD:        indicator.MACDHistogram(closes),
		VWAP:        indicator.VWAP(candles),
		Momentum:    indicator.Momentum(closes, 10),
		BuyPressure: buyPressure,
	}
	switch s.cfg.TrendEstimator {
	case TrendEstimatorHeikenAshi:
		sig.Trend = indicator.HeikenAshiTrend(candles)
	default:
		sig.Trend = indicator.SimpleTrend(closes)
	}

	var score float64
	reasons := make([]string, 0, 5)
	add := func(delta float64, reason string) {
		score += delta
		reasons = append(reasons, reason)
	}

	w := s.cfg.Weights

	// RSI
	switch {
	case sig.RSI < 30:
		add(w.RSIStrong, fmt.Sprintf("RSI oversold (%.1f)", sig.RSI))
	case sig.RSI > 70:
		add(-w.RSIStrong, fmt.Sprintf("RSI overbought (%.1f)", sig.RSI))
	case sig.RSI < 45:
		add(w.RSILean, fmt.Sprintf("RSI low (%.1f)", sig.RSI))
	case sig.RSI > 55:
		add(-w.RSILean, fmt.Sprintf("RSI high (%.1f)", sig.RSI))
	default:
		add(0, fmt.Sprintf("RSI neutral (%.1f)", sig.RSI))
	}

	// MACD histogram: zero is neutral, the lean bands are closed at +-50.
	switch {
	case sig.MACD > 50:
		add(w.MACDStrong, "MACD strong bullish")
	case sig.MACD > 0:
		add(w.MACDLean, "MACD bullish")
	case sig.MACD < -50:
		add(-w.MACDStrong, "MACD strong bearish")
	case sig.MACD < 0:
		add(-w.MACDLean, "MACD bearish")
	default:
		add(0, "MACD flat")
	}

	// VWAP: unavailable (no candles or no volume) reads as neutral.
	switch {
	case sig.VWAP <= 0:
		add(0, "VWAP unavailable")
	case price > sig.VWAP:
		diff := (price - sig.VWAP) / sig.VWAP * 100
		add(w.VWAP, fmt.Sprintf("above VWAP (+%.2f%%)", diff))
	default:
		diff := (sig.VWAP - price) / sig.VWAP * 100
		add(-w.VWAP, fmt.Sprintf("below VWAP (-%.2f%%)", diff))
	}

	// Trend
	switch sig.Trend {
	case indicator.TrendBullish:
		add(w.Trend, "trend up")
	case indicator.TrendBearish:
		add(-w.Trend, "trend down")
	default:
		add(0, "trend neutral")
	}

	// Order flow
	switch {
	case buyPressure > 55:
		add(w.OrderFlow, fmt.Sprintf("buyers in control (%.0f%%)", buyPressure))
	case buyPressure < 45:
		add(-w.OrderFlow, fmt.Sprintf("sellers in control (%.0f%%)", 100-buyPressure))
	default:
		add(0, "balanced order book")
	}

	sig.Score = score
	sig.Confidence = math.Min(math.Abs(score), 100)
	if score > 0 {
		sig.Direction = DirectionUp
	} else {
		sig.Direction = DirectionDown
	}
	sig.Reasons = reasons
	return sig
}

// selectCloses picks the close series the indicators run on: candle closes
// when candles are present, the rolling price history when it holds more than
// 20 samples, else a flat series of the current price so indicator inputs are
// never too short.
func selectCloses(price float64, candles []candle.Candle, history []float64) []float64 {
	if len(candles) > 0 {
		return candle.Closes(candles)
	}
	if len(history) > 20 {
		return history
	}
	flat := make([]float64, 50)
	for i := range flat {
		flat[i] = price
	}
	return flat
}
