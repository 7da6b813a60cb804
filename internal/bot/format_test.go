package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/isaikinwork-a11y/BTC-BOT/internal/simulation"
	"github.com/isaikinwork-a11y/BTC-BOT/internal/strategy"
)

func sampleSignal() strategy.Signal {
	return strategy.Signal{
		ID:         "sig-1",
		Time:       time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC),
		Price:      42150.5,
		Direction:  strategy.DirectionUp,
		Score:      60,
		Confidence: 60,
		Reasons: []string{
			"RSI low (42.0)",
			"MACD bullish",
			"above VWAP (+0.50%)",
			"trend up",
			"balanced order book",
		},
	}
}

func TestFormatSignalMessage(t *testing.T) {
	snap := simulation.Snapshot{
		Balance:         1036,
		StartingBalance: 1000,
		TotalBets:       2,
		Wins:            1,
		Losses:          1,
		WinRate:         50,
		NetPnL:          36,
	}

	t.Run("Signal only", func(t *testing.T) {
		msg := formatSignalMessage("BTCUSDT", sampleSignal(), nil, nil, snap)

		assert.Contains(t, msg, "━━━ BTCUSDT SIGNAL ━━━")
		assert.Contains(t, msg, "12:30 UTC")
		assert.Contains(t, msg, "$42150.50")
		assert.Contains(t, msg, "🟢 UP 📈")
		assert.Contains(t, msg, "60% 💪")
		assert.Contains(t, msg, "MACD bullish")
		assert.Contains(t, msg, "$1036 (+$36) | WR: 50%")
		assert.NotContains(t, msg, "Last bet:")
		assert.NotContains(t, msg, "🎯 Bet:")
	})

	t.Run("Down direction", func(t *testing.T) {
		sig := sampleSignal()
		sig.Direction = strategy.DirectionDown
		sig.Confidence = 30

		msg := formatSignalMessage("BTCUSDT", sig, nil, nil, snap)
		assert.Contains(t, msg, "🔴 DOWN 📉")
		assert.Contains(t, msg, "30% 😐")
	})

	t.Run("High confidence marker", func(t *testing.T) {
		sig := sampleSignal()
		sig.Confidence = 85

		msg := formatSignalMessage("BTCUSDT", sig, nil, nil, snap)
		assert.Contains(t, msg, "85% 🔥")
	})

	t.Run("Settled win", func(t *testing.T) {
		settled := &simulation.SettledBet{Won: true, PnL: 36}
		msg := formatSignalMessage("BTCUSDT", sampleSignal(), settled, nil, snap)
		assert.Contains(t, msg, "Last bet:</b> ✅ WIN (+$36)")
	})

	t.Run("Settled loss shows negative pnl", func(t *testing.T) {
		settled := &simulation.SettledBet{Won: false, PnL: -40}
		msg := formatSignalMessage("BTCUSDT", sampleSignal(), settled, nil, snap)
		assert.Contains(t, msg, "Last bet:</b> ❌ LOSS (-$40)")
	})

	t.Run("New bet", func(t *testing.T) {
		bet := &simulation.Bet{Direction: strategy.DirectionUp, Amount: 40}
		msg := formatSignalMessage("BTCUSDT", sampleSignal(), nil, bet, snap)
		assert.Contains(t, msg, "🎯 Bet:</b> UP $40")
	})
}

func TestFormatSummary(t *testing.T) {
	msg := formatSummary(simulation.Snapshot{
		Balance:   960,
		TotalBets: 4,
		Wins:      1,
		Losses:    3,
		WinRate:   25,
		NetPnL:    -40,
	})

	assert.Contains(t, msg, "PERFORMANCE SUMMARY")
	assert.Contains(t, msg, "Bets: 4 | Wins: 1 | Losses: 3 | WR: 25.0%")
	assert.Contains(t, msg, "Balance: $960.00 (-$40)")
}

func TestSignedMoney(t *testing.T) {
	assert.Equal(t, "+$36", signedMoney(36))
	assert.Equal(t, "-$40", signedMoney(-40))
	assert.Equal(t, "+$0", signedMoney(0))
}
