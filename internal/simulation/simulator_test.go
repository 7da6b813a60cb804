package simulation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isaikinwork-a11y/BTC-BOT/internal/strategy"
)

func testConfig() Config {
	return Config{
		StartingBalance:     1000,
		ConfidenceThreshold: 40,
		MinBetPercent:       3,
		MaxBetPercent:       5,
		WinMultiplier:       0.9,
		BetDuration:         15 * time.Minute,
		Settlement:          SettlementTimed,
	}
}

func TestBetSize(t *testing.T) {
	sim := New(testConfig())

	tests := []struct {
		name       string
		confidence float64
		want       float64
	}{
		{"Below threshold", 39.9, 0},
		{"At threshold", 40, 30},
		{"Midway", 60, 40},
		{"At saturation", 80, 50},
		{"Past saturation", 90, 50},
		{"Capped at 100", 100, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, sim.BetSize(tt.confidence), 0.001)
		})
	}
}

func TestBetSizeTracksBalance(t *testing.T) {
	sim := New(testConfig())
	sim.balance = 500

	assert.InDelta(t, 15.0, sim.BetSize(40), 0.001)
	assert.InDelta(t, 25.0, sim.BetSize(80), 0.001)
}

func TestOpen(t *testing.T) {
	t.Run("Opens at threshold", func(t *testing.T) {
		sim := New(testConfig())
		start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		sim.now = func() time.Time { return start }

		bet := sim.Open(strategy.DirectionUp, 60, 42000)
		require.NotNil(t, bet)
		assert.NotEmpty(t, bet.ID)
		assert.Equal(t, strategy.DirectionUp, bet.Direction)
		assert.Equal(t, 42000.0, bet.EntryPrice)
		assert.InDelta(t, 40.0, bet.Amount, 0.001)
		assert.Equal(t, start, bet.OpenTime)
		assert.Equal(t, start.Add(15*time.Minute), bet.CloseTime)

		snap := sim.Snapshot()
		assert.Equal(t, 1, snap.TotalBets)
		require.NotNil(t, snap.ActiveBet)
		assert.Equal(t, bet.ID, snap.ActiveBet.ID)
	})

	t.Run("Refuses while a bet is open", func(t *testing.T) {
		sim := New(testConfig())
		require.NotNil(t, sim.Open(strategy.DirectionUp, 60, 42000))

		before := sim.Snapshot()
		assert.Nil(t, sim.Open(strategy.DirectionDown, 90, 43000))
		assert.Equal(t, before, sim.Snapshot())
	})

	t.Run("Refuses below threshold", func(t *testing.T) {
		sim := New(testConfig())
		assert.Nil(t, sim.Open(strategy.DirectionUp, 39, 42000))
		assert.Zero(t, sim.Snapshot().TotalBets)
	})
}

func TestTickTimed(t *testing.T) {
	sim := New(testConfig())
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := start
	sim.now = func() time.Time { return clock }

	t.Run("Idle tick is a no-op", func(t *testing.T) {
		res := sim.Tick(42000)
		assert.Equal(t, TickNoOp, res.State)
	})

	bet := sim.Open(strategy.DirectionUp, 60, 42000)
	require.NotNil(t, bet)

	t.Run("Before deadline mutates nothing", func(t *testing.T) {
		before := sim.Snapshot()

		clock = start.Add(5 * time.Minute)
		res := sim.Tick(50000)
		assert.Equal(t, TickActive, res.State)
		assert.Equal(t, 10*time.Minute, res.Remaining)
		assert.Equal(t, before, sim.Snapshot())
		assert.Empty(t, sim.History())
	})

	t.Run("Settles at deadline", func(t *testing.T) {
		clock = start.Add(15 * time.Minute)
		res := sim.Tick(42100)
		require.Equal(t, TickSettled, res.State)
		require.NotNil(t, res.Result)

		settled := res.Result
		assert.Equal(t, bet.ID, settled.ID)
		assert.True(t, settled.Won)
		assert.Equal(t, 42100.0, settled.ExitPrice)
		assert.InDelta(t, 100.0, settled.PriceChange, 0.001)
		assert.InDelta(t, 36.0, settled.PnL, 0.001, "win pays amount * multiplier")

		snap := sim.Snapshot()
		assert.InDelta(t, 1036.0, snap.Balance, 0.001)
		assert.Equal(t, 1, snap.Wins)
		assert.Zero(t, snap.Losses)
		assert.Nil(t, snap.ActiveBet)
		require.Len(t, sim.History(), 1)
	})

	t.Run("Post-settlement tick is a no-op", func(t *testing.T) {
		before := sim.Snapshot()
		assert.Equal(t, TickNoOp, sim.Tick(42100).State)
		assert.Equal(t, before, sim.Snapshot())
	})
}

func TestTickLoss(t *testing.T) {
	tests := []struct {
		name      string
		direction strategy.Direction
		exit      float64
	}{
		{"UP loses when price falls", strategy.DirectionUp, 41900},
		{"UP loses on unchanged price", strategy.DirectionUp, 42000},
		{"DOWN loses when price rises", strategy.DirectionDown, 42100},
		{"DOWN loses on unchanged price", strategy.DirectionDown, 42000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Settlement = SettlementImmediate
			sim := New(cfg)

			bet := sim.Open(tt.direction, 60, 42000)
			require.NotNil(t, bet)

			res := sim.Tick(tt.exit)
			require.Equal(t, TickSettled, res.State)
			assert.False(t, res.Result.Won)
			assert.InDelta(t, -bet.Amount, res.Result.PnL, 0.001)

			snap := sim.Snapshot()
			assert.InDelta(t, 1000-bet.Amount, snap.Balance, 0.001)
			assert.Equal(t, 1, snap.Losses)
		})
	}
}

func TestTickImmediate(t *testing.T) {
	cfg := testConfig()
	cfg.Settlement = SettlementImmediate
	sim := New(cfg)

	require.NotNil(t, sim.Open(strategy.DirectionDown, 80, 42000))

	// Immediate policy settles on the very next tick, deadline ignored.
	res := sim.Tick(41000)
	require.Equal(t, TickSettled, res.State)
	assert.True(t, res.Result.Won)
}

func TestBalanceConservation(t *testing.T) {
	cfg := testConfig()
	cfg.Settlement = SettlementImmediate
	sim := New(cfg)

	exits := []float64{42100, 41900, 42050, 41800, 42200}
	for _, exit := range exits {
		require.NotNil(t, sim.Open(strategy.DirectionUp, 60, 42000))
		require.Equal(t, TickSettled, sim.Tick(exit).State)
	}

	snap := sim.Snapshot()
	assert.Equal(t, 5, snap.TotalBets)
	assert.Equal(t, snap.TotalBets, snap.Wins+snap.Losses)

	var pnl float64
	for _, settled := range sim.History() {
		pnl += settled.PnL
	}
	assert.InDelta(t, cfg.StartingBalance+pnl, snap.Balance, 0.001)
	assert.InDelta(t, pnl, snap.NetPnL, 0.001)
	assert.InDelta(t, float64(snap.Wins)/5*100, snap.WinRate, 0.001)
}

func TestHistoryIsCopy(t *testing.T) {
	cfg := testConfig()
	cfg.Settlement = SettlementImmediate
	sim := New(cfg)

	require.NotNil(t, sim.Open(strategy.DirectionUp, 60, 42000))
	require.Equal(t, TickSettled, sim.Tick(42100).State)

	got := sim.History()
	require.Len(t, got, 1)
	got[0].PnL = -999

	assert.InDelta(t, 36.0, sim.History()[0].PnL, 0.001)
}
