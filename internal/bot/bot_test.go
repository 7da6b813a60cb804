package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isaikinwork-a11y/BTC-BOT/internal/candle"
	"github.com/isaikinwork-a11y/BTC-BOT/internal/config"
	"github.com/isaikinwork-a11y/BTC-BOT/internal/journal"
	"github.com/isaikinwork-a11y/BTC-BOT/internal/market"
	"github.com/isaikinwork-a11y/BTC-BOT/internal/notifier"
	"github.com/isaikinwork-a11y/BTC-BOT/internal/simulation"
	"github.com/isaikinwork-a11y/BTC-BOT/internal/strategy"
)

// fixedProvider serves a constant market snapshot.
type fixedProvider struct {
	price    float64
	priceErr error
	book     market.OrderBook
}

func (f *fixedProvider) Name() string { return "fixed" }

func (f *fixedProvider) Price(ctx context.Context, symbol string) (float64, error) {
	return f.price, f.priceErr
}

func (f *fixedProvider) Candles(ctx context.Context, symbol, interval string, limit int) ([]candle.Candle, error) {
	return nil, market.ErrUnsupported
}

func (f *fixedProvider) Depth(ctx context.Context, symbol string, limit int) (market.OrderBook, error) {
	return f.book, nil
}

func newTestBot(p market.Provider) (*Bot, *journal.MemoryJournal, *simulation.Simulator) {
	cfg := config.Default()
	// A single strong order-flow reading must clear the threshold.
	cfg.ConfidenceThreshold = 10
	cfg.Settlement = simulation.SettlementImmediate

	agg := market.NewAggregator([]market.Provider{p}, market.AggregatorConfig{
		Symbol:       cfg.Symbol,
		FetchTimeout: time.Second,
	})
	sim := simulation.New(simulation.Config{
		StartingBalance:     cfg.StartingBalance,
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		MinBetPercent:       cfg.MinBetPercent,
		MaxBetPercent:       cfg.MaxBetPercent,
		WinMultiplier:       cfg.WinMultiplier,
		BetDuration:         cfg.BetDuration,
		Settlement:          cfg.Settlement,
	})
	j := journal.NewMemory(100)
	b := New(cfg, agg, strategy.NewScorer(strategy.ScorerConfig{}), sim, notifier.Nop{}, j)
	return b, j, sim
}

func TestCycle(t *testing.T) {
	ctx := context.Background()

	t.Run("Happy path opens a bet", func(t *testing.T) {
		p := &fixedProvider{
			price: 42000,
			book: market.OrderBook{
				Bids: []market.Level{{Price: 42000, Quantity: 4}},
				Asks: []market.Level{{Price: 42001, Quantity: 1}},
			},
		}
		b, j, sim := newTestBot(p)

		require.NoError(t, b.cycle(ctx))

		sig := b.LastSignal()
		require.NotNil(t, sig)
		assert.Equal(t, 42000.0, sig.Price)
		assert.Equal(t, strategy.DirectionUp, sig.Direction)
		assert.Equal(t, 15.0, sig.Confidence)

		snap := sim.Snapshot()
		assert.Equal(t, 1, snap.TotalBets)
		require.NotNil(t, snap.ActiveBet)
		assert.Equal(t, strategy.DirectionUp, snap.ActiveBet.Direction)

		signals, err := j.GetEvents(ctx, "signal", time.Time{}, time.Time{})
		require.NoError(t, err)
		assert.Len(t, signals, 1)
		bets, err := j.GetEvents(ctx, "bet", time.Time{}, time.Time{})
		require.NoError(t, err)
		assert.Len(t, bets, 1)
	})

	t.Run("Second cycle settles under immediate policy", func(t *testing.T) {
		p := &fixedProvider{
			price: 42000,
			book: market.OrderBook{
				Bids: []market.Level{{Price: 42000, Quantity: 4}},
				Asks: []market.Level{{Price: 42001, Quantity: 1}},
			},
		}
		b, j, sim := newTestBot(p)

		require.NoError(t, b.cycle(ctx))
		p.price = 42100
		require.NoError(t, b.cycle(ctx))

		history := sim.History()
		require.Len(t, history, 1)
		assert.True(t, history[0].Won, "UP bet settled above entry")

		settlements, err := j.GetEvents(ctx, "settlement", time.Time{}, time.Time{})
		require.NoError(t, err)
		assert.Len(t, settlements, 1)

		// The same cycle opened the next bet after settling.
		assert.NotNil(t, sim.Snapshot().ActiveBet)
	})

	t.Run("All providers failing", func(t *testing.T) {
		p := &fixedProvider{priceErr: errors.New("network down")}
		b, j, _ := newTestBot(p)

		err := b.cycle(ctx)
		require.ErrorIs(t, err, errNoPrice)
		assert.Nil(t, b.LastSignal())

		events, getErr := j.GetEvents(ctx, "", time.Time{}, time.Time{})
		require.NoError(t, getErr)
		assert.Empty(t, events, "a priceless cycle journals nothing")
	})
}

func TestRunStopsOnCancel(t *testing.T) {
	p := &fixedProvider{priceErr: errors.New("network down")}
	b, _, _ := newTestBot(p)
	b.cfg.ErrorBackoff = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
}
