// Package bot wires the market aggregator, scorer and simulator into a
// single-threaded poll loop: one cycle runs fetch -> score -> simulate ->
// notify to completion before the next begins. A failed cycle backs off on a
// shorter interval and the loop runs unattended until the context is
// cancelled; no single bad cycle may terminate the process.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/isaikinwork-a11y/BTC-BOT/internal/config"
	"github.com/isaikinwork-a11y/BTC-BOT/internal/journal"
	"github.com/isaikinwork-a11y/BTC-BOT/internal/market"
	"github.com/isaikinwork-a11y/BTC-BOT/internal/notifier"
	"github.com/isaikinwork-a11y/BTC-BOT/internal/simulation"
	"github.com/isaikinwork-a11y/BTC-BOT/internal/strategy"
)

// errNoPrice marks a cycle where every price provider failed. The operator
// sees only the absent periodic message, not an error report.
var errNoPrice = errors.New("all price providers failed")

// Bot is the orchestrator. It owns the rolling price history exclusively;
// everything else is mutated through the collaborators' own methods.
type Bot struct {
	cfg      config.Config
	agg      *market.Aggregator
	scorer   *strategy.Scorer
	sim      *simulation.Simulator
	history  *market.PriceHistory
	notifier notifier.Notifier
	journal  journal.Journaler

	mu         sync.RWMutex
	lastSignal *strategy.Signal
}

// New creates the bot around its collaborators.
func New(cfg config.Config, agg *market.Aggregator, scorer *strategy.Scorer, sim *simulation.Simulator, n notifier.Notifier, j journal.Journaler) *Bot {
	return &Bot{
		cfg:      cfg,
		agg:      agg,
		scorer:   scorer,
		sim:      sim,
		history:  market.NewPriceHistory(cfg.HistorySize),
		notifier: n,
		journal:  j,
	}
}

// LastSignal returns the most recent signal, or nil before the first
// successful cycle. Read by the status API.
func (b *Bot) LastSignal() *strategy.Signal {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastSignal
}

func (b *Bot) setLastSignal(sig strategy.Signal) {
	b.mu.Lock()
	b.lastSignal = &sig
	b.mu.Unlock()
}

// Run executes poll cycles until ctx is cancelled. A successful cycle sleeps
// the poll interval, a failed one the shorter error backoff.
func (b *Bot) Run(ctx context.Context) {
	log.Printf("Bot | Starting: symbol=%s poll=%s settlement=%s", b.cfg.Symbol, b.cfg.PollInterval, b.cfg.Settlement)
	if err := b.notifier.SendWithRetry(fmt.Sprintf("🤖 <b>%s bot started</b>", b.cfg.Symbol)); err != nil {
		log.Printf("Bot | Startup notification failed: %v", err)
	}

	for {
		delay := b.cfg.PollInterval
		if err := b.cycle(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("Bot | Cycle failed: %v (backing off %s)", err, b.cfg.ErrorBackoff)
			b.logEvent(ctx, journal.Event{Type: "error", Description: err.Error()})
			delay = b.cfg.ErrorBackoff
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}

// cycle runs one full poll: fetch price with fallback, refresh market data,
// score, advance the bet state machine and notify. Panics are recovered here
// so a bad cycle only costs one backoff interval.
func (b *Bot) cycle(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cycle panic: %v", r)
		}
	}()

	price := b.agg.FetchPrice(ctx)
	if price == 0 {
		return errNoPrice
	}
	b.history.Append(price)

	candles := b.agg.FetchCandles(ctx)
	buyPressure := b.agg.FetchBuyPressure(ctx)

	sig := b.scorer.Score(price, candles, buyPressure, b.history.Prices())
	b.setLastSignal(sig)
	b.logEvent(ctx, journal.Event{
		Type:        "signal",
		Description: fmt.Sprintf("%s %.0f%%", sig.Direction, sig.Confidence),
		Data: map[string]any{
			"id":    sig.ID,
			"price": sig.Price,
			"score": sig.Score,
			"rsi":   sig.RSI,
			"macd":  sig.MACD,
		},
	})

	tick := b.sim.Tick(price)
	var settled *simulation.SettledBet
	switch tick.State {
	case simulation.TickSettled:
		settled = tick.Result
		log.Printf("Bot | Settled %s bet: won=%v pnl=%.2f entry=%.2f exit=%.2f",
			settled.Direction, settled.Won, settled.PnL, settled.EntryPrice, settled.ExitPrice)
		b.logEvent(ctx, journal.Event{
			Type:        "settlement",
			Description: fmt.Sprintf("%s won=%v", settled.Direction, settled.Won),
			Data: map[string]any{
				"id":   settled.ID,
				"pnl":  settled.PnL,
				"exit": settled.ExitPrice,
			},
		})
	case simulation.TickActive:
		log.Printf("Bot | Bet still open, %s remaining", tick.Remaining.Round(time.Second))
	}

	newBet := b.sim.Open(sig.Direction, sig.Confidence, price)
	if newBet != nil {
		log.Printf("Bot | Opened %s bet: amount=%.2f entry=%.2f confidence=%.0f",
			newBet.Direction, newBet.Amount, newBet.EntryPrice, newBet.Confidence)
		b.logEvent(ctx, journal.Event{
			Type:        "bet",
			Description: fmt.Sprintf("%s $%.2f", newBet.Direction, newBet.Amount),
			Data: map[string]any{
				"id":         newBet.ID,
				"amount":     newBet.Amount,
				"entry":      newBet.EntryPrice,
				"confidence": newBet.Confidence,
			},
		})
	}

	msg := formatSignalMessage(b.cfg.Symbol, sig, settled, newBet, b.sim.Snapshot())
	if err := b.notifier.SendWithRetry(msg); err != nil {
		log.Printf("Bot | Notification failed: %v", err)
	}
	return nil
}

// Summary returns the shutdown performance summary.
func (b *Bot) Summary() string {
	return formatSummary(b.sim.Snapshot())
}

// logEvent journals best-effort; journal failures never affect the cycle.
func (b *Bot) logEvent(ctx context.Context, event journal.Event) {
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}
	if err := b.journal.LogEvent(ctx, event); err != nil {
		log.Printf("Bot | Journal write failed: %v", err)
	}
}
