package market

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/isaikinwork-a11y/BTC-BOT/internal/candle"
)

// Aggregator queries an ordered list of providers and degrades gracefully:
// price falls back through every provider and reads 0 when all fail, candle
// and depth fetches are best-effort with empty/neutral sentinels. Provider
// errors never escape; the orchestrator only ever sees sentinel values.
type Aggregator struct {
	providers    []Provider
	symbol       string
	interval     string
	candleLimit  int
	depthLimit   int
	fetchTimeout time.Duration
}

// AggregatorConfig bounds a single fetch.
type AggregatorConfig struct {
	Symbol       string
	Interval     string
	CandleLimit  int
	DepthLimit   int
	FetchTimeout time.Duration
}

// NewAggregator creates an aggregator over providers in priority order.
func NewAggregator(providers []Provider, cfg AggregatorConfig) *Aggregator {
	if cfg.Interval == "" {
		cfg.Interval = "1m"
	}
	if cfg.CandleLimit <= 0 {
		cfg.CandleLimit = 100
	}
	if cfg.DepthLimit <= 0 {
		cfg.DepthLimit = 20
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 10 * time.Second
	}
	return &Aggregator{
		providers:    providers,
		symbol:       cfg.Symbol,
		interval:     cfg.Interval,
		candleLimit:  cfg.CandleLimit,
		depthLimit:   cfg.DepthLimit,
		fetchTimeout: cfg.FetchTimeout,
	}
}

// FetchPrice returns the first strictly positive price obtained from the
// provider list, or 0 when every provider fails. No retry within a call.
func (a *Aggregator) FetchPrice(ctx context.Context) float64 {
	for _, p := range a.providers {
		callCtx, cancel := context.WithTimeout(ctx, a.fetchTimeout)
		price, err := p.Price(callCtx, a.symbol)
		cancel()
		if err != nil {
			log.Printf("Aggregator | %s price failed: %v", p.Name(), err)
			continue
		}
		if price <= 0 {
			log.Printf("Aggregator | %s returned non-positive price %.2f", p.Name(), price)
			continue
		}
		return price
	}
	return 0
}

// FetchCandles returns the most recent candle window from the first provider
// able to serve it, or nil when none can.
func (a *Aggregator) FetchCandles(ctx context.Context) []candle.Candle {
	for _, p := range a.providers {
		callCtx, cancel := context.WithTimeout(ctx, a.fetchTimeout)
		candles, err := p.Candles(callCtx, a.symbol, a.interval, a.candleLimit)
		cancel()
		if err != nil {
			if !errors.Is(err, ErrUnsupported) {
				log.Printf("Aggregator | %s candles failed: %v", p.Name(), err)
			}
			continue
		}
		if len(candles) > 0 {
			return candles
		}
	}
	return nil
}

// FetchBuyPressure returns the bid share of the depth snapshot as a percentage,
// or the balanced reading 50 when no provider can serve depth.
func (a *Aggregator) FetchBuyPressure(ctx context.Context) float64 {
	for _, p := range a.providers {
		callCtx, cancel := context.WithTimeout(ctx, a.fetchTimeout)
		book, err := p.Depth(callCtx, a.symbol, a.depthLimit)
		cancel()
		if err != nil {
			if !errors.Is(err, ErrUnsupported) {
				log.Printf("Aggregator | %s depth failed: %v", p.Name(), err)
			}
			continue
		}
		return book.BuyPressure()
	}
	return 50
}
