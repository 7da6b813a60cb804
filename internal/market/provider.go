// Package market
package market

import (
	"context"
	"errors"

	"github.com/isaikinwork-a11y/BTC-BOT/internal/candle"
)

// ErrUnsupported is returned by providers that only serve a subset of the
// interface (e.g. spot-price-only sources).
var ErrUnsupported = errors.New("market: operation not supported by provider")

// Provider is the interface every external price source implements. Providers
// are interchangeable; the aggregator tries them in a fixed priority order.
type Provider interface {
	Name() string
	Price(ctx context.Context, symbol string) (float64, error)
	Candles(ctx context.Context, symbol, interval string, limit int) ([]candle.Candle, error)
	Depth(ctx context.Context, symbol string, limit int) (OrderBook, error)
}
