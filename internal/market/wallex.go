package market

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	wallex "github.com/wallexchange/wallex-go"

	"github.com/isaikinwork-a11y/BTC-BOT/internal/candle"
)

// WallexProvider serves price, candles and depth from the Wallex exchange SDK.
// It is an optional extra fallback, enabled only when an API key is configured.
type WallexProvider struct {
	client *wallex.Client
}

// NewWallexProvider creates a Wallex provider from an API key.
func NewWallexProvider(apiKey string) *WallexProvider {
	return &WallexProvider{
		client: wallex.New(wallex.ClientOptions{APIKey: apiKey}),
	}
}

func (p *WallexProvider) Name() string { return "wallex" }

func (p *WallexProvider) Price(ctx context.Context, symbol string) (float64, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}

	markets, err := p.client.Markets()
	if err != nil {
		return 0, fmt.Errorf("fetching markets: %w", err)
	}
	normalized := normalizeSymbol(symbol)
	for _, m := range markets {
		if m.Symbol == normalized {
			return wallexNumber(&m.Stats.LastPrice), nil
		}
	}
	return 0, fmt.Errorf("symbol %s not listed on wallex", normalized)
}

func (p *WallexProvider) Candles(ctx context.Context, symbol, interval string, limit int) ([]candle.Candle, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	// Wallex takes a window rather than a count; size it from the interval.
	step := intervalDuration(interval)
	to := time.Now().UTC()
	from := to.Add(-time.Duration(limit) * step)

	resolution := strings.TrimSuffix(interval, "m")
	wallexCandles, err := p.client.Candles(normalizeSymbol(symbol), resolution, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetching candles: %w", err)
	}

	candles := make([]candle.Candle, 0, len(wallexCandles))
	for _, wc := range wallexCandles {
		c := candle.Candle{
			Timestamp: wc.Timestamp.UTC().Truncate(step),
			Open:      wallexNumber(&wc.Open),
			High:      wallexNumber(&wc.High),
			Low:       wallexNumber(&wc.Low),
			Close:     wallexNumber(&wc.Close),
			Volume:    wallexNumber(&wc.Volume),
			Symbol:    symbol,
			Source:    p.Name(),
		}
		if err := c.Validate(); err != nil {
			continue
		}
		candles = append(candles, c)
	}
	if len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}
	return candles, nil
}

func (p *WallexProvider) Depth(ctx context.Context, symbol string, limit int) (OrderBook, error) {
	select {
	case <-ctx.Done():
		return OrderBook{}, ctx.Err()
	default:
	}

	asks, bids, err := p.client.MarketOrders(normalizeSymbol(symbol))
	if err != nil {
		return OrderBook{}, fmt.Errorf("fetching orderbook: %w", err)
	}

	book := OrderBook{}
	for i, bid := range bids {
		if i >= limit {
			break
		}
		book.Bids = append(book.Bids, Level{
			Price:    wallexNumber(&bid.Price),
			Quantity: wallexNumber(&bid.Quantity),
		})
	}
	for i, ask := range asks {
		if i >= limit {
			break
		}
		book.Asks = append(book.Asks, Level{
			Price:    wallexNumber(&ask.Price),
			Quantity: wallexNumber(&ask.Quantity),
		})
	}
	return book, nil
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.ReplaceAll(symbol, "-", ""))
}

func intervalDuration(interval string) time.Duration {
	n, err := strconv.Atoi(strings.TrimSuffix(interval, "m"))
	if err != nil || n <= 0 {
		return time.Minute
	}
	return time.Duration(n) * time.Minute
}

// wallexNumber safely parses a *wallex.Number into a float64.
func wallexNumber(n *wallex.Number) float64 {
	if n == nil {
		return 0
	}
	out, _ := strconv.ParseFloat(string(*n), 64)
	return out
}
