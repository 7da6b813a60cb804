package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/isaikinwork-a11y/BTC-BOT/internal/candle"
)

// BinanceProvider serves spot price, 1m klines and depth snapshots from the
// Binance public REST API. It is the primary source for market data.
type BinanceProvider struct {
	baseURL string
	client  *http.Client
}

// NewBinanceProvider creates a Binance provider with the given request timeout.
func NewBinanceProvider(timeout time.Duration) *BinanceProvider {
	return &BinanceProvider{
		baseURL: "https://api.binance.com",
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *BinanceProvider) Name() string { return "binance" }

func (p *BinanceProvider) get(ctx context.Context, path string, params url.Values, out any) error {
	u := p.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %s", path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

func (p *BinanceProvider) Price(ctx context.Context, symbol string) (float64, error) {
	var payload struct {
		Symbol string `json:"symbol"`
		Price  string `json:"price"`
	}
	params := url.Values{"symbol": {symbol}}
	if err := p.get(ctx, "/api/v3/ticker/price", params, &payload); err != nil {
		return 0, err
	}
	price, err := strconv.ParseFloat(payload.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing price %q: %w", payload.Price, err)
	}
	return price, nil
}

func (p *BinanceProvider) Candles(ctx context.Context, symbol, interval string, limit int) ([]candle.Candle, error) {
	var payload [][]any
	params := url.Values{
		"symbol":   {symbol},
		"interval": {interval},
		"limit":    {strconv.Itoa(limit)},
	}
	if err := p.get(ctx, "/api/v3/klines", params, &payload); err != nil {
		return nil, err
	}

	candles := make([]candle.Candle, 0, len(payload))
	for _, k := range payload {
		if len(k) < 6 {
			continue
		}
		openTime, ok := k[0].(float64)
		if !ok {
			continue
		}
		c := candle.Candle{
			Timestamp: time.UnixMilli(int64(openTime)).UTC(),
			Open:      klineField(k[1]),
			High:      klineField(k[2]),
			Low:       klineField(k[3]),
			Close:     klineField(k[4]),
			Volume:    klineField(k[5]),
			Symbol:    symbol,
			Source:    p.Name(),
		}
		if err := c.Validate(); err != nil {
			continue // skip malformed buckets
		}
		candles = append(candles, c)
	}
	return candles, nil
}

func (p *BinanceProvider) Depth(ctx context.Context, symbol string, limit int) (OrderBook, error) {
	var payload struct {
		Bids [][]string `json:"bids"`
		Asks [][]string `json:"asks"`
	}
	params := url.Values{
		"symbol": {symbol},
		"limit":  {strconv.Itoa(limit)},
	}
	if err := p.get(ctx, "/api/v3/depth", params, &payload); err != nil {
		return OrderBook{}, err
	}
	return OrderBook{
		Bids: parseLevels(payload.Bids),
		Asks: parseLevels(payload.Asks),
	}, nil
}

// klineField parses one of the string-typed numeric fields of a Binance kline.
func klineField(v any) float64 {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func parseLevels(raw [][]string) []Level {
	levels := make([]Level, 0, len(raw))
	for _, entry := range raw {
		if len(entry) < 2 {
			continue
		}
		price, _ := strconv.ParseFloat(entry[0], 64)
		qty, _ := strconv.ParseFloat(entry[1], 64)
		levels = append(levels, Level{Price: price, Quantity: qty})
	}
	return levels
}
