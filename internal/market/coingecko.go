package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/isaikinwork-a11y/BTC-BOT/internal/candle"
)

// coingeckoIDs maps exchange-style symbols to CoinGecko coin id and currency.
var coingeckoIDs = map[string][2]string{
	"BTCUSDT": {"bitcoin", "usd"},
	"ETHUSDT": {"ethereum", "usd"},
}

// CoinGeckoProvider serves spot price from the CoinGecko simple-price API.
// It is a price-only fallback: candles and depth are unsupported.
type CoinGeckoProvider struct {
	baseURL string
	client  *http.Client
}

// NewCoinGeckoProvider creates a CoinGecko provider with the given timeout.
func NewCoinGeckoProvider(timeout time.Duration) *CoinGeckoProvider {
	return &CoinGeckoProvider{
		baseURL: "https://api.coingecko.com",
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *CoinGeckoProvider) Name() string { return "coingecko" }

func (p *CoinGeckoProvider) Price(ctx context.Context, symbol string) (float64, error) {
	ids, ok := coingeckoIDs[strings.ToUpper(symbol)]
	if !ok {
		return 0, fmt.Errorf("no coingecko mapping for symbol %s", symbol)
	}
	coin, currency := ids[0], ids[1]

	params := url.Values{
		"ids":           {coin},
		"vs_currencies": {currency},
	}
	u := p.baseURL + "/api/v3/simple/price?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("building request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("requesting simple price: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("simple price returned status %s", resp.Status)
	}

	var payload map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decoding simple price response: %w", err)
	}
	price, ok := payload[coin][currency]
	if !ok {
		return 0, fmt.Errorf("simple price response missing %s/%s", coin, currency)
	}
	return price, nil
}

func (p *CoinGeckoProvider) Candles(ctx context.Context, symbol, interval string, limit int) ([]candle.Candle, error) {
	return nil, ErrUnsupported
}

func (p *CoinGeckoProvider) Depth(ctx context.Context, symbol string, limit int) (OrderBook, error) {
	return OrderBook{}, ErrUnsupported
}
