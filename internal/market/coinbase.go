package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/isaikinwork-a11y/BTC-BOT/internal/candle"
)

// CoinbaseProvider serves spot price from the Coinbase public prices API.
// Like CoinGecko it is a price-only fallback.
type CoinbaseProvider struct {
	baseURL string
	client  *http.Client
}

// NewCoinbaseProvider creates a Coinbase provider with the given timeout.
func NewCoinbaseProvider(timeout time.Duration) *CoinbaseProvider {
	return &CoinbaseProvider{
		baseURL: "https://api.coinbase.com",
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *CoinbaseProvider) Name() string { return "coinbase" }

// coinbasePair rewrites an exchange-style symbol (BTCUSDT) into the dashed
// pair Coinbase expects (BTC-USD).
func coinbasePair(symbol string) string {
	s := strings.ToUpper(symbol)
	for _, quote := range []string{"USDT", "USDC", "USD", "EUR"} {
		if strings.HasSuffix(s, quote) && len(s) > len(quote) {
			base := strings.TrimSuffix(s, quote)
			if quote == "USDT" || quote == "USDC" {
				quote = "USD"
			}
			return base + "-" + quote
		}
	}
	return s
}

func (p *CoinbaseProvider) Price(ctx context.Context, symbol string) (float64, error) {
	u := fmt.Sprintf("%s/v2/prices/%s/spot", p.baseURL, coinbasePair(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("building request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("requesting spot price: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("spot price returned status %s", resp.Status)
	}

	var payload struct {
		Data struct {
			Amount string `json:"amount"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decoding spot price response: %w", err)
	}
	price, err := strconv.ParseFloat(payload.Data.Amount, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", payload.Data.Amount, err)
	}
	return price, nil
}

func (p *CoinbaseProvider) Candles(ctx context.Context, symbol, interval string, limit int) ([]candle.Candle, error) {
	return nil, ErrUnsupported
}

func (p *CoinbaseProvider) Depth(ctx context.Context, symbol string, limit int) (OrderBook, error) {
	return OrderBook{}, ErrUnsupported
}
