// Package config
package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

/*
YAML config example:
telegram_token: "123:abc"
telegram_chat_id: "440615055"
symbol: "BTCUSDT"
poll_interval: 5m
error_backoff: 1m
starting_balance: 1000
confidence_threshold: 40
min_bet_percent: 3
max_bet_percent: 5
win_multiplier: 0.9
bet_duration: 15m
settlement: "timed"
trend_estimator: "simple"
providers: ["binance", "coingecko", "coinbase"]
api_listen_addr: ":8080"
postgres_dsn: ""
*/

// Config holds every externally injected constant. No core logic depends on
// where a value came from (flag, file or environment).
type Config struct {
	TelegramToken  string `yaml:"telegram_token"`
	TelegramChatID string `yaml:"telegram_chat_id"`

	Symbol       string        `yaml:"symbol"`
	PollInterval time.Duration `yaml:"poll_interval"`
	ErrorBackoff time.Duration `yaml:"error_backoff"`

	StartingBalance     float64       `yaml:"starting_balance"`
	ConfidenceThreshold float64       `yaml:"confidence_threshold"`
	MinBetPercent       float64       `yaml:"min_bet_percent"`
	MaxBetPercent       float64       `yaml:"max_bet_percent"`
	WinMultiplier       float64       `yaml:"win_multiplier"`
	BetDuration         time.Duration `yaml:"bet_duration"`
	Settlement          string        `yaml:"settlement"`

	TrendEstimator string `yaml:"trend_estimator"`

	Providers      []string      `yaml:"providers"`
	CandleInterval string        `yaml:"candle_interval"`
	CandleLimit    int           `yaml:"candle_limit"`
	DepthLimit     int           `yaml:"depth_limit"`
	HistorySize    int           `yaml:"history_size"`
	FetchTimeout   time.Duration `yaml:"fetch_timeout"`

	NotificationRetries int           `yaml:"notification_retries"`
	NotificationDelay   time.Duration `yaml:"notification_delay"`

	PostgresDSN   string `yaml:"postgres_dsn"`
	APIListenAddr string `yaml:"api_listen_addr"`
	WallexAPIKey  string `yaml:"wallex_api_key"`
}

// Default returns the canonical configuration.
func Default() Config {
	return Config{
		Symbol:              "BTCUSDT",
		PollInterval:        5 * time.Minute,
		ErrorBackoff:        time.Minute,
		StartingBalance:     1000,
		ConfidenceThreshold: 40,
		MinBetPercent:       3,
		MaxBetPercent:       5,
		WinMultiplier:       0.9,
		BetDuration:         15 * time.Minute,
		Settlement:          "timed",
		TrendEstimator:      "simple",
		Providers:           []string{"binance", "coingecko", "coinbase"},
		CandleInterval:      "1m",
		CandleLimit:         100,
		DepthLimit:          20,
		HistorySize:         200,
		FetchTimeout:        10 * time.Second,
		NotificationRetries: 3,
		NotificationDelay:   5 * time.Second,
	}
}

// Load builds the config from flags, an optional YAML file and environment
// overrides, in that order.
func Load(args []string) (Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("btc-bot", flag.ContinueOnError)
	configFile := fs.String("config", "", "Path to YAML config file")
	symbol := fs.String("symbol", cfg.Symbol, "Trading symbol")
	pollInterval := fs.Duration("poll-interval", cfg.PollInterval, "Delay between poll cycles")
	errorBackoff := fs.Duration("error-backoff", cfg.ErrorBackoff, "Delay after a failed cycle")
	startingBalance := fs.Float64("starting-balance", cfg.StartingBalance, "Simulation starting balance")
	confidenceThreshold := fs.Float64("confidence-threshold", cfg.ConfidenceThreshold, "Minimum confidence to open a bet")
	betDuration := fs.Duration("bet-duration", cfg.BetDuration, "Hold time for a timed bet")
	settlement := fs.String("settlement", cfg.Settlement, "Settlement policy: timed or immediate")
	trendEstimator := fs.String("trend-estimator", cfg.TrendEstimator, "Trend estimator: simple or heiken_ashi")
	apiListenAddr := fs.String("api-listen", cfg.APIListenAddr, "Status API listen address (empty disables)")
	telegramToken := fs.String("telegram-token", "", "Telegram bot token for notifications")
	telegramChatID := fs.String("telegram-chat", "", "Telegram chat ID for notifications")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	cfg.Symbol = *symbol
	cfg.PollInterval = *pollInterval
	cfg.ErrorBackoff = *errorBackoff
	cfg.StartingBalance = *startingBalance
	cfg.ConfidenceThreshold = *confidenceThreshold
	cfg.BetDuration = *betDuration
	cfg.Settlement = *settlement
	cfg.TrendEstimator = *trendEstimator
	cfg.APIListenAddr = *apiListenAddr
	cfg.TelegramToken = *telegramToken
	cfg.TelegramChatID = *telegramChatID

	if *configFile != "" {
		if err := cfg.LoadFile(*configFile); err != nil {
			return cfg, err
		}
	}
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFile overlays values from a YAML file.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

// ApplyEnv overlays environment variables. They take the highest precedence,
// matching how the bot is deployed.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		c.TelegramToken = v
	}
	if v := os.Getenv("CHAT_ID"); v != "" {
		c.TelegramChatID = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.PostgresDSN = v
	}
	if v := os.Getenv("WALLEX_API_KEY"); v != "" {
		c.WallexAPIKey = v
	}
}

// Validate rejects configurations the simulator or scorer cannot run on.
func (c *Config) Validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("symbol must not be empty")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive")
	}
	if c.ErrorBackoff <= 0 {
		return fmt.Errorf("error_backoff must be positive")
	}
	if c.StartingBalance <= 0 {
		return fmt.Errorf("starting_balance must be positive")
	}
	if c.MinBetPercent <= 0 || c.MaxBetPercent < c.MinBetPercent {
		return fmt.Errorf("bet percent bounds invalid: min=%.2f max=%.2f", c.MinBetPercent, c.MaxBetPercent)
	}
	if c.WinMultiplier <= 0 || c.WinMultiplier > 1 {
		return fmt.Errorf("win_multiplier must be in (0,1]")
	}
	switch c.Settlement {
	case "timed", "immediate":
	default:
		return fmt.Errorf("invalid settlement %q (must be 'timed' or 'immediate')", c.Settlement)
	}
	if c.Settlement == "timed" && c.BetDuration <= 0 {
		return fmt.Errorf("bet_duration must be positive for timed settlement")
	}
	switch c.TrendEstimator {
	case "simple", "heiken_ashi":
	default:
		return fmt.Errorf("invalid trend_estimator %q (must be 'simple' or 'heiken_ashi')", c.TrendEstimator)
	}
	if len(c.Providers) == 0 {
		return fmt.Errorf("at least one price provider must be configured")
	}
	for _, p := range c.Providers {
		switch strings.ToLower(p) {
		case "binance", "coingecko", "coinbase", "wallex":
		default:
			return fmt.Errorf("unknown provider %q", p)
		}
	}
	return nil
}
