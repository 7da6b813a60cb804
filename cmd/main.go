package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/isaikinwork-a11y/BTC-BOT/internal/api"
	"github.com/isaikinwork-a11y/BTC-BOT/internal/bot"
	"github.com/isaikinwork-a11y/BTC-BOT/internal/config"
	"github.com/isaikinwork-a11y/BTC-BOT/internal/journal"
	"github.com/isaikinwork-a11y/BTC-BOT/internal/market"
	"github.com/isaikinwork-a11y/BTC-BOT/internal/notifier"
	"github.com/isaikinwork-a11y/BTC-BOT/internal/simulation"
	"github.com/isaikinwork-a11y/BTC-BOT/internal/strategy"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var n notifier.Notifier = notifier.Nop{}
	if cfg.TelegramToken != "" && cfg.TelegramChatID != "" {
		n = notifier.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID, cfg.NotificationRetries, cfg.NotificationDelay)
	} else {
		log.Println("No Telegram credentials configured, notifications disabled")
	}

	var j journal.Journaler
	if cfg.PostgresDSN != "" {
		pg, err := journal.NewPostgres(cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("Failed to open postgres journal: %v", err)
		}
		j = pg
		log.Println("Postgres journal enabled")
	} else {
		j = journal.NewMemory(0)
	}
	defer j.Close()

	providers := buildProviders(cfg)
	if len(providers) == 0 {
		log.Fatal("No usable price providers configured")
	}

	agg := market.NewAggregator(providers, market.AggregatorConfig{
		Symbol:       cfg.Symbol,
		Interval:     cfg.CandleInterval,
		CandleLimit:  cfg.CandleLimit,
		DepthLimit:   cfg.DepthLimit,
		FetchTimeout: cfg.FetchTimeout,
	})

	scorer := strategy.NewScorer(strategy.ScorerConfig{
		TrendEstimator: cfg.TrendEstimator,
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

	b := bot.New(cfg, agg, scorer, sim, n, j)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		b.Run(ctx)
	}()

	var server *api.Server
	if cfg.APIListenAddr != "" {
		server = api.NewServer(cfg.APIListenAddr, b, sim)
		go func() {
			log.Printf("Status API listening on %s", cfg.APIListenAddr)
			if err := server.Start(); err != nil {
				log.Printf("Status API stopped: %v", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down gracefully...")
	cancel()
	wg.Wait()

	if server != nil {
		if err := server.Shutdown(); err != nil {
			log.Printf("Error during API shutdown: %v", err)
		}
	}

	log.Println("\n" + b.Summary())
}

// buildProviders assembles the provider list in the configured priority
// order. Wallex needs an API key and is skipped without one.
func buildProviders(cfg config.Config) []market.Provider {
	var providers []market.Provider
	for _, name := range cfg.Providers {
		switch strings.ToLower(name) {
		case "binance":
			providers = append(providers, market.NewBinanceProvider(cfg.FetchTimeout))
		case "coingecko":
			providers = append(providers, market.NewCoinGeckoProvider(cfg.FetchTimeout))
		case "coinbase":
			providers = append(providers, market.NewCoinbaseProvider(cfg.FetchTimeout))
		case "wallex":
			if cfg.WallexAPIKey == "" {
				log.Println("Skipping wallex provider: no API key configured")
				continue
			}
			providers = append(providers, market.NewWallexProvider(cfg.WallexAPIKey))
		}
	}
	return providers
}
