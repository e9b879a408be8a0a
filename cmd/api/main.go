package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"finhealth/pkg/api"
	"finhealth/pkg/config"
	"finhealth/pkg/core/portfolio"
	"finhealth/pkg/core/yahoo"
	"finhealth/pkg/logger"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load(os.Getenv("FINHEALTH_CONFIG"))
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat, cfg.Env)

	provider := yahoo.New(yahoo.Options{
		BaseURL:           cfg.Provider.BaseURL,
		QuoteURL:          cfg.Provider.QuoteURL,
		Timeout:           cfg.ProviderTimeout(),
		RequestsPerSecond: cfg.Provider.RequestsPerSecond,
		Logger:            log,
	})
	service := portfolio.NewService(provider, portfolio.Config{
		CacheTTL: cfg.CacheTTL(),
		Workers:  cfg.FetchWorkers,
		Logger:   log,
	})

	// Keep the watchlist batch warm so dashboard loads never pay the
	// first-fetch latency.
	var scheduler *cron.Cron
	if len(cfg.Prewarm.Watchlist) > 0 {
		scheduler = cron.New()
		_, err := scheduler.AddFunc(cfg.Prewarm.Schedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if _, err := service.Datasets(ctx, cfg.Prewarm.Watchlist); err != nil {
				log.Warn().Err(err).Msg("watchlist prewarm failed")
			}
		})
		if err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.Prewarm.Schedule).Msg("invalid prewarm schedule")
		}
		scheduler.Start()
		log.Info().Strs("watchlist", cfg.Prewarm.Watchlist).
			Str("schedule", cfg.Prewarm.Schedule).Msg("watchlist prewarm scheduled")
	}

	server := api.NewServer(cfg.Addr, api.NewRouter(service, log), log)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatal().Err(err).Msg("server failed")
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutdown requested")
	}

	if scheduler != nil {
		scheduler.Stop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
