package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finsight/equity-advisor/internal/clients/yahoo"
	"github.com/finsight/equity-advisor/internal/config"
	"github.com/finsight/equity-advisor/internal/database"
	"github.com/finsight/equity-advisor/internal/domain"
	"github.com/finsight/equity-advisor/internal/modules/analysis"
	"github.com/finsight/equity-advisor/internal/modules/analysis/api"
	"github.com/finsight/equity-advisor/internal/modules/history"
	"github.com/finsight/equity-advisor/internal/modules/recommendation"
	"github.com/finsight/equity-advisor/internal/scheduler"
	"github.com/finsight/equity-advisor/internal/server"
	"github.com/finsight/equity-advisor/pkg/logger"
)

func main() {
	// Load configuration first so the log level can honor it
	cfg, err := config.Load()
	if err != nil {
		log := logger.New(logger.Config{Level: "info", Pretty: true})
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting Equity Advisor")

	// Initialize database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	repo := history.NewRepository(db, log)

	// Initialize scheduler and register background jobs
	sched := scheduler.New(log)
	sched.Start()
	defer sched.Stop()

	cleanup := history.NewCleanupJob(repo, cfg.HistoryRetentionDays, log)
	if err := sched.AddJob("@daily", cleanup); err != nil {
		log.Fatal().Err(err).Msg("Failed to register cleanup job")
	}

	// Analysis pipeline and HTTP surface
	service := analysis.NewService(log)
	fetcher := yahoo.NewClient(log)

	handlers := api.NewHandlers(api.Config{
		Service:     service,
		Repo:        repo,
		Fetcher:     fetcher,
		Defaults:    scoringDefaults(cfg),
		DefaultTier: recommendation.ParseTier(cfg.DefaultTier),
		Log:         log,
	})

	srv := server.New(server.Config{
		Port:     cfg.Port,
		Log:      log,
		Analysis: handlers,
		DevMode:  cfg.DevMode,
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

// scoringDefaults builds the model parameters from the engine defaults
// plus any environment overrides.
func scoringDefaults(cfg *config.Config) domain.ScoringConfig {
	defaults := domain.DefaultScoringConfig()

	if cfg.RiskFreeRate > 0 {
		defaults.RiskFreeRate = cfg.RiskFreeRate
	}
	if cfg.MarketRiskPremium > 0 {
		defaults.MarketRiskPremium = cfg.MarketRiskPremium
	}
	if cfg.TerminalGrowth > 0 {
		defaults.TerminalGrowth = cfg.TerminalGrowth
	}
	if cfg.IndustryPE > 0 {
		defaults.IndustryPE = cfg.IndustryPE
	}
	if cfg.IndustryPB > 0 {
		defaults.IndustryPB = cfg.IndustryPB
	}

	return defaults
}
