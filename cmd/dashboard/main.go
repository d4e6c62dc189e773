package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/socialmapbr/vulnidx/internal/config"
	"github.com/socialmapbr/vulnidx/internal/dashboard"
	"github.com/socialmapbr/vulnidx/internal/store"
	"github.com/socialmapbr/vulnidx/internal/utils/logger"
)

func main() {
	logger.Init()
	log.Info().Msg("Starting dashboard...")

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env not loaded; continuing with existing environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load environment configuration")
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := dashboard.NewServer(&cfg.ServerEnvConfig, st)
	if err := srv.Start(ctx); err != nil {
		log.Error().Err(err).Msg("dashboard shutdown failed")
	}
	log.Info().Msg("dashboard stopped")
}
