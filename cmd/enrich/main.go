package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/socialmapbr/vulnidx/internal/config"
	"github.com/socialmapbr/vulnidx/internal/enrich"
	"github.com/socialmapbr/vulnidx/internal/store"
	"github.com/socialmapbr/vulnidx/internal/utils/logger"
)

func main() {
	logger.Init()

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

	ms, err := st.Municipalities()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load municipalities")
	}
	if len(ms) == 0 {
		log.Fatal().Msg("no municipalities stored; run cmd/extract with -municipios first")
	}

	pops, source, err := st.PopulationPreferReal()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load population")
	}
	if len(pops) == 0 {
		log.Fatal().Msg("no population stored; run cmd/extract with -population, -sidra-pop or -seed first")
	}

	rows := enrich.Merge(ms, pops)
	if err := st.SaveEnriched(rows); err != nil {
		log.Fatal().Err(err).Msg("failed to save enriched rows")
	}
	log.Info().Int("rows", len(rows)).Str("population_source", string(source)).Msg("enriched table stored")
}
