package main

import (
	"flag"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/socialmapbr/vulnidx/internal/config"
	"github.com/socialmapbr/vulnidx/internal/core"
	"github.com/socialmapbr/vulnidx/internal/enrich"
	"github.com/socialmapbr/vulnidx/internal/index"
	"github.com/socialmapbr/vulnidx/internal/store"
	"github.com/socialmapbr/vulnidx/internal/utils/logger"
)

func main() {
	featureList := flag.String("features", "", "comma-separated feature columns (default: all numeric columns)")
	plot := flag.Bool("plot", false, "print a terminal bar chart of the computed scores")
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

	rows, err := st.Enriched()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load enriched rows")
	}
	if len(rows) == 0 {
		log.Fatal().Msg("no enriched rows; run cmd/enrich first")
	}

	var features []string
	if *featureList != "" {
		for _, f := range strings.Split(*featureList, ",") {
			if f = strings.TrimSpace(f); f != "" {
				features = append(features, f)
			}
		}
	}

	t := enrich.BuildEntityTable(rows)
	scores := index.Compute(t, features)

	records := make([]core.IndexRecord, len(rows))
	names := make([]string, len(rows))
	for i, r := range rows {
		records[i] = core.IndexRecord{
			MunicipioID: r.MunicipioID,
			Municipio:   r.Municipio,
			UF:          r.UF,
			Populacao:   r.Populacao,
			VulnOverall: scores[i],
		}
		names[i] = r.Municipio
	}

	if err := st.SaveIndices(records); err != nil {
		log.Fatal().Err(err).Msg("failed to save indices")
	}
	log.Info().Int("rows", len(records)).Msg("vulnerability indices stored")

	if *plot {
		index.PlotScoresTerminal(names, scores, "Vulnerability Index")
	}
}
