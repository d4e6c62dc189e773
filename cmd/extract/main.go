package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/socialmapbr/vulnidx/internal/config"
	"github.com/socialmapbr/vulnidx/internal/core"
	"github.com/socialmapbr/vulnidx/internal/enrich"
	"github.com/socialmapbr/vulnidx/internal/ibge"
	"github.com/socialmapbr/vulnidx/internal/sidra"
	"github.com/socialmapbr/vulnidx/internal/store"
	"github.com/socialmapbr/vulnidx/internal/table"
	"github.com/socialmapbr/vulnidx/internal/utils/logger"
)

func main() {
	municipios := flag.Bool("municipios", false, "fetch the IBGE municipality registry")
	population := flag.Bool("population", false, "fetch population via IBGE projections")
	sidraPop := flag.Bool("sidra-pop", false, "fetch population via the configured SIDRA table")
	sidraDiscover := flag.Bool("sidra-discover", false, "probe SIDRA candidate tables for municipality-level data")
	seed := flag.Bool("seed", false, "create the synthetic population seed from the stored registry")
	csvOut := flag.String("csv", "", "export the preferred population records as CSV to this path")
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

	if *municipios {
		fetchMunicipalities(cfg, st)
	}
	if *population {
		fetchProjections(cfg, st)
	}
	if *sidraPop {
		fetchSidra(cfg, st, false)
	}
	if *sidraDiscover {
		fetchSidra(cfg, st, true)
	}
	if *seed {
		createSeed(st)
	}
	if *csvOut != "" {
		exportCSV(st, *csvOut)
	}
}

func fetchMunicipalities(cfg *config.AppConfig, st *store.Store) {
	client, err := ibge.NewClient(&cfg.IBGEEnvConfig, &cfg.ClientEnvConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init ibge client")
	}

	ms, raw, err := client.Municipalities()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to fetch municipalities")
	}
	if err := st.SaveSnapshot("ibge_municipios", raw); err != nil {
		log.Error().Err(err).Msg("failed to archive municipalities snapshot")
	}
	if err := st.SaveMunicipalities(ms); err != nil {
		log.Fatal().Err(err).Msg("failed to save municipalities")
	}
	log.Info().Int("count", len(ms)).Msg("municipality registry stored")
}

func fetchProjections(cfg *config.AppConfig, st *store.Store) {
	client, err := ibge.NewClient(&cfg.IBGEEnvConfig, &cfg.ClientEnvConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init ibge client")
	}

	records, raw, err := client.PopulationProjections()
	if err != nil {
		// the projections endpoint is flaky; SIDRA covers the same data
		log.Error().Err(err).Msg("projections fetch failed, retry later or use -sidra-pop")
		return
	}
	if err := st.SaveSnapshot("ibge_population", raw); err != nil {
		log.Error().Err(err).Msg("failed to archive population snapshot")
	}
	if err := st.SavePopulation(records, core.SourceReal); err != nil {
		log.Fatal().Err(err).Msg("failed to save population")
	}
	log.Info().Int("count", len(records)).Msg("population projections stored")
}

func fetchSidra(cfg *config.AppConfig, st *store.Store, discover bool) {
	client, err := sidra.NewClient(&cfg.SidraEnvConfig, &cfg.ClientEnvConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init sidra client")
	}

	var payload sidra.Payload
	tableID := cfg.SidraTable
	level := cfg.SidraLevel
	if discover {
		payload, tableID, level, err = client.DiscoverMunicipalityTable(nil, nil, cfg.SidraMinRows)
		if err != nil {
			log.Fatal().Err(err).Msg("sidra discovery failed")
		}
	} else {
		payload, _, err = client.FetchTable(tableID, level, cfg.SidraPeriod)
		if err != nil {
			log.Fatal().Err(err).Msg("sidra fetch failed")
		}
	}

	records, err := sidra.Normalize(payload)
	if err != nil {
		log.Fatal().Err(err).Int("table", tableID).Msg("sidra normalization failed")
	}
	if err := st.SavePopulation(records, core.SourceReal); err != nil {
		log.Fatal().Err(err).Msg("failed to save population")
	}
	log.Info().Int("count", len(records)).Int("table", tableID).Str("level", level).Msg("sidra population stored")
}

func createSeed(st *store.Store) {
	ms, err := st.Municipalities()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load municipalities")
	}
	if len(ms) == 0 {
		log.Fatal().Msg("no municipalities stored; run with -municipios first")
	}

	records := enrich.SyntheticSeed(ms)
	if err := st.SavePopulation(records, core.SourceSeed); err != nil {
		log.Fatal().Err(err).Msg("failed to save population seed")
	}
	log.Info().Int("count", len(records)).Msg("synthetic population seed stored")
}

func exportCSV(st *store.Store, path string) {
	records, source, err := st.PopulationPreferReal()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load population")
	}

	t := table.New("municipio", "populacao")
	for _, r := range records {
		t.Append(table.Row{
			ID:     r.MunicipioID,
			Labels: map[string]string{"municipio": r.Municipio},
			Values: map[string]float64{"populacao": r.Populacao},
		})
	}

	f, err := os.Create(path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create csv file")
	}
	defer f.Close()

	if err := table.WriteCSV(f, t, "municipio_id"); err != nil {
		log.Fatal().Err(err).Msg("failed to write csv")
	}
	fmt.Printf("exported %d %s population records to %s\n", t.Len(), source, path)
}
