// Package enrich joins the municipality registry with population figures
// and builds the entity table handed to the index computation.
package enrich

import (
	"github.com/rs/zerolog/log"

	"github.com/socialmapbr/vulnidx/internal/core"
	"github.com/socialmapbr/vulnidx/internal/table"
)

// ChoosePopulation prefers real population records over the synthetic
// seed, falling back to the seed when no real records exist.
func ChoosePopulation(real, seed []core.PopulationRecord) ([]core.PopulationRecord, core.PopulationSource) {
	if len(real) > 0 {
		return real, core.SourceReal
	}
	log.Warn().Msg("no real population records, falling back to synthetic seed")
	return seed, core.SourceSeed
}

// Merge left-joins municipalities with population records on municipality
// id. The output has one row per municipality, in municipality order;
// municipalities without a matching record keep a nil Populacao.
func Merge(ms []core.Municipality, pops []core.PopulationRecord) []core.EnrichedRow {
	byID := make(map[int64]float64, len(pops))
	for _, p := range pops {
		byID[p.MunicipioID] = p.Populacao
	}

	rows := make([]core.EnrichedRow, len(ms))
	matched := 0
	for i, m := range ms {
		rows[i] = core.EnrichedRow{
			MunicipioID: m.ID,
			Municipio:   m.Name,
			UF:          m.UF,
		}
		if v, ok := byID[m.ID]; ok {
			pop := v
			rows[i].Populacao = &pop
			matched++
		}
	}

	log.Info().Int("municipalities", len(ms)).Int("matched", matched).Msg("merged population into municipalities")
	return rows
}

// BuildEntityTable converts enriched rows into the entity table, keeping
// row order. A nil Populacao stays missing rather than becoming zero; the
// fill to zero happens inside the index computation.
func BuildEntityTable(rows []core.EnrichedRow) *table.Table {
	t := table.New("municipio", "uf", "populacao")
	for _, r := range rows {
		row := table.Row{
			ID:     r.MunicipioID,
			Labels: map[string]string{"municipio": r.Municipio, "uf": r.UF},
			Values: map[string]float64{},
		}
		if r.Populacao != nil {
			row.Values["populacao"] = *r.Populacao
		}
		t.Append(row)
	}
	return t
}
