package enrich

import (
	"github.com/socialmapbr/vulnidx/internal/core"
)

// SyntheticSeed derives a deterministic fallback population for every
// municipality, used when no real population source could be fetched.
// The value is a fixed function of the municipality id so figures vary
// across municipalities but are reproducible run to run.
func SyntheticSeed(ms []core.Municipality) []core.PopulationRecord {
	records := make([]core.PopulationRecord, len(ms))
	for i, m := range ms {
		records[i] = core.PopulationRecord{
			MunicipioID: m.ID,
			Municipio:   m.Name,
			Populacao:   float64(m.ID%100000)*10 + 1000,
		}
	}
	return records
}
