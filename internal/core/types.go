// Package core holds the domain types shared across pipeline stages.
package core

// PopulationSource tags where a population figure came from.
type PopulationSource string

const (
	// SourceReal marks population figures fetched from IBGE/SIDRA.
	SourceReal PopulationSource = "real"
	// SourceSeed marks deterministic synthetic fallback figures.
	SourceSeed PopulationSource = "seed"
)

// Municipality is one entry of the IBGE municipality registry.
type Municipality struct {
	ID   int64  `json:"municipio_id"`
	Name string `json:"municipio"`
	UF   string `json:"uf"`
}

// PopulationRecord is a normalized population figure for one municipality.
type PopulationRecord struct {
	MunicipioID int64   `json:"municipio_id"`
	Municipio   string  `json:"municipio"`
	Populacao   float64 `json:"populacao"`
}

// EnrichedRow is a municipality joined with its population figure.
// Populacao is nil when no population record matched the municipality.
type EnrichedRow struct {
	MunicipioID int64    `json:"municipio_id"`
	Municipio   string   `json:"municipio"`
	UF          string   `json:"uf"`
	Populacao   *float64 `json:"populacao"`
}

// IndexRecord is one scored municipality, the pipeline's final output.
type IndexRecord struct {
	MunicipioID int64    `json:"municipio_id"`
	Municipio   string   `json:"municipio"`
	UF          string   `json:"uf"`
	Populacao   *float64 `json:"populacao"`
	VulnOverall float64  `json:"vuln_overall"`
}
