package sidra

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/socialmapbr/vulnidx/internal/core"
)

// ErrSchemaMismatch is returned when a payload row lacks the columns the
// normalization contract requires.
var ErrSchemaMismatch = errors.New("sidra payload does not match the D1C/D1N/V schema")

// municipality names arrive as "Nome - UF"
var ufSuffix = regexp.MustCompile(` - [A-Z]{2}$`)

// Normalize converts a SIDRA payload into population records under an
// explicit schema contract: every data row must carry D1C (territory
// code), D1N (territory name) and V (value). Rows whose code is not an
// integer are dropped; values keep SIDRA's pt-BR formatting conventions
// (dot as thousands separator, comma as decimal separator) and parse to 0
// when non-numeric (SIDRA uses "..." and "-" as missing markers).
func Normalize(p Payload) ([]core.PopulationRecord, error) {
	rows := p.DataRows()
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty payload: %w", ErrSchemaMismatch)
	}

	records := make([]core.PopulationRecord, 0, len(rows))
	for i, row := range rows {
		code, okCode := row["D1C"]
		name, okName := row["D1N"]
		value, okValue := row["V"]
		if !okCode || !okName || !okValue {
			return nil, fmt.Errorf("row %d: %w", i, ErrSchemaMismatch)
		}

		id, err := strconv.ParseInt(strings.TrimSpace(code), 10, 64)
		if err != nil {
			continue
		}

		records = append(records, core.PopulationRecord{
			MunicipioID: id,
			Municipio:   ufSuffix.ReplaceAllString(name, ""),
			Populacao:   parseValue(value),
		})
	}

	return records, nil
}

func parseValue(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
