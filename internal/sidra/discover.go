package sidra

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// CandidateTables are SIDRA tables known to carry population series; they
// are probed in order during discovery.
var CandidateTables = []int{6579, 1419, 1410, 93, 1688, 204, 262, 205, 59}

// CandidateLevels are the territorial levels probed during discovery,
// most specific (municipality) first.
var CandidateLevels = []string{"n6", "n3", "n4", "n1", "n2", "n5"}

// DiscoverMunicipalityTable probes candidate tables across territorial
// levels and returns the first payload with at least minRows data rows,
// together with the table id and level that produced it. Fetch errors on
// individual candidates are logged and skipped.
func (c *Client) DiscoverMunicipalityTable(candidates []int, levels []string, minRows int) (Payload, int, string, error) {
	if len(candidates) == 0 {
		candidates = CandidateTables
	}
	if len(levels) == 0 {
		levels = CandidateLevels
	}

	for _, tableID := range candidates {
		for _, level := range levels {
			payload, _, err := c.FetchTable(tableID, level, c.cfg.SidraPeriod)
			if err != nil {
				log.Warn().Err(err).Int("table", tableID).Str("level", level).Msg("sidra candidate failed")
				continue
			}
			rows := len(payload.DataRows())
			if rows >= minRows {
				log.Info().Int("table", tableID).Str("level", level).Int("rows", rows).Msg("found municipality-level sidra table")
				return payload, tableID, level, nil
			}
			log.Debug().Int("table", tableID).Str("level", level).Int("rows", rows).Msg("sidra candidate returned too few rows")
		}
	}

	return nil, 0, "", fmt.Errorf("no sidra table with at least %d rows found among %d candidates", minRows, len(candidates))
}
