// Package ibge provides a client for the IBGE servicodados API
// (municipality registry and population projections).
package ibge

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/socialmapbr/vulnidx/internal/config"
	"github.com/socialmapbr/vulnidx/internal/core"
)

// ClientInterface is the interface for the IBGE client methods used by
// the extract stage. Each call returns the decoded records alongside the
// raw response body so the caller can archive the snapshot.
type ClientInterface interface {
	Municipalities() ([]core.Municipality, []byte, error)
	PopulationProjections() ([]core.PopulationRecord, []byte, error)
}

// Client is a REST client wrapper for the IBGE servicodados API.
type Client struct {
	cfg    *config.IBGEEnvConfig
	client *resty.Client
}

// NewClient constructs a new IBGE client.
func NewClient(cfg *config.IBGEEnvConfig, clientCfg *config.ClientEnvConfig) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("ibge env configuration cannot be nil")
	}

	client := resty.New().
		SetBaseURL(cfg.IBGEBaseURL).
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal)
	if clientCfg != nil {
		client.SetTimeout(clientCfg.ClientTimeout)
	}

	return &Client{
		cfg:    cfg,
		client: client,
	}, nil
}

// Municipalities fetches the full municipality registry.
func (c *Client) Municipalities() ([]core.Municipality, []byte, error) {
	var out []municipioPayload
	resp, err := c.client.R().
		SetResult(&out).
		Get("/localidades/municipios")
	if err != nil {
		log.Error().Err(err).Msg("localidades/municipios request failed")
		return nil, nil, fmt.Errorf("get municipalities: %w", err)
	}
	if resp.IsError() {
		log.Error().Int("status", resp.StatusCode()).Str("body", resp.String()).Msg("localidades/municipios non-2xx")
		return nil, nil, fmt.Errorf("get municipalities status %d: %s", resp.StatusCode(), resp.String())
	}

	ms := make([]core.Municipality, 0, len(out))
	for _, m := range out {
		if m.ID == 0 {
			continue
		}
		ms = append(ms, core.Municipality{
			ID:   m.ID,
			Name: m.Nome,
			UF:   m.Microrregiao.Mesorregiao.UF.Sigla,
		})
	}
	log.Info().Int("count", len(ms)).Msg("fetched IBGE municipalities")
	return ms, resp.Body(), nil
}

// PopulationProjections fetches the per-municipality population
// projections. The endpoint intermittently returns 503; callers that need
// resilience should fall back to SIDRA or the synthetic seed.
func (c *Client) PopulationProjections() ([]core.PopulationRecord, []byte, error) {
	var out []projecaoPayload
	resp, err := c.client.R().
		SetResult(&out).
		Get("/projecoes/populacao/municipios")
	if err != nil {
		log.Error().Err(err).Msg("projecoes/populacao request failed")
		return nil, nil, fmt.Errorf("get population projections: %w", err)
	}
	if resp.IsError() {
		log.Error().Int("status", resp.StatusCode()).Str("body", resp.String()).Msg("projecoes/populacao non-2xx")
		return nil, nil, fmt.Errorf("get population projections status %d: %s", resp.StatusCode(), resp.String())
	}

	records := make([]core.PopulationRecord, 0, len(out))
	for _, p := range out {
		if p.ID == 0 {
			continue
		}
		records = append(records, core.PopulationRecord{
			MunicipioID: p.ID,
			Municipio:   p.Municipio,
			Populacao:   p.Populacao,
		})
	}
	log.Info().Int("count", len(records)).Msg("fetched IBGE population projections")
	return records, resp.Body(), nil
}
