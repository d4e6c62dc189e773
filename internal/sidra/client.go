// Package sidra provides a client for the IBGE SIDRA aggregated-data API
// and the schema-contract normalization of its payloads into population
// records.
package sidra

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"

	"github.com/socialmapbr/vulnidx/internal/config"
)

// ClientInterface is the interface for the SIDRA client methods used by
// the extract stage.
type ClientInterface interface {
	FetchTable(tableID int, level, period string) (Payload, []byte, error)
	DiscoverMunicipalityTable(candidates []int, levels []string, minRows int) (Payload, int, string, error)
}

// Client is a SIDRA API client. The API intermittently answers 429/5xx,
// so requests go through retryablehttp with exponential backoff.
type Client struct {
	cfg        *config.SidraEnvConfig
	httpClient *retryablehttp.Client
	baseURL    string
}

// NewClient constructs a new SIDRA client.
func NewClient(cfg *config.SidraEnvConfig, clientCfg *config.ClientEnvConfig) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("sidra env configuration cannot be nil")
	}

	client := retryablehttp.NewClient()
	client.Logger = nil
	if clientCfg != nil {
		client.RetryMax = clientCfg.RetryMax
		client.HTTPClient.Timeout = clientCfg.ClientTimeout
		client.RetryWaitMin = clientCfg.RetryWaitMin
		client.RetryWaitMax = clientCfg.RetryWaitMax
	} else {
		client.RetryMax = 5
		client.HTTPClient.Timeout = 30 * time.Second
		client.RetryWaitMin = 500 * time.Millisecond
		client.RetryWaitMax = 20 * time.Second
	}

	log.Debug().
		Str("base_url", cfg.SidraBaseURL).
		Int("retry_max", client.RetryMax).
		Str("timeout", client.HTTPClient.Timeout.String()).
		Msg("sidra client initialized")

	return &Client{
		cfg:        cfg,
		httpClient: client,
		baseURL:    cfg.SidraBaseURL,
	}, nil
}

// FetchTable fetches all values of one SIDRA table at the given
// territorial level and period. Returns the decoded payload and the raw
// response body for snapshotting.
func (c *Client) FetchTable(tableID int, level, period string) (Payload, []byte, error) {
	url := fmt.Sprintf("%s/values/t/%d/%s/all/v/all/p/%s", c.baseURL, tableID, level, period)

	req, err := retryablehttp.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("create sidra request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	log.Debug().Str("url", url).Msg("fetching sidra table")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("sidra request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read sidra response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error().Int("status", resp.StatusCode).Str("url", url).Msg("sidra non-2xx")
		return nil, nil, fmt.Errorf("sidra table %d status %d: %s", tableID, resp.StatusCode, string(body))
	}

	var payload Payload
	if err := sonic.Unmarshal(body, &payload); err != nil {
		return nil, nil, fmt.Errorf("decode sidra response: %w", err)
	}
	if len(payload) < 2 {
		return nil, nil, fmt.Errorf("unexpected sidra response format for table %d: no data rows", tableID)
	}

	log.Info().Int("table", tableID).Str("level", level).Int("rows", len(payload)-1).Msg("fetched sidra table")
	return payload, body, nil
}
