package ibge

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/socialmapbr/vulnidx/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	cfg := &config.IBGEEnvConfig{IBGEBaseURL: ts.URL}
	clientCfg := &config.ClientEnvConfig{ClientTimeout: 5 * time.Second}
	c, err := NewClient(cfg, clientCfg)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNewClient_NilConfig(t *testing.T) {
	if _, err := NewClient(nil, nil); err == nil {
		t.Fatal("expected error when cfg is nil")
	}
}

func TestMunicipalities_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/localidades/municipios" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"id":3550308,"nome":"São Paulo","microrregiao":{"mesorregiao":{"UF":{"sigla":"SP"}}}},
			{"id":3304557,"nome":"Rio de Janeiro","microrregiao":{"mesorregiao":{"UF":{"sigla":"RJ"}}}}
		]`)
	})

	ms, raw, err := c.Municipalities()
	if err != nil {
		t.Fatalf("Municipalities: %v", err)
	}
	if len(raw) == 0 {
		t.Fatal("expected raw body for snapshotting")
	}
	if len(ms) != 2 {
		t.Fatalf("expected 2 municipalities, got %d", len(ms))
	}
	if ms[0].ID != 3550308 || ms[0].Name != "São Paulo" || ms[0].UF != "SP" {
		t.Fatalf("unexpected municipality: %+v", ms[0])
	}
}

func TestMunicipalities_HTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	if _, _, err := c.Municipalities(); err == nil {
		t.Fatal("expected error")
	}
}

func TestPopulationProjections_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/projecoes/populacao/municipios" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"id":3550308,"municipio":"São Paulo","populacao":11451999},
			{"id":0,"municipio":"sem id","populacao":1}
		]`)
	})

	records, _, err := c.PopulationProjections()
	if err != nil {
		t.Fatalf("PopulationProjections: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records without id must be skipped, got %d records", len(records))
	}
	if records[0].Populacao != 11451999 {
		t.Fatalf("unexpected population %f", records[0].Populacao)
	}
}
