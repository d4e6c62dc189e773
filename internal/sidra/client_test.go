package sidra

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/socialmapbr/vulnidx/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	cfg := &config.SidraEnvConfig{
		SidraBaseURL: ts.URL,
		SidraTable:   6579,
		SidraLevel:   "n6",
		SidraPeriod:  "last",
		SidraMinRows: 2,
	}
	clientCfg := &config.ClientEnvConfig{
		ClientTimeout: 5 * time.Second,
		RetryMax:      0,
		RetryWaitMin:  time.Millisecond,
		RetryWaitMax:  time.Millisecond,
	}
	c, err := NewClient(cfg, clientCfg)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func sidraBody(n int) string {
	rows := []string{`{"D1C":"Município (Código)","D1N":"Município","V":"Valor"}`}
	for i := range n {
		rows = append(rows, fmt.Sprintf(`{"D1C":"%d","D1N":"Cidade %d - SP","V":"%d"}`, 3500000+i, i, 1000+i))
	}
	return "[" + strings.Join(rows, ",") + "]"
}

func TestNewClient_NilConfig(t *testing.T) {
	if _, err := NewClient(nil, nil); err == nil {
		t.Fatal("expected error when cfg is nil")
	}
}

func TestFetchTable_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/values/t/6579/n6/all/v/all/p/last" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, sidraBody(3))
	})

	payload, raw, err := c.FetchTable(6579, "n6", "last")
	if err != nil {
		t.Fatalf("FetchTable: %v", err)
	}
	if len(raw) == 0 {
		t.Fatal("expected raw body for snapshotting")
	}
	if got := len(payload.DataRows()); got != 3 {
		t.Fatalf("expected 3 data rows, got %d", got)
	}
	if payload.Header()["D1C"] != "Município (Código)" {
		t.Fatalf("unexpected header: %+v", payload.Header())
	}
}

func TestFetchTable_HTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	if _, _, err := c.FetchTable(6579, "n6", "last"); err == nil {
		t.Fatal("expected error")
	}
}

func TestFetchTable_NoDataRows(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"D1C":"header only"}]`)
	})

	if _, _, err := c.FetchTable(6579, "n6", "last"); err == nil {
		t.Fatal("expected error for payload without data rows")
	}
}

func TestFetchTable_RetriesServerErrors(t *testing.T) {
	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, sidraBody(2))
	}))
	t.Cleanup(ts.Close)

	cfg := &config.SidraEnvConfig{SidraBaseURL: ts.URL, SidraPeriod: "last"}
	clientCfg := &config.ClientEnvConfig{
		ClientTimeout: 5 * time.Second,
		RetryMax:      5,
		RetryWaitMin:  time.Millisecond,
		RetryWaitMax:  2 * time.Millisecond,
	}
	c, err := NewClient(cfg, clientCfg)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, _, err := c.FetchTable(6579, "n6", "last"); err != nil {
		t.Fatalf("FetchTable after retries: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestDiscoverMunicipalityTable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// table 93 is too small, 6579 is municipality-level
		if strings.HasPrefix(r.URL.Path, "/values/t/93/") {
			fmt.Fprint(w, sidraBody(1))
			return
		}
		fmt.Fprint(w, sidraBody(5))
	})

	payload, tableID, level, err := c.DiscoverMunicipalityTable([]int{93, 6579}, []string{"n6"}, 5)
	if err != nil {
		t.Fatalf("DiscoverMunicipalityTable: %v", err)
	}
	if tableID != 6579 || level != "n6" {
		t.Fatalf("expected table 6579 level n6, got %d %s", tableID, level)
	}
	if len(payload.DataRows()) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(payload.DataRows()))
	}
}

func TestDiscoverMunicipalityTable_NoneFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sidraBody(1))
	})

	if _, _, _, err := c.DiscoverMunicipalityTable([]int{93}, []string{"n6"}, 100); err == nil {
		t.Fatal("expected error when no candidate qualifies")
	}
}
