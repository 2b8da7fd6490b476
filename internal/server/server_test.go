package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/msmobility/silo-sub013/pkg/market"
	"github.com/msmobility/silo-sub013/pkg/scenario"
)

const exampleProject = "../../examples/small-town"

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	_, ts := newTestServer(t)
	return ts
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	srv, err := New(exampleProject, 0, scenario.RunConfig{Seed: 42, Years: 1, Strict: true}, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestSummaryAndRegions(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/api/summary")
	if err != nil {
		t.Fatalf("GET summary: %v", err)
	}
	var summary map[string]any
	decode(t, resp, &summary)
	if summary["households"].(float64) != 26 {
		t.Errorf("households = %v, want 26", summary["households"])
	}
	if summary["next_year"].(float64) != 2030 {
		t.Errorf("next_year = %v, want 2030", summary["next_year"])
	}

	resp, err = http.Get(ts.URL + "/api/regions")
	if err != nil {
		t.Fatalf("GET regions: %v", err)
	}
	var regions []map[string]any
	decode(t, resp, &regions)
	if len(regions) != 3 {
		t.Errorf("got %d regions, want 3", len(regions))
	}
}

func TestValidationEndpoint(t *testing.T) {
	ts := testServer(t)
	resp, err := http.Get(ts.URL + "/api/validation")
	if err != nil {
		t.Fatalf("GET validation: %v", err)
	}
	var report map[string]any
	decode(t, resp, &report)
	if report["valid"] != true {
		t.Errorf("example scenario reported invalid: %v", report["summary"])
	}
}

func TestSimulateAdvancesYears(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Post(ts.URL+"/api/simulate?years=2", "application/json", nil)
	if err != nil {
		t.Fatalf("POST simulate: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body struct {
		Years    []yearSummary `json:"years"`
		NextYear int           `json:"next_year"`
	}
	decode(t, resp, &body)
	if len(body.Years) != 2 || body.NextYear != 2032 {
		t.Fatalf("ran %d years, next %d; want 2 and 2032", len(body.Years), body.NextYear)
	}
	for _, y := range body.Years {
		if y.Households != 26 {
			t.Errorf("year %d households = %d, want 26", y.Year, y.Households)
		}
		if y.Stayed+y.Moved+y.FailedNoRegion+y.FailedNoDwelling != y.Households {
			t.Errorf("year %d outcomes do not add up: %+v", y.Year, y)
		}
	}

	resp, err = http.Get(ts.URL + "/api/years")
	if err != nil {
		t.Fatalf("GET years: %v", err)
	}
	var years []yearSummary
	decode(t, resp, &years)
	if len(years) != 2 {
		t.Errorf("history has %d years, want 2", len(years))
	}
}

func TestSimulateRejectsBadYears(t *testing.T) {
	ts := testServer(t)
	for _, q := range []string{"0", "abc", "1000"} {
		resp, err := http.Post(ts.URL+"/api/simulate?years="+q, "application/json", nil)
		if err != nil {
			t.Fatalf("POST simulate: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("years=%s: status = %d, want 400", q, resp.StatusCode)
		}
	}
}

func TestSimulateHaltsAfterInvariantViolation(t *testing.T) {
	srv, ts := newTestServer(t)

	// Occupy a listed vacant dwelling behind the vacancy list's back.
	for _, d := range srv.store.Dwellings() {
		if d.IsVacant() {
			d.Resident = market.HouseholdID(9999)
			break
		}
	}

	resp, err := http.Post(ts.URL+"/api/simulate", "", nil)
	if err != nil {
		t.Fatalf("POST simulate: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("first simulate status = %d, want 500", resp.StatusCode)
	}

	resp, err = http.Post(ts.URL+"/api/simulate", "", nil)
	if err != nil {
		t.Fatalf("POST simulate: %v", err)
	}
	var body map[string]string
	decode(t, resp, &body)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("simulate after a fatal error: status = %d, want 409", resp.StatusCode)
	}
	if !strings.Contains(body["error"], "halted") {
		t.Errorf("error = %q, want it to mention the halt", body["error"])
	}
}
