package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/napolitain/settlers-combat/internal/armyparse"
	"github.com/napolitain/settlers-combat/internal/loader"
	"github.com/napolitain/settlers-combat/internal/models"
	"github.com/napolitain/settlers-combat/internal/store"
	"github.com/napolitain/settlers-combat/internal/units"
)

// testServer creates a server backed by a fresh SQLite history
func testServer(t *testing.T) *server {
	t.Helper()

	reports, err := store.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "reports.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { reports.Close() })

	return &server{
		cfg: &models.Config{
			Simulations:  50,
			Destructions: 2,
			Workers:      2,
			Seed:         1,
		},
		db:             units.Default(),
		reports:        reports,
		logger:         zap.NewNop(),
		parse:          armyparse.Options{CoerceFactions: true},
		maxSimulations: 1000,
	}
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestUnits(t *testing.T) {
	h := testServer(t).routes()

	rec := do(t, h, http.MethodGet, "/api/units", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/units = %d", rec.Code)
	}
	var all []loader.UnitJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &all); err != nil {
		t.Fatalf("decode units: %v", err)
	}
	if len(all) != units.Default().Len() {
		t.Errorf("got %d units, want %d", len(all), units.Default().Len())
	}

	rec = do(t, h, http.MethodGet, "/api/units?faction=general", nil)
	var generals []loader.UnitJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &generals); err != nil {
		t.Fatalf("decode generals: %v", err)
	}
	if len(generals) == 0 || len(generals) >= len(all) {
		t.Errorf("faction filter returned %d of %d units", len(generals), len(all))
	}

	if rec := do(t, h, http.MethodGet, "/api/units?faction=dragons", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad faction = %d, want 400", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/api/units/bowmen", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Bowman") {
		t.Errorf("GET /api/units/bowmen = %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, h, http.MethodGet, "/api/units/dragon", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown unit = %d, want 404", rec.Code)
	}
}

func TestSimulateAndReports(t *testing.T) {
	h := testServer(t).routes()

	scenario := models.Scenario{
		Name:        "api",
		Simulations: 40,
		Left:        models.SideSpec{Army: "1 General 60 Soldier"},
		Right: models.SideSpec{
			Army: "10 Thug",
			Camp: models.CampSpec{Name: "Hut", HitPoints: 200},
		},
	}
	rec := do(t, h, http.MethodPost, "/api/simulate", scenario)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /api/simulate = %d %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Report models.Report `json:"report"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if resp.Report.ID == "" || resp.Report.Name != "api" || resp.Report.Simulations != 40 {
		t.Errorf("unexpected report header: %+v", resp.Report)
	}
	if len(resp.Report.Battles) != 1 {
		t.Fatalf("got %d battles, want 1", len(resp.Report.Battles))
	}

	rec = do(t, h, http.MethodGet, "/api/reports", nil)
	var list []models.ReportSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].ID != resp.Report.ID {
		t.Errorf("history = %+v", list)
	}

	rec = do(t, h, http.MethodGet, "/api/reports/"+resp.Report.ID, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("GET report = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/reports/missing", nil); rec.Code != http.StatusNotFound {
		t.Errorf("missing report = %d, want 404", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/reports?limit=x", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit = %d, want 400", rec.Code)
	}
}

func TestSimulate_Rejects(t *testing.T) {
	h := testServer(t).routes()

	cases := map[string]any{
		"unknown field": map[string]any{"armies": "x"},
		"missing army":  models.Scenario{Left: models.SideSpec{Army: "10 Recruit"}},
		"unknown unit":  models.Scenario{Left: models.SideSpec{Army: "10 Dragon"}, Right: models.SideSpec{Army: "1 Thug"}},
		"too many":      models.Scenario{Simulations: 5000, Left: models.SideSpec{Army: "10 Recruit"}, Right: models.SideSpec{Army: "1 Thug"}},
		"bad criterion": models.Scenario{Criterion: "1 +", Left: models.SideSpec{Army: "10 Recruit"}, Right: models.SideSpec{Army: "1 Thug"}},
	}
	for name, body := range cases {
		if rec := do(t, h, http.MethodPost, "/api/simulate", body); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: got %d, want 400 (%s)", name, rec.Code, rec.Body.String())
		}
	}
}

func TestNarrateStream(t *testing.T) {
	ts := httptest.NewServer(testServer(t).routes())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/narrate"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	scenario := models.Scenario{
		Seed:  7,
		Left:  models.SideSpec{Army: "1 General 20 Recruit"},
		Right: models.SideSpec{Army: "5 Scavenger"},
	}
	if err := conn.WriteJSON(scenario); err != nil {
		t.Fatalf("write scenario: %v", err)
	}

	events := 0
	for {
		var msg struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("stream ended before the result: %v", err)
		}
		switch msg.Type {
		case "event":
			events++
		case "result":
			var res narrateResult
			if err := json.Unmarshal(msg.Data, &res); err != nil {
				t.Fatalf("decode result: %v", err)
			}
			if !res.LeftVictorious || res.Seed != 7 {
				t.Errorf("unexpected result: %+v", res)
			}
			if events == 0 {
				t.Error("no narration events before the result")
			}
			return
		default:
			t.Fatalf("unexpected message %s: %s", msg.Type, msg.Data)
		}
	}
}

func TestNarrateOrigin(t *testing.T) {
	srv := testServer(t)
	srv.cfg.Origins = []string{"https://planner.example"}
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/narrate"
	tests := []struct {
		origin string
		ok     bool
	}{
		{"", true},
		{ts.URL, true},
		{"https://planner.example", true},
		{"http://evil.example", false},
		{"https://planner.example.evil", false},
	}
	for _, tt := range tests {
		header := http.Header{}
		if tt.origin != "" {
			header.Set("Origin", tt.origin)
		}
		conn, resp, err := websocket.DefaultDialer.Dial(url, header)
		if tt.ok {
			if err != nil {
				t.Errorf("origin %q: dial: %v", tt.origin, err)
				continue
			}
			conn.Close()
			continue
		}
		if err == nil {
			conn.Close()
			t.Errorf("origin %q: handshake accepted", tt.origin)
			continue
		}
		if resp == nil || resp.StatusCode != http.StatusForbidden {
			t.Errorf("origin %q: want 403, got %v", tt.origin, resp)
		}
	}
}
