package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/napolitain/settlers-combat/internal/armyparse"
	"github.com/napolitain/settlers-combat/internal/combat"
	"github.com/napolitain/settlers-combat/internal/loader"
	"github.com/napolitain/settlers-combat/internal/models"
	"github.com/napolitain/settlers-combat/internal/simulate"
	"github.com/napolitain/settlers-combat/internal/store"
	"github.com/napolitain/settlers-combat/internal/units"
)

// server serves simulations, reports and the unit database over HTTP
type server struct {
	cfg            *models.Config
	db             *units.Database
	reports        store.Store // nil disables history
	logger         *zap.Logger
	parse          armyparse.Options
	maxSimulations int
}

// WsMsg is one message of the narration stream
type WsMsg struct {
	Type string `json:"type"` // "event", "result" or "error"
	Data any    `json:"data,omitempty"`
}

// narrateResult is the final message of a narration stream
type narrateResult struct {
	Outcome           string `json:"outcome"`
	LeftVictorious    bool   `json:"left_victorious"`
	Rounds            int    `json:"rounds"`
	LeftLosses        []int  `json:"left_losses"`
	RightLosses       []int  `json:"right_losses"`
	DestructionRounds int    `json:"destruction_rounds,omitempty"`
	Indestructible    bool   `json:"indestructible,omitempty"`
	Seed              uint64 `json:"seed"`
}

// checkOrigin accepts clients without an Origin header, pages served from
// the same host and the configured origins
func (s *server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range s.cfg.Origins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

func (s *server) routes() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/units", s.handleUnits).Methods(http.MethodGet)
	api.HandleFunc("/units/{name}", s.handleUnit).Methods(http.MethodGet)
	api.HandleFunc("/simulate", s.handleSimulate).Methods(http.MethodPost)
	api.HandleFunc("/reports", s.handleReports).Methods(http.MethodGet)
	api.HandleFunc("/reports/{id}", s.handleReport).Methods(http.MethodGet)
	r.HandleFunc("/ws/narrate", s.handleNarrate)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "units": s.db.Len()})
}

func (s *server) handleUnits(w http.ResponseWriter, r *http.Request) {
	list := s.db.All()
	if f := r.URL.Query().Get("faction"); f != "" {
		faction, err := combat.ParseFaction(f)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		filtered := list[:0:0]
		for _, u := range list {
			if u.Faction == faction {
				filtered = append(filtered, u)
			}
		}
		list = filtered
	}

	out := make([]loader.UnitJSON, len(list))
	for i, u := range list {
		out[i] = loader.UnitToJSON(u)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleUnit(w http.ResponseWriter, r *http.Request) {
	u, err := s.db.Find(mux.Vars(r)["name"])
	switch {
	case errors.Is(err, units.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case err != nil:
		writeError(w, http.StatusBadRequest, err)
	default:
		writeJSON(w, http.StatusOK, loader.UnitToJSON(u))
	}
}

// prepare decodes a scenario and resolves it against the settings
func (s *server) prepare(sc *models.Scenario) (*simulate.Prepared, error) {
	sc.ApplyConfig(s.cfg)
	if s.maxSimulations > 0 && sc.Simulations > s.maxSimulations {
		return nil, fmt.Errorf("at most %d simulations per request", s.maxSimulations)
	}
	base := simulate.OptionsFromConfig(s.cfg)
	base.Logger = s.logger
	return simulate.Prepare(armyparse.New(s.db, s.logger), sc, s.parse, base)
}

func (s *server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var sc models.Scenario
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&sc); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid scenario: %w", err))
		return
	}

	prepared, err := s.prepare(&sc)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	report, err := prepared.Run(r.Context())
	if err != nil {
		s.logger.Error("simulation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if s.reports != nil {
		if err := s.reports.Save(r.Context(), report); err != nil {
			s.logger.Warn("failed to save report", zap.String("id", report.ID), zap.Error(err))
		}
	}
	writeJSON(w, http.StatusCreated, map[string]any{"report": report, "warnings": prepared.Warnings})
}

func (s *server) handleReports(w http.ResponseWriter, r *http.Request) {
	if s.reports == nil {
		writeError(w, http.StatusNotImplemented, errors.New("report history is disabled"))
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", v))
			return
		}
		limit = n
	}
	list, err := s.reports.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if list == nil {
		list = []models.ReportSummary{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *server) handleReport(w http.ResponseWriter, r *http.Request) {
	if s.reports == nil {
		writeError(w, http.StatusNotImplemented, errors.New("report history is disabled"))
		return
	}
	report, err := s.reports.Get(r.Context(), mux.Vars(r)["id"])
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
	default:
		writeJSON(w, http.StatusOK, report)
	}
}

// wsWriter forwards each encoded log entry as an event message
type wsWriter struct {
	mu   *sync.Mutex
	conn *websocket.Conn
}

func (w wsWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	msg := WsMsg{Type: "event", Data: json.RawMessage(append([]byte(nil), p...))}
	if err := w.conn.WriteJSON(msg); err != nil {
		return 0, err
	}
	return len(p), nil
}

// handleNarrate reads one scenario from the socket and streams the
// narration of a single battle between the first waves.
func (s *server) handleNarrate(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: s.checkOrigin}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	var mu sync.Mutex
	send := func(msg WsMsg) {
		mu.Lock()
		defer mu.Unlock()
		_ = conn.WriteJSON(msg)
	}

	var sc models.Scenario
	if err := conn.ReadJSON(&sc); err != nil {
		send(WsMsg{Type: "error", Data: fmt.Sprintf("invalid scenario: %v", err)})
		return
	}
	prepared, err := s.prepare(&sc)
	if err != nil {
		send(WsMsg{Type: "error", Data: err.Error()})
		return
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(wsWriter{mu: &mu, conn: conn}), zap.DebugLevel)
	narrator := zap.New(core)

	left, right := prepared.Left.Armies[0].Clone(), prepared.Right.Armies[0].Clone()
	if err := prepared.Left.Decorator.Decorate(left, narrator); err != nil {
		send(WsMsg{Type: "error", Data: err.Error()})
		return
	}
	if err := prepared.Right.Decorator.Decorate(right, narrator); err != nil {
		send(WsMsg{Type: "error", Data: err.Error()})
		return
	}

	n, err := simulate.Narrate(left, right, prepared.Options.Weather, prepared.Options.Seed, narrator)
	if err != nil {
		send(WsMsg{Type: "error", Data: err.Error()})
		return
	}
	send(WsMsg{Type: "result", Data: narrateResult{
		Outcome:           n.Result.String(),
		LeftVictorious:    n.Result.IsLeftVictorious(),
		Rounds:            n.Result.Rounds,
		LeftLosses:        n.LeftLosses,
		RightLosses:       n.RightLosses,
		DestructionRounds: n.DestructionRounds,
		Indestructible:    n.Indestructible,
		Seed:              n.Seed,
	}})
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "battle over"))
}
