// Package server exposes a loaded scenario over HTTP: market summaries,
// validation findings and on-demand simulation of further years.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/msmobility/silo-sub013/pkg/analytics"
	"github.com/msmobility/silo-sub013/pkg/market"
	"github.com/msmobility/silo-sub013/pkg/relocation"
	"github.com/msmobility/silo-sub013/pkg/scenario"
	"github.com/msmobility/silo-sub013/pkg/validation"
)

// maxYearsPerRequest bounds POST /api/simulate.
const maxYearsPerRequest = 50

// Server serves one scenario. Simulation requests are serialized; the engine
// has a single writer.
type Server struct {
	projectPath string
	port        int
	logger      *slog.Logger
	feed        *feed
	upgrader    websocket.Upgrader

	mu       sync.Mutex
	scenario *scenario.Scenario
	report   *validation.Report
	engine   *relocation.Engine
	store    *market.Store
	nextYear int
	years    []yearSummary
	halted   error // fatal engine error; the market can no longer be simulated
}

type yearSummary struct {
	Year             int   `json:"year"`
	Households       int   `json:"households"`
	Stayed           int   `json:"stayed"`
	Moved            int   `json:"moved"`
	Forced           int   `json:"forced"`
	FailedNoRegion   int   `json:"failed_no_region"`
	FailedNoDwelling int   `json:"failed_no_dwelling"`
	MissingLookups   int64 `json:"missing_lookups"`
}

// New loads and validates the project and builds its engine. A scenario with
// validation errors is refused.
func New(projectPath string, port int, run scenario.RunConfig, logger *slog.Logger, sink relocation.EventSink) (*Server, error) {
	s, err := scenario.LoadProject(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading scenario: %w", err)
	}
	report := validation.ValidateScenario(s)
	if err := report.Err(); err != nil {
		return nil, err
	}
	engine, store, err := relocation.FromScenario(s, run, logger, sink)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	next := run.StartYear
	if next == 0 {
		next = s.StartYear
	}
	return &Server{
		projectPath: projectPath,
		port:        port,
		logger:      logger,
		feed:        newFeed(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true }, // dev server
		},
		scenario: s,
		report:   report,
		engine:   engine,
		store:    store,
		nextYear: next,
	}, nil
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/regions", s.handleRegions)
	mux.HandleFunc("GET /api/validation", s.handleValidation)
	mux.HandleFunc("GET /api/years", s.handleYears)
	mux.HandleFunc("POST /api/simulate", s.handleSimulate)
	mux.HandleFunc("GET /api/feed", s.handleFeed)
	mux.HandleFunc("GET /", s.handleIndex)

	return mux
}

// Start launches the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("relocate server starting", "addr", "http://localhost"+addr, "project", s.projectPath)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html><head><title>relocate</title></head>
<body style="font-family:system-ui">
<h1>%s</h1>
<p>GET /api/summary, /api/regions, /api/validation, /api/years; POST /api/simulate?years=N; websocket /api/feed</p>
</body></html>`, s.scenario.Name)
}

// summary returns the aggregates of the last prepared year, or of the current
// market when no year ran yet. Callers hold s.mu.
func (s *Server) summary() *analytics.MarketSummary {
	if sum := s.engine.Summary(); sum != nil && len(s.years) > 0 {
		return sum
	}
	sum, _ := analytics.Resolve(s.nextYear, s.store, s.engine.Config().FixedMedians)
	return sum
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := s.summary()
	writeJSON(w, http.StatusOK, map[string]any{
		"scenario":   s.scenario.Name,
		"next_year":  s.nextYear,
		"moves":      s.engine.MoveCount(),
		"households": sum.Households,
		"dwellings":  sum.Dwellings,
		"vacant":     sum.Vacant,
		"median":     sum.MedianIncome,
	})
}

func (s *Server) handleRegions(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.summary().Regions)
}

func (s *Server) handleValidation(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.report)
}

func (s *Server) handleYears(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.years)
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	years := 1
	if v := r.URL.Query().Get("years"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxYearsPerRequest {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("years must be an integer in [1, %d]", maxYearsPerRequest),
			})
			return
		}
		years = n
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.halted != nil {
		writeJSON(w, http.StatusConflict, map[string]string{
			"error": fmt.Sprintf("simulation halted: %v", s.halted),
		})
		return
	}

	var ran []yearSummary
	for i := 0; i < years; i++ {
		report, err := s.engine.RunYear(r.Context(), s.nextYear)
		if err != nil {
			s.logger.Error("simulation failed", "year", s.nextYear, "err", err)
			if relocation.IsFatal(err) {
				s.halted = err
			}
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error": err.Error(),
				"years": ran,
			})
			return
		}
		ys := summarizeYear(report)
		s.years = append(s.years, ys)
		ran = append(ran, ys)
		s.nextYear++
		s.feed.publish(feedMessage{Type: "year", NextYear: s.nextYear, Year: &ys})
	}
	writeJSON(w, http.StatusOK, map[string]any{"years": ran, "next_year": s.nextYear})
}

func summarizeYear(r *relocation.YearReport) yearSummary {
	return yearSummary{
		Year:             r.Year,
		Households:       r.Households,
		Stayed:           r.Stayed,
		Moved:            r.Moved,
		Forced:           r.Forced,
		FailedNoRegion:   r.FailedNoRegion,
		FailedNoDwelling: r.FailedNoDwelling,
		MissingLookups:   r.MissingLookups,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
