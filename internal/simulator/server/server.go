// Package server implements the admin/monitoring HTTP surface, in the same
// style as the teacher's nf/upf/internal/server: a chi router with the
// standard middleware stack and a small set of JSON handlers.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/your-org/upfsim/internal/simulator/config"
	"github.com/your-org/upfsim/pkg/model"
)

// entry pairs a run's result with the config that produced it, so /status
// can report both a config summary and the last observed derived counters.
type entry struct {
	cfg *config.Config
	res *model.Result
}

// Store is the set of run results the admin surface can report on, keyed
// by run id, plus a pointer to the most recently completed run. cmd/upfsim
// registers a result after engine.Run completes.
type Store struct {
	mu   sync.RWMutex
	runs map[int]*entry
	last *entry
}

// NewStore returns an empty result store.
func NewStore() *Store { return &Store{runs: make(map[int]*entry)} }

// Put records a completed run's result alongside the config that produced
// it, and marks it as the current/last run.
func (s *Store) Put(cfg *config.Config, res *model.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := &entry{cfg: cfg, res: res}
	s.runs[res.RunID] = e
	s.last = e
}

// Get returns a run's result, if known.
func (s *Store) Get(runID int) (*model.Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.runs[runID]
	if !ok {
		return nil, false
	}
	return e.res, true
}

// Last returns the config and result of the most recently completed run,
// if any run has completed yet.
func (s *Store) Last() (*config.Config, *model.Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return nil, nil, false
	}
	return s.last.cfg, s.last.res, true
}

// Server is the admin HTTP server.
type Server struct {
	store      *Store
	router     *chi.Mux
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer builds the admin server with its routes wired.
func NewServer(store *Store, logger *zap.Logger) *Server {
	s := &Server{store: store, router: chi.NewRouter(), logger: logger}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/ready", s.handleReady)
	s.router.Get("/status", s.handleStatus)
	s.router.Get("/runs/{id}/summary", s.handleRunSummary)
}

// Start serves the admin API on addr (e.g. ":9096"); it blocks until Stop
// is called or the server fails.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	s.logger.Info("starting admin server", zap.String("address", addr))
	return s.httpServer.ListenAndServe()
}

// Stop gracefully stops the admin server.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	cfg, res, ok := s.store.Last()
	if !ok {
		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"service": "upfsim",
			"status":  "no run completed yet",
		})
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"service": "upfsim",
		"config": map[string]interface{}{
			"run_id":               cfg.RunID,
			"upf_case":             cfg.UPFCase,
			"migration_case":       cfg.MigrationCase,
			"max_upfs":             cfg.MaxUPFs,
			"min_upfs":             cfg.MinUPFs,
			"max_sessions_per_upf": cfg.MaxSessionsPerUPF,
			"scale_out_threshold":  cfg.ScaleOutThreshold,
			"scale_in_threshold":   cfg.ScaleInThreshold,
		},
		"counters": lastCounters(res),
		"summary":  res.Summary,
	})
}

// lastCounters reports the most recent derived-counter observation in a
// run's trace, i.e. the state as of the last event processed.
func lastCounters(res *model.Result) map[string]interface{} {
	tr := res.Trace
	counters := map[string]interface{}{}
	if n := len(tr.ActivePDUs); n > 0 {
		counters["active_sessions"] = tr.ActivePDUs[n-1].Value
	}
	if n := len(tr.FreeSlots); n > 0 {
		counters["free_slots"] = tr.FreeSlots[n-1].Value
	}
	if n := len(tr.BusyUPFs); n > 0 {
		counters["busy_upfs"] = tr.BusyUPFs[n-1].Value
	}
	if n := len(tr.IdleUPFs); n > 0 {
		counters["idle_upfs"] = tr.IdleUPFs[n-1].Value
	}
	if n := len(tr.DeployedUPFs); n > 0 {
		counters["deployed_upfs"] = tr.DeployedUPFs[n-1].Value
	}
	if n := len(tr.Utilization); n > 0 {
		counters["utilization"] = tr.Utilization[n-1].Value
	}
	return counters
}

func (s *Server) handleRunSummary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	runID, err := parseRunID(id)
	if err != nil {
		s.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid run id"})
		return
	}

	res, ok := s.store.Get(runID)
	if !ok {
		s.respondJSON(w, http.StatusNotFound, map[string]string{"error": "run not found"})
		return
	}
	s.respondJSON(w, http.StatusOK, res.Summary)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.logger.Error("failed to encode JSON response", zap.Error(err))
		}
	}
}

func parseRunID(s string) (int, error) {
	var n int
	_, err := fmt.Sscan(s, &n)
	return n, err
}
