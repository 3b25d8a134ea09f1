// Package server exposes the generation engine over HTTP. The main endpoint
// is POST /api/generate, which runs one orchestration turn and streams
// progress to the client as server-sent events; the remaining endpoints are
// plain JSON reads over the project store.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ShayCichocki/appforge/internal/agents"
	"github.com/ShayCichocki/appforge/internal/orchestrator"
	"github.com/ShayCichocki/appforge/internal/store"
)

// DefaultAddr is the listen address used when Config.Addr is empty.
const DefaultAddr = "127.0.0.1:8090"

// UsageSource reports cumulative token usage. *api.TokenTracker satisfies it.
type UsageSource interface {
	Total() (input, output int64)
}

// Config contains configuration options for the Server.
type Config struct {
	// Store persists projects, files, and conversation history. Required.
	Store *store.Store
	// Generator produces model completions. Required. It is shared across
	// requests; a fresh orchestrator is built per request on top of it.
	Generator orchestrator.Generator
	// Agents is the role registry used for every request. If nil, the
	// built-in default registry is used.
	Agents *agents.Registry
	// Usage, when set, is sampled around each turn so token counts can be
	// recorded against the project.
	Usage UsageSource
	// Addr is the listen address. If empty, DefaultAddr is used.
	Addr string
	// Logger receives debug traces. If nil, logging is disabled.
	Logger *orchestrator.DebugLogger
}

// Server provides the HTTP API for the generation engine.
type Server struct {
	store     *store.Store
	generator orchestrator.Generator
	agents    *agents.Registry
	usage     UsageSource
	addr      string
	logger    *orchestrator.DebugLogger
	mux       *http.ServeMux
}

// New creates a Server and registers its routes.
func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("server config requires a store")
	}
	if cfg.Generator == nil {
		return nil, fmt.Errorf("server config requires a generator")
	}
	if cfg.Agents == nil {
		cfg.Agents = agents.NewRegistry()
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = orchestrator.NopLogger()
	}

	s := &Server{
		store:     cfg.Store,
		generator: cfg.Generator,
		agents:    cfg.Agents,
		usage:     cfg.Usage,
		addr:      cfg.Addr,
		logger:    cfg.Logger,
		mux:       http.NewServeMux(),
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("POST /api/generate", s.handleGenerate)
	s.mux.HandleFunc("GET /api/agents", s.handleListAgents)
	s.mux.HandleFunc("GET /api/projects", s.handleListProjects)
	s.mux.HandleFunc("GET /api/projects/{id}", s.handleGetProject)
	s.mux.HandleFunc("DELETE /api/projects/{id}", s.handleDeleteProject)
	s.mux.HandleFunc("GET /api/projects/{id}/files", s.handleProjectFiles)
	s.mux.HandleFunc("GET /api/projects/{id}/messages", s.handleProjectMessages)
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Handler returns the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	return CORS(s.mux)
}

// Serve starts the server and blocks until ctx is cancelled or the listener
// fails. Cancellation triggers a graceful shutdown with a short drain window.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:        s.addr,
		Handler:     s.Handler(),
		ReadTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
		<-errCh
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.agents.All())
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.store.ListProjects()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if projects == nil {
		projects = []store.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	project, err := s.store.GetProject(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if project == nil {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}

	fileCount, err := s.store.CountProjectFiles(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	in, out, err := s.store.UsageTotals(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"project":   project,
		"fileCount": fileCount,
		"usage": map[string]int64{
			"inputTokens":  in,
			"outputTokens": out,
		},
	})
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.store.DeleteProject(id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleProjectFiles(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	project, err := s.store.GetProject(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if project == nil {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}

	files, err := s.store.GetProjectFiles(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if files == nil {
		files = []store.ProjectFile{}
	}
	writeJSON(w, http.StatusOK, files)
}

func (s *Server) handleProjectMessages(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	msgs, err := s.store.RecentMessages(id, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if msgs == nil {
		msgs = []store.Message{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// CORS allows browser clients on other origins to call the API.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
