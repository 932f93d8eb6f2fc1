// Package server exposes one analysis snapshot over a read-only HTTP
// JSON API plus an embedded dependency-graph page. The snapshot is
// handed in at startup and never mutated; rerunning the analysis means
// restarting the server.
package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/DrSkyle/tagaudit/pkg/analyzer"
)

//go:embed index.html
var indexHTML []byte

// DefaultSimilarityThreshold filters /api/similar results when the
// request carries no threshold parameter.
const DefaultSimilarityThreshold = 0.7

// Config holds server configuration.
type Config struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:         8000,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server serves one immutable snapshot.
type Server struct {
	httpServer *http.Server
	snapshot   *analyzer.Snapshot
	logger     *slog.Logger
	config     *Config
}

// New creates a server over a completed analysis snapshot.
func New(snap *analyzer.Snapshot, logger *slog.Logger, config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		snapshot: snap,
		logger:   logger,
		config:   config,
	}
}

// Handler builds the route table. Exposed separately so tests can drive
// it through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/modules", s.handleModules)
	mux.HandleFunc("GET /api/modules/{path...}", s.handleModuleDetails)
	mux.HandleFunc("GET /api/dependencies", s.handleDependencies)
	mux.HandleFunc("GET /api/similar/{path...}", s.handleSimilar)

	return s.loggingMiddleware(mux)
}

// Start runs the server until the context is cancelled or an interrupt
// arrives, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("Visualization server listening", "port", s.config.Port)
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errChan:
		return err
	case <-quit:
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("Request handled",
			"method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"modules": len(s.snapshot.Modules),
	})
}

// moduleListEntry is the /api/modules row shape.
type moduleListEntry struct {
	Path         string `json:"path"`
	Variables    int    `json:"variables"`
	Outputs      int    `json:"outputs"`
	Resources    int    `json:"resources"`
	Dependencies int    `json:"dependencies"`
}

func (s *Server) handleModules(w http.ResponseWriter, _ *http.Request) {
	entries := make([]moduleListEntry, 0, len(s.snapshot.Modules))
	for _, path := range s.snapshot.ModulePaths() {
		mod := s.snapshot.Modules[path]
		entries = append(entries, moduleListEntry{
			Path:         path,
			Variables:    len(mod.Variables),
			Outputs:      len(mod.Outputs),
			Resources:    len(mod.Resources),
			Dependencies: len(mod.Dependencies),
		})
	}
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{"modules": entries})
}

func (s *Server) handleModuleDetails(w http.ResponseWriter, r *http.Request) {
	path := r.PathValue("path")
	rep, err := s.snapshot.ModuleReport(path)
	if err != nil {
		s.jsonError(w, http.StatusNotFound, "Module not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, rep)
}

func (s *Server) handleDependencies(w http.ResponseWriter, _ *http.Request) {
	type node struct {
		ID    string `json:"id"`
		Group int    `json:"group"`
	}
	type link struct {
		Source string `json:"source"`
		Target string `json:"target"`
		Value  int    `json:"value"`
	}

	var nodes []node
	for _, n := range s.snapshot.Graph.Nodes() {
		group := 1
		if !n.Analyzed {
			group = 2
		}
		nodes = append(nodes, node{ID: n.ID, Group: group})
	}

	var links []link
	for _, e := range s.snapshot.Graph.Edges() {
		links = append(links, link{Source: e.Source, Target: e.Target, Value: 1})
	}

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"nodes": nodes,
		"links": links,
	})
}

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	path := r.PathValue("path")

	threshold := DefaultSimilarityThreshold
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 || parsed > 1 {
			s.jsonError(w, http.StatusBadRequest, "threshold must be a number in [0, 1]")
			return
		}
		threshold = parsed
	}

	similar, err := s.snapshot.FindSimilar(path, threshold)
	if err != nil {
		s.jsonError(w, http.StatusNotFound, "Module not found")
		return
	}
	if similar == nil {
		similar = []analyzer.SimilarModule{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"module":    path,
		"threshold": threshold,
		"similar":   similar,
	})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to encode response", "error", err)
	}
}

func (s *Server) jsonError(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"detail": message})
}
