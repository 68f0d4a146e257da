//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package server exposes the evaluation service over HTTP: synchronous and
// bulk evaluation, dataset upload, asynchronous jobs and the metrics
// catalog.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"trpc.group/trpc-go/trpc-eval-go/jobs"
	"trpc.group/trpc-go/trpc-eval-go/log"
	"trpc.group/trpc-go/trpc-eval-go/orchestrator"
)

// Service identity reported by the health endpoint.
const (
	ServiceName    = "trpc-eval-go"
	ServiceVersion = "0.1.0"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8080"

// Server routes evaluation requests to the orchestrator.
type Server struct {
	addr            string
	router          *mux.Router
	handler         http.Handler
	orch            *orchestrator.Orchestrator
	store           *jobs.Store
	runner          *jobs.Runner
	apiKeys         [][]byte
	jwtSecret       []byte
	bulkConcurrency int

	httpServer *http.Server
}

// Option configures the Server.
type Option func(*serverOptions)

type serverOptions struct {
	addr            string
	apiKeys         []string
	jwtSecret       string
	jobWorkers      int
	bulkConcurrency int
}

// WithAddress sets the listen address, e.g. ":8080".
func WithAddress(addr string) Option {
	return func(o *serverOptions) { o.addr = addr }
}

// WithAPIKeys sets the accepted X-API-Key values. Empty keys are ignored.
func WithAPIKeys(keys []string) Option {
	return func(o *serverOptions) { o.apiKeys = keys }
}

// WithJWTSecret enables bearer token auth with the given HMAC secret.
func WithJWTSecret(secret string) Option {
	return func(o *serverOptions) { o.jwtSecret = secret }
}

// WithJobWorkers bounds concurrent asynchronous job execution.
func WithJobWorkers(workers int) Option {
	return func(o *serverOptions) { o.jobWorkers = workers }
}

// WithBulkConcurrency bounds the test case fan-out of bulk evaluations.
func WithBulkConcurrency(n int) Option {
	return func(o *serverOptions) { o.bulkConcurrency = n }
}

// New constructs the HTTP server around an orchestrator.
func New(orch *orchestrator.Orchestrator, opt ...Option) (*Server, error) {
	if orch == nil {
		return nil, errors.New("orchestrator is nil")
	}
	opts := &serverOptions{
		addr:            DefaultAddr,
		bulkConcurrency: orchestrator.DefaultBulkConcurrency,
	}
	for _, o := range opt {
		o(opts)
	}
	store := jobs.NewStore()
	runner, err := jobs.NewRunner(store, opts.jobWorkers)
	if err != nil {
		return nil, err
	}
	s := &Server{
		addr:            opts.addr,
		router:          mux.NewRouter(),
		orch:            orch,
		store:           store,
		runner:          runner,
		jwtSecret:       []byte(opts.jwtSecret),
		bulkConcurrency: opts.bulkConcurrency,
	}
	for _, key := range opts.apiKeys {
		if key != "" {
			s.apiKeys = append(s.apiKeys, []byte(key))
		}
	}
	if opts.jwtSecret == "" {
		s.jwtSecret = nil
	}
	if !s.authEnabled() {
		log.Warn("no API keys or JWT secret configured; the server accepts unauthenticated requests")
	}
	s.registerRoutes()
	s.handler = cors.AllowAll().Handler(s.router)
	return s, nil
}

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.Use(s.authMiddleware)
	api.HandleFunc("/evaluate", s.handleEvaluate).Methods(http.MethodPost)
	api.HandleFunc("/evaluate/bulk", s.handleEvaluateBulk).Methods(http.MethodPost)
	api.HandleFunc("/evaluate/dataset", s.handleEvaluateDataset).Methods(http.MethodPost)
	api.HandleFunc("/evaluate/async", s.handleEvaluateAsync).Methods(http.MethodPost)
	api.HandleFunc("/evaluate/bulk/async", s.handleEvaluateBulkAsync).Methods(http.MethodPost)

	// Fixed job paths must precede the {id} routes.
	api.HandleFunc("/jobs/stats", s.handleJobStats).Methods(http.MethodGet)
	api.HandleFunc("/jobs/cleanup", s.handleJobCleanup).Methods(http.MethodPost)
	api.HandleFunc("/jobs", s.handleListJobs).Methods(http.MethodGet)
	api.HandleFunc("/jobs/{id}", s.handleGetJob).Methods(http.MethodGet)
	api.HandleFunc("/jobs/{id}", s.handleDeleteJob).Methods(http.MethodDelete)
	api.HandleFunc("/jobs/{id}/cancel", s.handleCancelJob).Methods(http.MethodPost)

	api.HandleFunc("/metrics", s.handleListMetrics).Methods(http.MethodGet)
	api.HandleFunc("/metrics/categories", s.handleMetricCategories).Methods(http.MethodGet)
	api.HandleFunc("/metrics/{type}", s.handleGetMetric).Methods(http.MethodGet)
}

// Handler returns the root HTTP handler, including CORS and auth.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured address until Shutdown or failure.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: s.handler,
	}
	log.Infof("evaluation server listening on %s", s.addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP listener gracefully and releases the job runner.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	s.runner.Close()
	return err
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeJSONStatus(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]string{
		"status":  "healthy",
		"service": ServiceName,
		"version": ServiceVersion,
	})
}
