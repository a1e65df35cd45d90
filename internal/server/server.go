// Package server provides the HTTP API for document generation and
// artifact retrieval.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/inspiredoc/inspiredoc/internal/pipeline"
	"github.com/inspiredoc/inspiredoc/internal/store"
)

// Config holds server configuration
type Config struct {
	ListenAddr string
	Verbose    bool
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	service    *pipeline.Service
	artifacts  store.Store
	verbose    bool
}

// New creates a new server instance. The artifact store may be nil, in
// which case the artifact retrieval endpoint reports not found.
func New(cfg Config, service *pipeline.Service, artifacts store.Store) *Server {
	s := &Server{
		service:   service,
		artifacts: artifacts,
		verbose:   cfg.Verbose,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", s.handleGenerate)
		r.Get("/artifacts/{hash}/{format}", s.handleArtifact)
	})

	s.httpServer = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for pipeline runs
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until interrupted.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.artifacts != nil {
		if err := s.artifacts.Close(); err != nil {
			log.Printf("artifact store close: %v", err)
		}
	}
	log.Println("Server stopped")
	return nil
}
