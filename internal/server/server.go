// Package server exposes the invoice tooling over HTTP: rendering source
// documents to PDF, extracting records back out of PDFs, and listing the
// available templates.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/invoiceartisan/invoice-artisan/internal/config"
	"github.com/invoiceartisan/invoice-artisan/internal/extract"
	"github.com/invoiceartisan/invoice-artisan/internal/pdfio"
	"github.com/invoiceartisan/invoice-artisan/internal/render"
	"github.com/invoiceartisan/invoice-artisan/internal/template"
)

const shutdownTimeout = 10 * time.Second

// Server is the HTTP front end. All invoice work is delegated to the
// renderer, extractor and registry it is constructed with.
type Server struct {
	config     *config.Config
	registry   *template.Registry
	renderer   *render.Renderer
	reader     *pdfio.Reader
	extractor  *extract.Extractor
	httpServer *http.Server
}

// NewServer creates a new HTTP server instance.
func NewServer(cfg *config.Config, registry *template.Registry) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if registry == nil {
		return nil, fmt.Errorf("registry cannot be nil")
	}

	s := &Server{
		config:    cfg,
		registry:  registry,
		renderer:  render.NewRenderer(registry, cfg.LogoCandidates()),
		reader:    pdfio.NewReader(cfg.MaxFileSize),
		extractor: extract.New(),
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Address(),
		Handler:      s.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	return s, nil
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/v1").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/templates", s.handleTemplates).Methods(http.MethodGet)
	api.HandleFunc("/invoices/render", s.handleRender).Methods(http.MethodPost)
	api.HandleFunc("/invoices/extract", s.handleExtract).Methods(http.MethodPost)

	return r
}

// Handler returns the configured HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run starts the server and blocks until the context is cancelled or the
// listener fails.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("HTTP server listening on %s", s.config.Address())
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		<-errCh
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	}
}
