// Package api serves the questionnaires, the scorer and the gauge renderer
// over HTTP for web front ends.
package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/korjavin/asthmabot/config"
	"github.com/korjavin/asthmabot/gauge"
	"github.com/rs/cors"
)

// Server is the HTTP front end
type Server struct {
	srv *http.Server
}

// NewRouter wires every route and wraps them in CORS for the given origins.
// An empty origin list allows any origin.
func NewRouter(fonts *gauge.Fonts, origins []string) http.Handler {
	h := NewHandler(fonts)

	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.Health).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/instruments", h.ListInstruments).Methods("GET")
	api.HandleFunc("/instruments/{id}/score", h.Score).Methods("POST")
	api.HandleFunc("/instruments/{id}/gauge", h.Gauge).Methods("GET")
	api.HandleFunc("/instruments/{id}/{locale}", h.GetInstrument).Methods("GET")

	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(r)
}

// New creates the server from configuration
func New(cfg *config.Config, fonts *gauge.Fonts) *Server {
	return &Server{srv: &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(fonts, cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}}
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		log.Printf("HTTP server listening on %s", s.srv.Addr)
		errc <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Println("HTTP server stopped")
	return nil
}
