// Package server hosts the logging core behind a local JSON API consumed by
// the UI.
package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"commute-logger/internal/database"
	"commute-logger/internal/drawing"
	"commute-logger/internal/geocoding"
	"commute-logger/internal/handlers"
	"commute-logger/internal/sqlite"
)

// Server wraps the HTTP server and all dependencies
type Server struct {
	httpServer *http.Server
	handler    *handlers.Handler
	db         database.DataStore
	listener   net.Listener
	addr       string
}

// Config holds server configuration
type Config struct {
	Addr         string // e.g., "127.0.0.1:8080" or "127.0.0.1:0" for random port
	DBPath       string // empty means the default app-dir database
	NominatimURL string // empty means the public instance
}

// New creates and initializes a new server (does not start it)
func New(cfg Config) (*Server, error) {
	dbPath := cfg.DBPath
	if dbPath == "" {
		var err error
		dbPath, err = database.GetDefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve database path: %w", err)
		}
	}

	log.Printf("Initializing data store...")
	db, err := sqlite.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize data store: %w", err)
	}

	handler := &handlers.Handler{
		DB:       db,
		Geocoder: geocoding.NewNominatimGeocoder(cfg.NominatimURL),
		Registry: drawing.NewRegistry(),
		Draw:     handlers.NewDrawSessionStore(),
	}

	mux := setupRoutes(handler)

	return &Server{
		httpServer: &http.Server{
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		handler: handler,
		db:      db,
		addr:    cfg.Addr,
	}, nil
}

// Start starts the server and returns the actual address (useful for random port)
func (s *Server) Start() (string, error) {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen: %w", err)
	}

	s.listener = listener
	actualAddr := listener.Addr().String()
	log.Printf("Starting server on %s", actualAddr)

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	return actualAddr, nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	return s.db.Close()
}

// setupRoutes configures all HTTP routes
func setupRoutes(handler *handlers.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/health", handler.HandleHealthCheck)

	mux.HandleFunc("/api/v1/days/loggable", requireMethod(http.MethodGet, handler.HandleLoggableDays))
	mux.HandleFunc("/api/v1/days/unloggable", requireMethod(http.MethodGet, handler.HandleUnloggableDays))
	mux.HandleFunc("/api/v1/days/competition", requireMethod(http.MethodGet, handler.HandleCompetitionDays))

	mux.HandleFunc("/api/v1/routes", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handler.HandleListRoutes(w, r)
		case http.MethodPut:
			handler.HandleSaveRoute(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/api/v1/draw/start", requireMethod(http.MethodPost, handler.HandleStartDraw))
	mux.HandleFunc("/api/v1/draw/update", requireMethod(http.MethodPost, handler.HandleDrawUpdate))
	mux.HandleFunc("/api/v1/draw/undo", requireMethod(http.MethodPost, handler.HandleDrawUndo))
	mux.HandleFunc("/api/v1/draw/length", requireMethod(http.MethodPost, handler.HandleDrawLength))
	mux.HandleFunc("/api/v1/draw/names", requireMethod(http.MethodPost, handler.HandleRouteNames))
	mux.HandleFunc("/api/v1/draw/commit", requireMethod(http.MethodPost, handler.HandleDrawCommit))

	return mux
}

func requireMethod(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}
