package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/streamflix/streamflix/internal/api/handlers"
	"github.com/streamflix/streamflix/internal/api/middleware"
	"github.com/streamflix/streamflix/internal/config"
	"github.com/streamflix/streamflix/internal/controllers"
	"github.com/streamflix/streamflix/internal/services/tmdb"
)

// Server represents the HTTP server
type Server struct {
	server      *http.Server
	catalogCtrl *controllers.CatalogController
	sessionCtrl *controllers.SessionController
	tmdbClient  *tmdb.Client
	logger      *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, catalogCtrl *controllers.CatalogController, sessionCtrl *controllers.SessionController, tmdbClient *tmdb.Client, logger *logrus.Logger) *Server {
	s := &Server{
		catalogCtrl: catalogCtrl,
		sessionCtrl: sessionCtrl,
		tmdbClient:  tmdbClient,
		logger:      logger,
	}

	router := mux.NewRouter()
	s.setupRoutes(router)

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      middleware.Logging(router, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(router *mux.Router) {
	// Health check
	healthHandler := handlers.NewHealthHandler(s.logger)
	router.Handle("/health", healthHandler).Methods(http.MethodGet)

	// Status endpoint
	statusHandler := handlers.NewStatusHandler(s.sessionCtrl, s.tmdbClient, s.logger)
	router.Handle("/status", statusHandler).Methods(http.MethodGet)

	// Catalog browsing
	catalogHandler := handlers.NewCatalogHandler(s.catalogCtrl, s.sessionCtrl, s.logger)
	router.HandleFunc("/api/home", catalogHandler.Home).Methods(http.MethodGet)
	router.HandleFunc("/api/search", catalogHandler.Search).Methods(http.MethodGet)
	router.HandleFunc("/api/media/{mediaType}/{id}", catalogHandler.Details).Methods(http.MethodGet)
	router.HandleFunc("/api/media/{mediaType}/{id}/trailer", catalogHandler.Trailer).Methods(http.MethodGet)

	// Session operations
	sessionHandler := handlers.NewSessionHandler(s.sessionCtrl, s.logger)
	router.HandleFunc("/api/session", sessionHandler.Profile).Methods(http.MethodGet)
	router.HandleFunc("/api/session/signin", sessionHandler.SignIn).Methods(http.MethodPost)
	router.HandleFunc("/api/session/signout", sessionHandler.SignOut).Methods(http.MethodPost)
	router.HandleFunc("/api/session/watchlist", sessionHandler.ToggleWatchlist).Methods(http.MethodPost)
	router.HandleFunc("/api/session/watchlist/{id}", sessionHandler.RemoveFromWatchlist).Methods(http.MethodDelete)
	router.HandleFunc("/api/session/downloads", sessionHandler.AddDownload).Methods(http.MethodPost)
	router.HandleFunc("/api/session/downloads/{id}", sessionHandler.RemoveDownload).Methods(http.MethodDelete)
	router.HandleFunc("/api/session/history", sessionHandler.RecordWatch).Methods(http.MethodPost)
	router.HandleFunc("/api/session/ratings/{id}", sessionHandler.SetRating).Methods(http.MethodPut)
	router.HandleFunc("/api/session/subscription", sessionHandler.SetTier).Methods(http.MethodPost)
	router.HandleFunc("/api/session/theme", sessionHandler.Theme).Methods(http.MethodGet, http.MethodPut)
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
