package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/amaumene/cinesync/internal/api/handlers"
	"github.com/amaumene/cinesync/internal/api/middleware"
	"github.com/amaumene/cinesync/internal/config"
	"github.com/amaumene/cinesync/internal/controllers"
	"github.com/amaumene/cinesync/internal/models"
	"github.com/amaumene/cinesync/internal/recommend"
	"github.com/amaumene/cinesync/internal/search"
	"github.com/amaumene/cinesync/internal/services/tmdb"
	"github.com/sirupsen/logrus"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	logger *logrus.Logger
}

// Deps are the collaborators the API layer serves
type Deps struct {
	DB          *models.Database
	TMDBClient  *tmdb.Client
	CatalogCtrl *controllers.CatalogController
	ListCtrl    *controllers.ListController
	RoomCtrl    *controllers.RoomController
	ShareCtrl   *controllers.ShareController
	Engine      *recommend.Engine
	Sessions    *search.Manager
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, deps Deps, logger *logrus.Logger) *Server {
	s := &Server{logger: logger}

	mux := http.NewServeMux()
	s.setupRoutes(mux, deps)

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      middleware.Logging(mux, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux, deps Deps) {
	// Health check
	healthHandler := handlers.NewHealthHandler(s.logger)
	mux.HandleFunc("/health", healthHandler.ServeHTTP)

	// Status endpoint
	statusHandler := handlers.NewStatusHandler(deps.DB, s.logger)
	mux.HandleFunc("/status", statusHandler.ServeHTTP)

	// Search
	searchHandler := handlers.NewSearchHandler(deps.Sessions, deps.TMDBClient, s.logger)
	mux.HandleFunc("/api/search", searchHandler.ServeHTTP)
	mux.HandleFunc("/api/search/multi", searchHandler.Multi)

	// Catalog browse
	catalogHandler := handlers.NewCatalogHandler(deps.TMDBClient, deps.CatalogCtrl, s.logger)
	mux.HandleFunc("/api/trending", catalogHandler.Trending)
	mux.HandleFunc("/api/movies/", catalogHandler.MovieList)
	mux.HandleFunc("/api/tv/", catalogHandler.TVList)
	mux.HandleFunc("/api/media/details", catalogHandler.Details)
	mux.HandleFunc("/api/discover", catalogHandler.Discover)
	mux.HandleFunc("/api/genres", catalogHandler.Genres)

	// Recommendations
	recsHandler := handlers.NewRecommendationsHandler(deps.Engine, s.logger)
	mux.HandleFunc("/api/recommendations", recsHandler.ServeHTTP)

	// Personal lists
	listsHandler := handlers.NewListsHandler(deps.ListCtrl, s.logger)
	mux.HandleFunc("/api/lists", listsHandler.ServeHTTP)

	// Rooms
	roomsHandler := handlers.NewRoomsHandler(deps.RoomCtrl, s.logger)
	mux.HandleFunc("/api/rooms", roomsHandler.ServeHTTP)
	mux.HandleFunc("/api/rooms/join", roomsHandler.Join)
	mux.HandleFunc("/api/rooms/leave", roomsHandler.Leave)
	mux.HandleFunc("/api/rooms/detail", roomsHandler.Detail)

	// Share links
	shareHandler := handlers.NewShareHandler(deps.ShareCtrl, s.logger)
	mux.HandleFunc("/api/share", shareHandler.ServeHTTP)

	// Profile
	profileHandler := handlers.NewProfileHandler(deps.DB, s.logger)
	mux.HandleFunc("/api/profile", profileHandler.ServeHTTP)
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
