package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/Pesokrava/movie_catalog/internal/config"
	"github.com/Pesokrava/movie_catalog/internal/delivery/http/handler"
	"github.com/Pesokrava/movie_catalog/internal/delivery/http/middleware"
	"github.com/Pesokrava/movie_catalog/internal/delivery/http/response"
	"github.com/Pesokrava/movie_catalog/internal/pkg/logger"
)

// Router holds HTTP handlers and router configuration
type Router struct {
	movieHandler  *handler.MovieHandler
	reviewHandler *handler.ReviewHandler
	logger        *logger.Logger
	cfg           *config.Config
}

// NewRouter creates a new HTTP router
func NewRouter(
	movieHandler *handler.MovieHandler,
	reviewHandler *handler.ReviewHandler,
	cfg *config.Config,
	log *logger.Logger,
) *Router {
	return &Router{
		movieHandler:  movieHandler,
		reviewHandler: reviewHandler,
		logger:        log,
		cfg:           cfg,
	}
}

// Setup configures and returns the HTTP router
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logger(rt.logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", rt.healthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/movies", func(r chi.Router) {
			r.Post("/", rt.movieHandler.Create)
			r.Get("/", rt.movieHandler.Search)
			r.Get("/{id}", rt.movieHandler.GetByID)
			r.Put("/{id}", rt.movieHandler.Update)
			r.Delete("/{id}", rt.movieHandler.Delete)

			r.Post("/{id}/reviews", rt.reviewHandler.Create)
			r.Get("/{id}/reviews", rt.reviewHandler.GetByMovieID)
			r.Get("/{id}/reviews/{reviewID}", rt.reviewHandler.Get)
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Put("/{id}", rt.reviewHandler.Update)
			r.Delete("/{id}", rt.reviewHandler.Delete)
		})
	})

	return r
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
