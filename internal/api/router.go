package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	swagger "github.com/swaggo/http-swagger"

	_ "github.com/maria-mashura/currency-tracker/docs"
	"github.com/maria-mashura/currency-tracker/internal/rate/handler"
)

func NewRouter(rateHandler *handler.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))
	// The web and mobile clients call this API from other origins.
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	// Swagger UI
	router.Get("/swagger/*", swagger.WrapHandler)

	router.Get("/rates/latest", rateHandler.GetLatest)
	return router
}
