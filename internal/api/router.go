package api

import (
	_ "currconv/docs"
	"currconv/internal/convert/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	swagger "github.com/swaggo/http-swagger"
)

func NewRouter(conversionHandler *handler.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))

	// Swagger UI
	router.Get("/swagger/*", swagger.WrapHandler)

	router.Post("/convert", conversionHandler.Convert)
	router.Get("/currencies", conversionHandler.GetCurrencies)
	router.Get("/history/{code:[A-Za-z]{3}}", conversionHandler.GetRateHistory)
	return router
}
