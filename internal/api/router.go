package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter wires the scrape endpoints. The /scrape-{brand} form mirrors the
// routes the downstream automation pipeline already calls; /scrape/{brand}
// and body-dispatched /scrape are the generic forms.
func NewRouter(h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(90 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health)
	r.Get("/ping", h.Ping)

	r.Post("/scrape", h.Scrape)
	r.Post("/scrape/{brand}", h.ScrapeBrand)
	r.Post("/scrape-{brand}", h.ScrapeBrand)

	return r
}
