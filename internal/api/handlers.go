package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/stylefeed/fashion-image-scraper/internal/brands"
	"github.com/stylefeed/fashion-image-scraper/internal/cache"
	"github.com/stylefeed/fashion-image-scraper/internal/config"
)

type Handlers struct {
	registry *brands.Registry
	cache    *cache.Cache
	scrape   config.ScrapeConfig
	logger   *slog.Logger
}

func NewHandlers(registry *brands.Registry, c *cache.Cache, scrape config.ScrapeConfig, logger *slog.Logger) *Handlers {
	return &Handlers{
		registry: registry,
		cache:    c,
		scrape:   scrape,
		logger:   logger.With("component", "api"),
	}
}

// ScrapeRequest is the body of every scrape endpoint. Brand is only read by
// the generic /scrape route; the per-brand routes take it from the path.
type ScrapeRequest struct {
	SKU       string `json:"sku"`
	Brand     string `json:"brand,omitempty"`
	MaxImages int    `json:"max_images,omitempty"`
}

// Health reports the brands this instance can scrape.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"brands": h.registry.Brands(),
	})
}

func (h *Handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

// ScrapeBrand serves POST /scrape/{brand} and the /scrape-{brand} aliases.
func (h *Handlers) ScrapeBrand(w http.ResponseWriter, r *http.Request) {
	h.handleScrape(w, r, chi.URLParam(r, "brand"))
}

// Scrape serves POST /scrape with the brand in the request body.
func (h *Handlers) Scrape(w http.ResponseWriter, r *http.Request) {
	h.handleScrape(w, r, "")
}

func (h *Handlers) handleScrape(w http.ResponseWriter, r *http.Request, brand string) {
	var req ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if brand == "" {
		brand = req.Brand
	}
	brand = strings.ToLower(strings.TrimSpace(brand))
	if brand == "" {
		h.respondError(w, http.StatusBadRequest, "brand required")
		return
	}

	req.SKU = strings.TrimSpace(req.SKU)
	if req.SKU == "" {
		h.respondError(w, http.StatusBadRequest, "SKU required")
		return
	}

	scraper, err := h.registry.Get(brand)
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]any{
			"error":     "Unknown brand: " + brand,
			"supported": h.registry.Brands(),
		})
		return
	}

	maxImages := req.MaxImages
	if maxImages <= 0 {
		maxImages = h.scrape.DefaultMaxImages
	}
	if maxImages > h.scrape.MaxImagesCeiling {
		maxImages = h.scrape.MaxImagesCeiling
	}

	logger := h.logger.With("request_id", uuid.NewString(), "brand", brand, "sku", req.SKU)

	key := cache.Key(brand, strings.ToUpper(req.SKU), maxImages)
	if result, ok := h.cache.Get(r.Context(), key); ok {
		logger.Debug("serving cached result", "count", result.Count)
		h.respondJSON(w, http.StatusOK, result)
		return
	}

	result, err := scraper.Scrape(r.Context(), req.SKU, maxImages)
	switch {
	case errors.Is(err, brands.ErrInvalidSKU):
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		logger.Error("scrape failed", "error", err)
		h.respondError(w, http.StatusInternalServerError, "scrape failed")
		return
	}

	if result.Error == "" {
		h.cache.Set(r.Context(), key, result)
	}
	logger.Info("scrape finished", "count", result.Count, "not_found", result.Error != "")
	h.respondJSON(w, http.StatusOK, result)
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, msg string) {
	h.respondJSON(w, status, map[string]string{"error": msg})
}
