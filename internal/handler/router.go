package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vaultpass/passgen-go/internal/middleware"
	"github.com/vaultpass/passgen-go/internal/service"
	"github.com/vaultpass/passgen-go/internal/web"
)

// RouterConfig holds what NewRouter needs to mount the API.
type RouterConfig struct {
	Generator   *service.GeneratorService
	Widgets     *service.WidgetService
	TokenSecret string
	RateLimiter *middleware.IPRateLimiter
	CheckOrigin func(*http.Request) bool
}

// NewRouter builds the HTTP routes for the page and the JSON API.
func NewRouter(cfg RouterConfig) http.Handler {
	genHandler := NewGeneratorHandler(cfg.Generator)
	widgetHandler := NewWidgetHandler(cfg.Widgets)
	eventsHandler := NewEventsHandler(cfg.Widgets, cfg.CheckOrigin)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/", web.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if cfg.RateLimiter != nil {
				r.Use(cfg.RateLimiter.Middleware)
			}
			r.Post("/generate", genHandler.HandleGenerate)
			r.Post("/widgets", widgetHandler.HandleCreate)
		})

		r.Route("/widgets/{id}", func(r chi.Router) {
			r.Use(middleware.WidgetAuth(cfg.TokenSecret, "id"))
			r.Get("/", widgetHandler.HandleGet)
			r.Patch("/", widgetHandler.HandleUpdate)
			r.Delete("/", widgetHandler.HandleDelete)
			r.Post("/regenerate", widgetHandler.HandleRegenerate)
			r.Post("/copy/{index}", widgetHandler.HandleCopy)
			r.Post("/keys", widgetHandler.HandleKey)
			r.Get("/events", eventsHandler.HandleEvents)
		})
	})

	return r
}
