package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/keymint/keymint/internal/api/middleware"
	"github.com/keymint/keymint/internal/api/response"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies holds all handler dependencies for the router.
type Dependencies struct {
	HealthHandler http.HandlerFunc

	CreateKeyHandler http.HandlerFunc
	ListKeysHandler  http.HandlerFunc
	GetKeyHandler    http.HandlerFunc
	UpdateKeyHandler http.HandlerFunc
	DeleteKeyHandler http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)
	r.Use(mw.Metrics)

	r.Get("/health", orNotImplemented(deps.HealthHandler))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/access-key", func(r chi.Router) {
		r.Post("/", orNotImplemented(deps.CreateKeyHandler))
		r.Get("/", orNotImplemented(deps.ListKeysHandler))
		r.Get("/{id}", orNotImplemented(deps.GetKeyHandler))
		r.Put("/{id}", orNotImplemented(deps.UpdateKeyHandler))
		r.Delete("/{id}", orNotImplemented(deps.DeleteKeyHandler))
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
