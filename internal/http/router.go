package httpx

import (
	"encoding/json"
	"net/http"

	"daraja/internal/config"
	"daraja/internal/daraja"
	"daraja/internal/http/handlers"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the presentation surface over the driver.
func NewRouter(cfg config.Cfg, driver *daraja.Driver) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/stkpush", handlers.InitiateSTKPush(cfg, driver))
		r.Get("/state", handlers.CurrentState(driver))
		r.Get("/state/stream", handlers.StreamState(driver))
	})

	// Public, hit by Safaricom with the settlement result
	r.Post("/callbacks/mpesa", handlers.STKCallback(driver))

	return r
}
