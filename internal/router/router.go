package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/FACorreiaa/trip-planner-aggregator/internal/api"
	"github.com/FACorreiaa/trip-planner-aggregator/internal/api/trip"
)

// Config contains dependencies needed for the router setup
type Config struct {
	TripHandler            *trip.Handler
	AuthenticateMiddleware func(http.Handler) http.Handler
	AllowedOrigins         []string
	// PlanRateLimit is plan requests per IP per minute.
	PlanRateLimit int
}

// SetupRouter mounts the API. Server-wide middleware (request id, logger,
// recoverer) is applied by the caller.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if cfg.AuthenticateMiddleware != nil {
				r.Use(cfg.AuthenticateMiddleware)
			}
			r.Mount("/trip", TripRoutes(cfg.TripHandler, cfg.PlanRateLimit))
		})
	})

	return r
}

func TripRoutes(h *trip.Handler, planRateLimit int) http.Handler {
	r := chi.NewRouter()

	r.With(httprate.LimitByIP(planRateLimit, time.Minute)).Get("/plan", h.PlanTrip)
	r.Get("/search", h.SearchDestinations)
	r.Get("/popular-destinations", h.GetPopularDestinations)
	r.Get("/place-info", h.GetPlaceInfo)
	r.Get("/nearby", h.NearbySpots)
	r.Post("/share", h.ShareTrip)
	r.Get("/share/{code}", h.GetSharedTrip)

	return r
}
