package trip

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/trip-planner-aggregator/internal/api"
	"github.com/FACorreiaa/trip-planner-aggregator/internal/api/auth"
	"github.com/FACorreiaa/trip-planner-aggregator/internal/types"
)

const (
	maxDestinationLength = 100
	maxTripDays          = 30
	shareExpiresIn       = "24 hours"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) startSpan(r *http.Request, name, route string) (*http.Request, trace.Span, *slog.Logger) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), name, trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String(route),
	))
	l := h.logger.With(slog.String("handler", name))
	if userID, ok := auth.GetUserIDFromContext(ctx); ok {
		span.SetAttributes(semconv.EnduserIDKey.String(userID.String()))
		l = l.With(slog.String("userID", userID.String()))
	}
	return r.WithContext(ctx), span, l
}

// parsePlanRequest validates destination (1-100 chars), days (1-30) and the
// optional comma-separated preferences.
func parsePlanRequest(r *http.Request) (types.PlanTripRequest, error) {
	q := r.URL.Query()

	destination := strings.TrimSpace(q.Get("destination"))
	if destination == "" {
		return types.PlanTripRequest{}, errors.New("destination is required")
	}
	if len([]rune(destination)) > maxDestinationLength {
		return types.PlanTripRequest{}, errors.New("destination must be at most 100 characters")
	}

	days, err := strconv.Atoi(strings.TrimSpace(q.Get("days")))
	if err != nil || days < 1 || days > maxTripDays {
		return types.PlanTripRequest{}, errors.New("days must be an integer between 1 and 30")
	}

	var preferences []string
	for _, p := range strings.Split(q.Get("preferences"), ",") {
		if p = strings.TrimSpace(p); p != "" {
			preferences = append(preferences, p)
		}
	}

	return types.PlanTripRequest{Destination: destination, Days: days, Preferences: preferences}, nil
}

func (h *Handler) PlanTrip(w http.ResponseWriter, r *http.Request) {
	r, span, l := h.startSpan(r, "PlanTrip", "/trip/plan")
	defer span.End()
	ctx := r.Context()

	req, err := parsePlanRequest(r)
	if err != nil {
		l.WarnContext(ctx, "Invalid plan request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	trip, err := h.service.GenerateTrip(ctx, req.Destination, req.Days, req.Preferences)
	if err != nil {
		if errors.Is(err, types.ErrDestinationNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Could not find coordinates for "+req.Destination)
			return
		}
		l.ErrorContext(ctx, "Failed to generate trip", slog.Any("error", err))
		span.RecordError(err)
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to generate trip")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, trip)
}

func (h *Handler) SearchDestinations(w http.ResponseWriter, r *http.Request) {
	r, span, l := h.startSpan(r, "SearchDestinations", "/trip/search")
	defer span.End()

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		l.DebugContext(r.Context(), "Empty search query")
		api.ErrorResponse(w, r, http.StatusBadRequest, "q is required")
		return
	}

	results, err := h.service.SearchDestinations(r.Context(), query)
	if err != nil {
		l.ErrorContext(r.Context(), "Search failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to search destinations")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, results)
}

func (h *Handler) GetPopularDestinations(w http.ResponseWriter, r *http.Request) {
	r, span, l := h.startSpan(r, "GetPopularDestinations", "/trip/popular-destinations")
	defer span.End()

	destinations, err := h.service.GetPopularDestinations(r.Context())
	if err != nil {
		l.ErrorContext(r.Context(), "Failed to list popular destinations", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list popular destinations")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, destinations)
}

func (h *Handler) ShareTrip(w http.ResponseWriter, r *http.Request) {
	r, span, l := h.startSpan(r, "ShareTrip", "/trip/share")
	defer span.End()

	var req types.ShareTripRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(r.Context(), "Invalid share body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Trip == nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "trip is required")
		return
	}

	code, err := h.service.CreateShareCode(r.Context(), req.Trip)
	if err != nil {
		l.ErrorContext(r.Context(), "Failed to share trip", slog.Any("error", err))
		span.RecordError(err)
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to share trip")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, types.ShareTripResponse{Code: code, ExpiresIn: shareExpiresIn})
}

func (h *Handler) GetSharedTrip(w http.ResponseWriter, r *http.Request) {
	r, span, _ := h.startSpan(r, "GetSharedTrip", "/trip/share/{code}")
	defer span.End()

	trip, err := h.service.GetTripByShareCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		api.WriteJSONResponse(w, r, http.StatusNotFound, map[string]string{"error": "Trip not found or expired"})
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, trip)
}

func (h *Handler) GetPlaceInfo(w http.ResponseWriter, r *http.Request) {
	r, span, l := h.startSpan(r, "GetPlaceInfo", "/trip/place-info")
	defer span.End()

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "name is required")
		return
	}
	city := strings.TrimSpace(r.URL.Query().Get("city"))

	info, err := h.service.GetPlaceInfo(r.Context(), name, city)
	if err != nil {
		l.ErrorContext(r.Context(), "Failed to get place info", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get place info")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, info)
}

func (h *Handler) NearbySpots(w http.ResponseWriter, r *http.Request) {
	r, span, l := h.startSpan(r, "NearbySpots", "/trip/nearby")
	defer span.End()

	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if errLat != nil || errLon != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "lat and lon must be valid coordinates")
		return
	}

	spots, err := h.service.NearbySpots(r.Context(), lat, lon)
	if err != nil {
		l.ErrorContext(r.Context(), "Nearby search failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to find nearby spots")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, spots)
}
