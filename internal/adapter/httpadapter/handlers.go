package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/couchcryptid/maps-api-service/internal/domain"
)

const maxBodyBytes = 1 << 20

// MapService is the lookup surface the handlers delegate to.
type MapService interface {
	Geocode(ctx context.Context, address, provider string) (domain.GeocodingResult, error)
	ReverseGeocode(ctx context.Context, in domain.CoordinateInput, provider string) (domain.ReverseGeocodingResult, error)
	CalculateDistance(ctx context.Context, origin, destination *domain.CoordinateInput, provider string) (domain.DistanceResult, error)
}

type mapsHandler struct {
	maps       MapService
	production bool
	logger     *slog.Logger
}

// Request bodies keep every field loosely typed so that missing or mistyped
// values surface as validation messages instead of decode failures.
type geocodeRequest struct {
	Address  any `json:"address"`
	Provider any `json:"provider"`
}

type reverseGeocodeRequest struct {
	Latitude  any `json:"latitude"`
	Longitude any `json:"longitude"`
	Provider  any `json:"provider"`
}

type distanceRequest struct {
	Origin      any `json:"origin"`
	Destination any `json:"destination"`
	Provider    any `json:"provider"`
}

type successResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

type errorResponse struct {
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Stack      string `json:"stack,omitempty"`
}

func (h *mapsHandler) geocode(w http.ResponseWriter, r *http.Request) {
	var req geocodeRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	address, _ := req.Address.(string)
	provider, err := providerName(req.Provider)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.maps.Geocode(r.Context(), address, provider)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, successResponse{Status: "success", Data: result})
}

func (h *mapsHandler) reverseGeocode(w http.ResponseWriter, r *http.Request) {
	var req reverseGeocodeRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	provider, err := providerName(req.Provider)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	in := domain.CoordinateInput{Latitude: number(req.Latitude), Longitude: number(req.Longitude)}

	result, err := h.maps.ReverseGeocode(r.Context(), in, provider)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, successResponse{Status: "success", Data: result})
}

func (h *mapsHandler) distance(w http.ResponseWriter, r *http.Request) {
	var req distanceRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	provider, err := providerName(req.Provider)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.maps.CalculateDistance(r.Context(), coordinate(req.Origin), coordinate(req.Destination), provider)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, successResponse{Status: "success", Data: result})
}

func (h *mapsHandler) notFound(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusNotFound, errorResponse{
		Status:     "error",
		StatusCode: http.StatusNotFound,
		Message:    "Route not found",
	})
}

func (h *mapsHandler) health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{"status": "healthy"})
}

// coordinate reads a {latitude, longitude} object. Anything else is missing.
func coordinate(v any) *domain.CoordinateInput {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return &domain.CoordinateInput{Latitude: number(obj["latitude"]), Longitude: number(obj["longitude"])}
}

// providerName accepts an absent provider or a string. Other JSON types can
// never name a registered provider.
func providerName(v any) (string, error) {
	switch p := v.(type) {
	case nil:
		return "", nil
	case string:
		return p, nil
	default:
		return "", domain.InvalidInput("Provider not found: %v", p)
	}
}

// number returns v when it decoded as a JSON number.
func number(v any) *float64 {
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	return &f
}

// decodeBody parses a JSON object. An empty body decodes as an empty object.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return domain.InvalidInput("Request body too large")
	}
	return domain.InvalidInput("Invalid JSON body")
}

// writeError maps client errors to 400 and everything else to 500.
func (h *mapsHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if domain.IsInvalidInput(err) {
		h.writeJSON(w, r, http.StatusBadRequest, errorResponse{
			Status:     "error",
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
		})
		return
	}
	h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	h.writeInternal(w, r, err.Error(), "")
}

// writeInternal writes a 500. Details are dropped in production.
func (h *mapsHandler) writeInternal(w http.ResponseWriter, r *http.Request, detail, stack string) {
	resp := errorResponse{
		Status:     "error",
		StatusCode: http.StatusInternalServerError,
		Message:    "Internal server error",
	}
	if !h.production {
		resp.Message = detail
		resp.Stack = stack
	}
	h.writeJSON(w, r, http.StatusInternalServerError, resp)
}

func (h *mapsHandler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	encodeJSON(h.logger, w, r, status, v)
}

// encodeJSON writes v as the response body. Encode failures go to logger.
func encodeJSON(logger *slog.Logger, w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", "method", r.Method, "path", r.URL.Path, "error", err)
	}
}
