package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"commute-logger/internal/calendar"
	"commute-logger/internal/database"
	"commute-logger/internal/drawing"
	"commute-logger/internal/geocoding"
)

// Handler provides common handler utilities and dependencies
type Handler struct {
	DB       database.DataStore
	Geocoder geocoding.ReverseGeocoder
	Registry *drawing.Registry
	Draw     *DrawSessionStore
	Now      calendar.NowFunc // nil means time.Now
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response
func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string, details interface{}) {
	h.writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// handleNotFound handles 404 errors
func (h *Handler) handleNotFound(w http.ResponseWriter, message string) {
	h.writeError(w, http.StatusNotFound, "NOT_FOUND", message, nil)
}

// calculator loads the challenge configuration and builds a window calculator
// over it.
func (h *Handler) calculator(ctx context.Context) (*calendar.WindowCalculator, error) {
	settings, err := h.DB.Settings().Get(ctx)
	if err != nil {
		return nil, err
	}
	return calendar.NewWindowCalculatorFromSettings(settings, h.Now), nil
}

// HandleHealthCheck handles GET /api/v1/health
func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.HealthCheck(r.Context()); err != nil {
		h.writeError(w, http.StatusServiceUnavailable, "UNHEALTHY", err.Error(), nil)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
