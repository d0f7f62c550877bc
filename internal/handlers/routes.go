package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"commute-logger/internal/models"
)

// saveRoutePayload is the trip record shape accepted from the UI.
type saveRoutePayload struct {
	Date      string               `json:"date"` // "2006-01-02"
	Direction models.Direction     `json:"direction"`
	Distance  string               `json:"distance"`
	Transport *models.Transport    `json:"transport"`
	InputType models.InputType     `json:"inputType"`
	Feature   *models.RouteFeature `json:"routeFeature"`
}

// HandleListRoutes handles GET /api/v1/routes
func (h *Handler) HandleListRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := h.DB.Routes().List(r.Context())
	if err != nil {
		log.Printf("[ERROR] Failed to list routes: err=%v", err)
		h.writeError(w, http.StatusInternalServerError, "ROUTES_UNAVAILABLE", err.Error(), nil)
		return
	}

	log.Printf("[HTTP] GET /api/v1/routes: count=%d", len(routes))
	if routes == nil {
		routes = []models.RouteItem{}
	}
	h.writeJSON(w, http.StatusOK, routes)
}

// HandleSaveRoute handles PUT /api/v1/routes. Saving clears the record's
// dirty flag; only days inside the current loggable window may be written.
func (h *Handler) HandleSaveRoute(w http.ResponseWriter, r *http.Request) {
	var payload saveRoutePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}

	day, err := time.Parse(time.DateOnly, payload.Date)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_DATE", "date must be YYYY-MM-DD", nil)
		return
	}
	if !payload.Direction.Valid() {
		h.writeError(w, http.StatusBadRequest, "INVALID_DIRECTION", "unknown direction", nil)
		return
	}

	calc, err := h.calculator(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "SETTINGS_UNAVAILABLE", err.Error(), nil)
		return
	}
	if day.Before(calc.LoggingStart()) || day.After(calc.LoggingEnd()) {
		log.Printf("[HTTP] PUT /api/v1/routes rejected: date=%s outside loggable window", payload.Date)
		h.writeError(w, http.StatusUnprocessableEntity, "DAY_NOT_LOGGABLE", "day is outside the loggable window", nil)
		return
	}

	item := models.RouteItem{
		Date:      day,
		Direction: payload.Direction,
		Distance:  payload.Distance,
		Transport: payload.Transport,
		InputType: payload.InputType,
		Feature:   payload.Feature,
	}
	if item.Distance == "" {
		item.Distance = models.ZeroDistance
	}
	if item.InputType == "" {
		item.InputType = models.InputTypeNumber
	}

	saved, err := h.DB.Routes().Upsert(r.Context(), &item)
	if err != nil {
		log.Printf("[ERROR] Failed to save route: date=%s direction=%s err=%v", payload.Date, payload.Direction, err)
		h.writeError(w, http.StatusInternalServerError, "SAVE_FAILED", err.Error(), nil)
		return
	}

	log.Printf("[HTTP] PUT /api/v1/routes: id=%s date=%s direction=%s distance=%s", saved.ID, saved.DayKey(), saved.Direction, saved.Distance)
	h.writeJSON(w, http.StatusOK, saved)
}
