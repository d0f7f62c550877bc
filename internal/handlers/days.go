package handlers

import (
	"log"
	"net/http"

	"commute-logger/internal/calendar"
	"commute-logger/internal/models"
)

// HandleLoggableDays handles GET /api/v1/days/loggable
func (h *Handler) HandleLoggableDays(w http.ResponseWriter, r *http.Request) {
	h.handleDays(w, r, "loggable", (*calendar.WindowCalculator).LoggableDaysWithRoutes)
}

// HandleUnloggableDays handles GET /api/v1/days/unloggable
func (h *Handler) HandleUnloggableDays(w http.ResponseWriter, r *http.Request) {
	h.handleDays(w, r, "unloggable", (*calendar.WindowCalculator).UnloggableDaysWithRoutes)
}

// HandleCompetitionDays handles GET /api/v1/days/competition
func (h *Handler) HandleCompetitionDays(w http.ResponseWriter, r *http.Request) {
	h.handleDays(w, r, "competition", (*calendar.WindowCalculator).CompetitionDaysWithRoutes)
}

func (h *Handler) handleDays(w http.ResponseWriter, r *http.Request, window string, build func(*calendar.WindowCalculator, []models.RouteItem) []models.RouteDay) {
	calc, err := h.calculator(r.Context())
	if err != nil {
		log.Printf("[ERROR] Failed to load challenge settings: window=%s err=%v", window, err)
		h.writeError(w, http.StatusInternalServerError, "SETTINGS_UNAVAILABLE", err.Error(), nil)
		return
	}

	routes, err := h.DB.Routes().List(r.Context())
	if err != nil {
		log.Printf("[ERROR] Failed to list routes: window=%s err=%v", window, err)
		h.writeError(w, http.StatusInternalServerError, "ROUTES_UNAVAILABLE", err.Error(), nil)
		return
	}

	days := build(calc, routes)
	log.Printf("[HTTP] GET /api/v1/days/%s: days=%d routes=%d", window, len(days), len(routes))

	if days == nil {
		days = []models.RouteDay{}
	}
	h.writeJSON(w, http.StatusOK, days)
}
