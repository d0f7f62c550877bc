package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"commute-logger/internal/drawing"
	"commute-logger/internal/geometry"
	"commute-logger/internal/models"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// DrawSession holds the in-progress drawing state for one map session
type DrawSession struct {
	ID      string
	History *drawing.History
	mu      sync.Mutex
}

// DrawSessionStore manages drawing sessions in memory
type DrawSessionStore struct {
	sessions map[string]*DrawSession
	mu       sync.RWMutex
}

// NewDrawSessionStore creates a new session store
func NewDrawSessionStore() *DrawSessionStore {
	return &DrawSessionStore{
		sessions: make(map[string]*DrawSession),
	}
}

func (s *DrawSessionStore) Create() *DrawSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := generateSessionID()
	session := &DrawSession{
		ID:      id,
		History: drawing.NewHistory(),
	}

	s.sessions[id] = session
	log.Printf("[SESSION] Created draw session: id=%s", id)
	return session
}

func (s *DrawSessionStore) Get(id string) *DrawSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[id]
}

func (s *DrawSessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	log.Printf("[SESSION] Deleted draw session: id=%s", id)
}

func generateSessionID() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// drawPayload carries a session reference and/or a drawn feature.
type drawPayload struct {
	SessionID string            `json:"session_id"`
	Feature   *geojson.Geometry `json:"feature"`
}

// drawStateResponse reports the active feature and its measured length.
type drawStateResponse struct {
	Feature *geojson.Geometry `json:"feature"`
	Length  float64           `json:"length"` // meters
	Undone  bool              `json:"undone,omitempty"`
}

// HandleStartDraw handles POST /api/v1/draw/start
func (h *Handler) HandleStartDraw(w http.ResponseWriter, r *http.Request) {
	session := h.Draw.Create()
	h.writeJSON(w, http.StatusCreated, map[string]string{"session_id": session.ID})
}

// HandleDrawUpdate handles POST /api/v1/draw/update. The UI sends the full
// current coordinate list on every geometry change; each call appends one
// snapshot to the session history.
func (h *Handler) HandleDrawUpdate(w http.ResponseWriter, r *http.Request) {
	var payload drawPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}

	session := h.Draw.Get(payload.SessionID)
	if session == nil {
		h.handleNotFound(w, "draw session not found")
		return
	}

	line, ok := lineFromPayload(payload.Feature)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "INVALID_GEOMETRY", "feature must be a LineString", nil)
		return
	}

	session.mu.Lock()
	session.History.Update(line)
	entries := session.History.Len()
	session.mu.Unlock()

	length := geometry.Length(line)
	log.Printf("[HTTP] POST /api/v1/draw/update: session=%s points=%d entries=%d length=%.0f", session.ID, len(line), entries, length)

	h.writeJSON(w, http.StatusOK, drawStateResponse{
		Feature: geojson.NewGeometry(line),
		Length:  length,
	})
}

// HandleDrawUndo handles POST /api/v1/draw/undo. Rolls the session back one
// snapshot. With only the initial entry left this is a no-op signalled by a
// null feature, not an error.
func (h *Handler) HandleDrawUndo(w http.ResponseWriter, r *http.Request) {
	var payload drawPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}

	session := h.Draw.Get(payload.SessionID)
	if session == nil {
		h.handleNotFound(w, "draw session not found")
		return
	}

	session.mu.Lock()
	restored := session.History.Undo()
	session.mu.Unlock()

	if restored == nil {
		log.Printf("[HTTP] POST /api/v1/draw/undo: session=%s nothing to undo", session.ID)
		h.writeJSON(w, http.StatusOK, drawStateResponse{})
		return
	}

	length := geometry.Length(restored)
	log.Printf("[HTTP] POST /api/v1/draw/undo: session=%s points=%d length=%.0f", session.ID, len(restored), length)

	h.writeJSON(w, http.StatusOK, drawStateResponse{
		Feature: geojson.NewGeometry(restored),
		Length:  length,
		Undone:  true,
	})
}

// HandleDrawLength handles POST /api/v1/draw/length: a pure measurement of
// the posted feature. Non-line geometries measure 0.
func (h *Handler) HandleDrawLength(w http.ResponseWriter, r *http.Request) {
	var payload drawPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}

	var length float64
	if payload.Feature != nil {
		length = geometry.Length(payload.Feature.Geometry())
	}
	h.writeJSON(w, http.StatusOK, map[string]float64{"length": length})
}

// HandleRouteNames handles POST /api/v1/draw/names: reverse-geocodes the two
// endpoints of the posted feature. Lookup failures propagate to the caller;
// there is no retry here.
func (h *Handler) HandleRouteNames(w http.ResponseWriter, r *http.Request) {
	var payload drawPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}

	line, ok := lineFromPayload(payload.Feature)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "INVALID_GEOMETRY", "feature must be a LineString", nil)
		return
	}

	names, err := h.Geocoder.RouteNames(r.Context(), line)
	if err != nil {
		log.Printf("[ERROR] Failed to resolve route names: err=%v", err)
		h.writeError(w, http.StatusBadGateway, "GEOCODING_FAILED", err.Error(), nil)
		return
	}

	h.writeJSON(w, http.StatusOK, names)
}

// commitPayload finalizes a drawing session into a saved trip record.
type commitPayload struct {
	SessionID string            `json:"session_id"`
	Date      string            `json:"date"` // "2006-01-02"
	Direction models.Direction  `json:"direction"`
	Transport *models.Transport `json:"transport"`
}

// HandleDrawCommit handles POST /api/v1/draw/commit. Names the endpoints of
// the active feature, persists the trip, registers the committed route, and
// ends the session.
func (h *Handler) HandleDrawCommit(w http.ResponseWriter, r *http.Request) {
	var payload commitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}

	session := h.Draw.Get(payload.SessionID)
	if session == nil {
		h.handleNotFound(w, "draw session not found")
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

	session.mu.Lock()
	line := session.History.Current()
	session.mu.Unlock()

	if line == nil {
		h.writeError(w, http.StatusConflict, "NO_ACTIVE_FEATURE", "nothing has been drawn in this session", nil)
		return
	}

	names, err := h.Geocoder.RouteNames(r.Context(), line)
	if err != nil {
		log.Printf("[ERROR] Failed to resolve route names on commit: session=%s err=%v", session.ID, err)
		h.writeError(w, http.StatusBadGateway, "GEOCODING_FAILED", err.Error(), nil)
		return
	}

	length := geometry.Length(line)
	item := models.RouteItem{
		Date:      day,
		Direction: payload.Direction,
		Distance:  fmt.Sprintf("%.2f", length/1000), // km
		Transport: payload.Transport,
		InputType: models.InputTypeMap,
		Feature: &models.RouteFeature{
			Feature:   geojson.NewGeometry(line),
			StartName: names.StartName,
			EndName:   names.EndName,
			Length:    length,
		},
	}

	saved, err := h.DB.Routes().Upsert(r.Context(), &item)
	if err != nil {
		log.Printf("[ERROR] Failed to save drawn route: session=%s err=%v", session.ID, err)
		h.writeError(w, http.StatusInternalServerError, "SAVE_FAILED", err.Error(), nil)
		return
	}

	h.Registry.Save(*saved)
	h.Draw.Delete(session.ID)

	log.Printf("[HTTP] POST /api/v1/draw/commit: session=%s id=%s length=%.0f start=%q end=%q", session.ID, saved.ID, length, names.StartName, names.EndName)
	h.writeJSON(w, http.StatusOK, saved)
}

// lineFromPayload extracts a LineString from a posted feature.
func lineFromPayload(feature *geojson.Geometry) (orb.LineString, bool) {
	if feature == nil {
		return nil, false
	}
	line, ok := feature.Geometry().(orb.LineString)
	return line, ok
}
