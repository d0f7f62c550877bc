package models

import (
	"time"

	"github.com/paulmach/orb/geojson"
)

// Direction is one leg of the daily commute.
type Direction string

const (
	DirectionToWork       Direction = "toWork"
	DirectionFromWork     Direction = "fromWork"
	DirectionRecreational Direction = "recreational"
)

// Valid reports whether d is one of the known directions.
func (d Direction) Valid() bool {
	switch d {
	case DirectionToWork, DirectionFromWork, DirectionRecreational:
		return true
	}
	return false
}

// Transport is the means of travel for a logged trip. A nil *Transport on a
// route item means "unknown".
type Transport string

const (
	TransportBike Transport = "bike"
	TransportWalk Transport = "walk"
	TransportBus  Transport = "bus"
	TransportCar  Transport = "car"
	TransportNone Transport = "none"
)

// InputType records how a trip's distance was entered.
type InputType string

const (
	InputTypeNumber InputType = "number"
	InputTypeMap    InputType = "map"
)

// ZeroDistance is the sentinel meaning "no distance entered" for a trip.
const ZeroDistance = "0"

// Phase is a named date interval describing one stage of a challenge.
// Phases come from challenge configuration and are read-only here.
type Phase struct {
	Type     string `json:"phase_type"`
	DateFrom string `json:"date_from"` // "2006-01-02"
	DateTo   string `json:"date_to"`   // "2006-01-02"
}

const (
	PhaseRegistration = "registration"
	PhaseCompetition  = "competition"
	PhaseEntryEnabled = "entry_enabled"
)

// Settings holds the loaded challenge configuration.
type Settings struct {
	Phases     []Phase `json:"phases"`
	DaysActive int     `json:"days_active"`
}

// CompetitionPhase returns the competition phase, or nil if none is configured.
func (s *Settings) CompetitionPhase() *Phase {
	for i := range s.Phases {
		if s.Phases[i].Type == PhaseCompetition {
			return &s.Phases[i]
		}
	}
	return nil
}

// RouteFeature is the geometry plus resolved place names for a map-drawn route.
type RouteFeature struct {
	Feature   *geojson.Geometry `json:"feature"`
	StartName string            `json:"startName"`
	EndName   string            `json:"endName"`
	Length    float64           `json:"length"` // meters
}

// RouteItem is one directional trip record. Identity for merge purposes is
// (date, direction), not ID.
type RouteItem struct {
	ID        string        `json:"id"`
	Date      time.Time     `json:"date"`
	Direction Direction     `json:"direction"`
	Distance  string        `json:"distance"`
	Transport *Transport    `json:"transport"`
	InputType InputType     `json:"inputType"`
	Dirty     bool          `json:"dirty"`
	Feature   *RouteFeature `json:"routeFeature"`
}

// DayKey returns the calendar-day key for the item, ignoring time-of-day.
func (r *RouteItem) DayKey() string {
	return r.Date.Format(time.DateOnly)
}

// HasDistance reports whether a distance has actually been logged. The
// zero-sentinel string means "nothing entered"; display code should use this
// instead of re-deriving the sentinel rule.
func (r *RouteItem) HasDistance() bool {
	return r.Distance != "" && r.Distance != ZeroDistance
}

// EmptyRouteItem synthesizes the placeholder slot for a day with no persisted
// trip in the given direction.
func EmptyRouteItem(day time.Time, dir Direction) RouteItem {
	return RouteItem{
		ID:        day.Format(time.DateOnly) + "-" + string(dir),
		Date:      day,
		Direction: dir,
		Distance:  ZeroDistance,
		InputType: InputTypeNumber,
	}
}

// RouteDay is a derived, read-only view of one calendar day with both
// directional slots always present. It is never persisted.
type RouteDay struct {
	ID       string    `json:"id"`
	Date     string    `json:"date"` // "2006-01-02"
	ToWork   RouteItem `json:"toWork"`
	FromWork RouteItem `json:"fromWork"`
}
