// Package calendar computes the day-granularity windows that drive the
// route-logging calendar and merges them against persisted trips.
package calendar

import (
	"time"

	"commute-logger/internal/models"
)

// NowFunc supplies the wall clock. Injectable so window calculations are
// testable without touching the system clock.
type NowFunc func() time.Time

// DateRange is a day span expressed as (start exclusive, end inclusive).
// Both bounds are UTC midnights, like every day value in this package.
// Callers walk backward from End day-by-day, so the newest day comes first.
type DateRange struct {
	Start time.Time // exclusive
	End   time.Time // inclusive
}

// Days returns the number of calendar days in the range.
func (r DateRange) Days() int {
	if r.Start.IsZero() || r.End.IsZero() {
		return 0
	}
	d := int(r.End.Sub(r.Start) / (24 * time.Hour))
	if d < 0 {
		return 0
	}
	return d
}

// IsEmpty reports whether the range contains no days.
func (r DateRange) IsEmpty() bool {
	return r.Days() == 0
}

// WindowCalculator translates challenge-phase configuration and wall-clock
// time into the loggable, unloggable and full-competition day windows.
//
// Incomplete or malformed phase configuration degrades to zero times and
// empty ranges; the calendar renders with zero loggable days rather than
// failing.
type WindowCalculator struct {
	phases     []models.Phase
	daysActive int
	now        NowFunc
}

// NewWindowCalculator creates a calculator for the given challenge
// configuration. A nil now falls back to time.Now.
func NewWindowCalculator(phases []models.Phase, daysActive int, now NowFunc) *WindowCalculator {
	if now == nil {
		now = time.Now
	}
	return &WindowCalculator{
		phases:     phases,
		daysActive: daysActive,
		now:        now,
	}
}

// NewWindowCalculatorFromSettings is a convenience constructor over loaded
// challenge settings.
func NewWindowCalculatorFromSettings(s *models.Settings, now NowFunc) *WindowCalculator {
	if s == nil {
		return NewWindowCalculator(nil, 0, now)
	}
	return NewWindowCalculator(s.Phases, s.DaysActive, now)
}

// Today returns the current calendar day as a UTC midnight. Phase boundaries
// and request dates parse to UTC midnights too, so day comparisons stay exact
// whatever the process timezone is.
func (c *WindowCalculator) Today() time.Time {
	t := c.now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// competitionPhase returns the competition phase or nil.
func (c *WindowCalculator) competitionPhase() *models.Phase {
	for i := range c.phases {
		if c.phases[i].Type == models.PhaseCompetition {
			return &c.phases[i]
		}
	}
	return nil
}

// parseDay parses a "2006-01-02" phase boundary. Malformed or empty values
// report ok=false, which callers treat as "boundary not set".
func parseDay(s string) (time.Time, bool) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// LoggingStart returns the first day the user may still log: the later of
// (today - (daysActive - 1)) and the competition start. Users cannot log
// before the challenge begins even if their rolling window would allow it.
func (c *WindowCalculator) LoggingStart() time.Time {
	start := c.Today().AddDate(0, 0, -(c.daysActive - 1))

	phase := c.competitionPhase()
	if phase == nil {
		return start
	}
	from, ok := parseDay(phase.DateFrom)
	if !ok {
		return start
	}
	if start.Before(from) {
		return from
	}
	return start
}

// LoggingEnd returns the last loggable day: the earlier of today and the
// competition end. The window never extends into the future or past the end
// of the competition.
func (c *WindowCalculator) LoggingEnd() time.Time {
	end := c.Today()

	phase := c.competitionPhase()
	if phase == nil {
		return end
	}
	to, ok := parseDay(phase.DateTo)
	if !ok {
		return end
	}
	if to.Before(end) {
		return to
	}
	return end
}

// LoggableRange returns the rolling window of days that may still be logged
// or edited, from LoggingStart through LoggingEnd.
func (c *WindowCalculator) LoggableRange() DateRange {
	return DateRange{
		Start: c.LoggingStart().AddDate(0, 0, -1),
		End:   c.LoggingEnd(),
	}
}

// UnloggableRange returns the competition days that occurred before the
// rolling logging window opened and can no longer be edited. Empty when
// LoggingStart equals or precedes the competition start, or when no
// competition phase is configured.
func (c *WindowCalculator) UnloggableRange() DateRange {
	phase := c.competitionPhase()
	if phase == nil {
		return DateRange{}
	}
	from, ok := parseDay(phase.DateFrom)
	if !ok {
		return DateRange{}
	}

	end := c.LoggingStart().AddDate(0, 0, -1)
	if end.Before(from) {
		return DateRange{}
	}
	return DateRange{
		Start: from.AddDate(0, 0, -1),
		End:   end,
	}
}

// FullCompetitionRange returns the entire competition span, inclusive of
// both boundaries. Used by summary and results views; it ignores "now".
func (c *WindowCalculator) FullCompetitionRange() DateRange {
	phase := c.competitionPhase()
	if phase == nil {
		return DateRange{}
	}
	from, okFrom := parseDay(phase.DateFrom)
	to, okTo := parseDay(phase.DateTo)
	if !okFrom || !okTo {
		return DateRange{}
	}
	return DateRange{
		Start: from.AddDate(0, 0, -1),
		End:   to,
	}
}

// LoggableDaysWithRoutes merges the loggable window against persisted trips.
func (c *WindowCalculator) LoggableDaysWithRoutes(routes []models.RouteItem) []models.RouteDay {
	return BuildDays(c.LoggableRange(), routes)
}

// UnloggableDaysWithRoutes merges the unloggable window against persisted trips.
func (c *WindowCalculator) UnloggableDaysWithRoutes(routes []models.RouteItem) []models.RouteDay {
	return BuildDays(c.UnloggableRange(), routes)
}

// CompetitionDaysWithRoutes merges the full competition span against
// persisted trips.
func (c *WindowCalculator) CompetitionDaysWithRoutes(routes []models.RouteItem) []models.RouteDay {
	return BuildDays(c.FullCompetitionRange(), routes)
}
