package calendar

import (
	"time"

	"commute-logger/internal/models"
)

// BuildDays converts a day range plus the flat persisted trip list into one
// record per calendar day, newest day first. Every day carries both
// directional slots; a slot with no persisted trip is synthesized empty.
//
// The lookup is a linear scan on (day, direction). At challenge scale (tens
// to low hundreds of days and trips) that is fine; index the routes first if
// this is ever fed large lists.
func BuildDays(r DateRange, routes []models.RouteItem) []models.RouteDay {
	days := r.Days()
	if days == 0 {
		return nil
	}

	out := make([]models.RouteDay, 0, days)
	for i := 0; i < days; i++ {
		day := r.End.AddDate(0, 0, -i)
		key := day.Format(time.DateOnly)
		out = append(out, models.RouteDay{
			ID:       key,
			Date:     key,
			ToWork:   findOrEmpty(routes, day, models.DirectionToWork),
			FromWork: findOrEmpty(routes, day, models.DirectionFromWork),
		})
	}
	return out
}

// findOrEmpty returns the persisted trip for (day, direction) verbatim, or a
// synthesized empty slot. Matching is day-granularity; time-of-day on the
// persisted record is ignored.
func findOrEmpty(routes []models.RouteItem, day time.Time, dir models.Direction) models.RouteItem {
	key := day.Format(time.DateOnly)
	for i := range routes {
		if routes[i].Direction == dir && routes[i].DayKey() == key {
			return routes[i]
		}
	}
	return models.EmptyRouteItem(day, dir)
}
