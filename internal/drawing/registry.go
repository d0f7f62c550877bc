package drawing

import (
	"log"
	"sync"

	"commute-logger/internal/geometry"
	"commute-logger/internal/models"
)

// Registry accumulates the routes a user has committed during the session.
// Saves never deduplicate; duplicate detection is a read-time query so
// summary views can group identical paths.
type Registry struct {
	mu     sync.RWMutex
	routes []models.RouteItem
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Save appends a committed route. Duplicates are allowed at this layer.
func (r *Registry) Save(route models.RouteItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
	log.Printf("[REGISTRY] Saved route: id=%s date=%s direction=%s total=%d", route.ID, route.DayKey(), route.Direction, len(r.routes))
}

// All returns a copy of the committed routes in save order.
func (r *Registry) All() []models.RouteItem {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.RouteItem, len(r.routes))
	copy(out, r.routes)
	return out
}

// Duplicates returns previously committed routes whose drawn shape is
// structurally identical to the given route's.
func (r *Registry) Duplicates(route models.RouteItem) []models.RouteItem {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.RouteItem
	for i := range r.routes {
		if r.routes[i].ID == route.ID {
			continue
		}
		if CompareFeatures(r.routes[i].Feature, route.Feature) {
			out = append(out, r.routes[i])
		}
	}
	return out
}

// CompareFeatures reports whether two drawn features trace the identical
// path: both line geometries, same ordered coordinates. Reversed or
// differently sampled shapes are not equal.
func CompareFeatures(a, b *models.RouteFeature) bool {
	if a == nil || b == nil || a.Feature == nil || b.Feature == nil {
		return false
	}
	return geometry.Equal(a.Feature.Geometry(), b.Feature.Geometry())
}
