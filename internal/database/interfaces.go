package database

import (
	"context"
	"time"

	"commute-logger/internal/models"
)

// DataStore is the interface for data persistence
type DataStore interface {
	Close() error
	HealthCheck(ctx context.Context) error
	Routes() RouteRepository
	Settings() SettingsRepository
}

// RouteRepository handles trip record persistence. Records are keyed by
// (calendar day, direction).
type RouteRepository interface {
	List(ctx context.Context) ([]models.RouteItem, error)
	GetByDay(ctx context.Context, day time.Time, direction models.Direction) (*models.RouteItem, error)
	Upsert(ctx context.Context, item *models.RouteItem) (*models.RouteItem, error)
	Delete(ctx context.Context, day time.Time, direction models.Direction) error
}

// SettingsRepository handles challenge configuration persistence
type SettingsRepository interface {
	Get(ctx context.Context) (*models.Settings, error)
	Update(ctx context.Context, s *models.Settings) error
}
