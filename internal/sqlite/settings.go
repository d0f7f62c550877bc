package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"commute-logger/internal/models"
)

type settingsRepository struct {
	store *Store
}

func (r *settingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	query := `SELECT days_active, phases FROM settings WHERE id = 1`

	var s models.Settings
	var phasesJSON string

	err := r.store.db.QueryRowContext(ctx, query).Scan(&s.DaysActive, &phasesJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	if err := json.Unmarshal([]byte(phasesJSON), &s.Phases); err != nil {
		return nil, fmt.Errorf("failed to parse phases: %w", err)
	}

	return &s, nil
}

func (r *settingsRepository) Update(ctx context.Context, s *models.Settings) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	phases := s.Phases
	if phases == nil {
		phases = []models.Phase{}
	}
	phasesJSON, err := json.Marshal(phases)
	if err != nil {
		return fmt.Errorf("failed to marshal phases: %w", err)
	}

	query := `UPDATE settings SET days_active = ?, phases = ? WHERE id = 1`
	_, err = r.store.db.ExecContext(ctx, query, s.DaysActive, string(phasesJSON))
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}

	return nil
}
