package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"commute-logger/internal/database"
	"commute-logger/internal/models"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/twpayne/go-polyline"
)

type routeRepository struct {
	store *Store
}

func (r *routeRepository) List(ctx context.Context) ([]models.RouteItem, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	query := `SELECT id, trip_date, direction, distance, transport, input_type,
	                 geometry, start_name, end_name, length_m
	          FROM routes
	          ORDER BY trip_date DESC, direction`

	rows, err := r.store.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query routes: %w", err)
	}
	defer rows.Close()

	var routes []models.RouteItem
	for rows.Next() {
		item, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating routes: %w", err)
	}

	return routes, nil
}

func (r *routeRepository) GetByDay(ctx context.Context, day time.Time, direction models.Direction) (*models.RouteItem, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	query := `SELECT id, trip_date, direction, distance, transport, input_type,
	                 geometry, start_name, end_name, length_m
	          FROM routes WHERE trip_date = ? AND direction = ?`

	row := r.store.db.QueryRowContext(ctx, query, day.Format(time.DateOnly), string(direction))
	item, err := scanRoute(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Upsert writes a trip record, replacing any existing record for the same
// (day, direction). The returned item has dirty cleared.
func (r *routeRepository) Upsert(ctx context.Context, item *models.RouteItem) (*models.RouteItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	saved := *item
	if saved.ID == "" {
		saved.ID = saved.DayKey() + "-" + string(saved.Direction)
	}

	geom, startName, endName, lengthM := encodeFeature(saved.Feature)

	query := `INSERT INTO routes (id, trip_date, direction, distance, transport, input_type,
	                              geometry, start_name, end_name, length_m)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	          ON CONFLICT (trip_date, direction) DO UPDATE SET
	              distance = excluded.distance,
	              transport = excluded.transport,
	              input_type = excluded.input_type,
	              geometry = excluded.geometry,
	              start_name = excluded.start_name,
	              end_name = excluded.end_name,
	              length_m = excluded.length_m,
	              updated_at = CURRENT_TIMESTAMP`

	var transport sql.NullString
	if saved.Transport != nil {
		transport = sql.NullString{String: string(*saved.Transport), Valid: true}
	}

	_, err := r.store.db.ExecContext(ctx, query,
		saved.ID, saved.DayKey(), string(saved.Direction), saved.Distance, transport,
		string(saved.InputType), geom, startName, endName, lengthM,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert route: %w", err)
	}

	saved.Dirty = false
	return &saved, nil
}

func (r *routeRepository) Delete(ctx context.Context, day time.Time, direction models.Direction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	result, err := r.store.db.ExecContext(ctx,
		`DELETE FROM routes WHERE trip_date = ? AND direction = ?`,
		day.Format(time.DateOnly), string(direction),
	)
	if err != nil {
		return fmt.Errorf("failed to delete route: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("route %s/%s: %w", day.Format(time.DateOnly), direction, database.ErrNotFound)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanRoute(row scanner) (*models.RouteItem, error) {
	var (
		item      models.RouteItem
		tripDate  string
		direction string
		transport sql.NullString
		inputType string
		geom      sql.NullString
		startName sql.NullString
		endName   sql.NullString
		lengthM   sql.NullFloat64
	)

	err := row.Scan(&item.ID, &tripDate, &direction, &item.Distance, &transport,
		&inputType, &geom, &startName, &endName, &lengthM)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan route: %w", err)
	}

	date, err := time.Parse(time.DateOnly, tripDate)
	if err != nil {
		return nil, fmt.Errorf("invalid trip date %q: %w", tripDate, err)
	}
	item.Date = date
	item.Direction = models.Direction(direction)
	item.InputType = models.InputType(inputType)

	if transport.Valid {
		t := models.Transport(transport.String)
		item.Transport = &t
	}

	if geom.Valid {
		feature, err := decodeFeature(geom.String, startName.String, endName.String, lengthM.Float64)
		if err != nil {
			return nil, err
		}
		item.Feature = feature
	}

	return &item, nil
}

// encodeFeature flattens a route feature into its column values. The shape is
// stored polyline-encoded.
func encodeFeature(f *models.RouteFeature) (geom, startName, endName sql.NullString, lengthM sql.NullFloat64) {
	if f == nil {
		return
	}

	startName = sql.NullString{String: f.StartName, Valid: true}
	endName = sql.NullString{String: f.EndName, Valid: true}
	lengthM = sql.NullFloat64{Float64: f.Length, Valid: true}

	if f.Feature == nil {
		return
	}
	line, ok := f.Feature.Geometry().(orb.LineString)
	if !ok {
		return
	}

	coords := make([][]float64, len(line))
	for i, p := range line {
		coords[i] = []float64{p.Lat(), p.Lon()}
	}
	geom = sql.NullString{String: string(polyline.EncodeCoords(coords)), Valid: true}
	return
}

func decodeFeature(geom, startName, endName string, lengthM float64) (*models.RouteFeature, error) {
	coords, _, err := polyline.DecodeCoords([]byte(geom))
	if err != nil {
		return nil, fmt.Errorf("failed to decode route geometry: %w", err)
	}

	line := make(orb.LineString, len(coords))
	for i, c := range coords {
		line[i] = orb.Point{c[1], c[0]}
	}

	return &models.RouteFeature{
		Feature:   geojson.NewGeometry(line),
		StartName: startName,
		EndName:   endName,
		Length:    lengthM,
	}, nil
}
