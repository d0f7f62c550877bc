// Package testutil provides shared test doubles.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"commute-logger/internal/geocoding"

	"github.com/paulmach/orb"
)

// GeocodeCall tracks a call to the reverse geocoder
type GeocodeCall struct {
	Point orb.Point
}

// MockGeocoder is a deterministic ReverseGeocoder for testing. By default it
// labels each point from its coordinates; Overrides pins specific points to
// fixed names, and Err makes every lookup fail.
type MockGeocoder struct {
	Overrides map[string]string
	Err       error

	mu    sync.Mutex
	Calls []GeocodeCall
}

// NewMockGeocoder creates a mock with no overrides.
func NewMockGeocoder() *MockGeocoder {
	return &MockGeocoder{
		Overrides: make(map[string]string),
	}
}

func makeKey(p orb.Point) string {
	return fmt.Sprintf("%.5f,%.5f", p.Lon(), p.Lat())
}

// Override pins the name returned for a point.
func (m *MockGeocoder) Override(p orb.Point, name string) {
	m.Overrides[makeKey(p)] = name
}

func (m *MockGeocoder) LocationName(ctx context.Context, point orb.Point) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, GeocodeCall{Point: point})
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	if name, ok := m.Overrides[makeKey(point)]; ok {
		return name, nil
	}
	return fmt.Sprintf("near %s", makeKey(point)), nil
}

func (m *MockGeocoder) RouteNames(ctx context.Context, line orb.LineString) (geocoding.RouteNames, error) {
	if len(line) == 0 {
		return geocoding.RouteNames{}, nil
	}

	start, err := m.LocationName(ctx, line[0])
	if err != nil {
		return geocoding.RouteNames{}, err
	}
	end, err := m.LocationName(ctx, line[len(line)-1])
	if err != nil {
		return geocoding.RouteNames{}, err
	}
	return geocoding.RouteNames{StartName: start, EndName: end}, nil
}
