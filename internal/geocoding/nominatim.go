package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/paulmach/orb"
)

// RouteNames holds the resolved labels for the two ends of a drawn route.
type RouteNames struct {
	StartName string `json:"startName"`
	EndName   string `json:"endName"`
}

// ReverseGeocoder resolves coordinates to human-readable place names.
type ReverseGeocoder interface {
	LocationName(ctx context.Context, point orb.Point) (string, error)
	RouteNames(ctx context.Context, line orb.LineString) (RouteNames, error)
}

// ErrReverseGeocodingFailed is returned when a coordinate cannot be resolved
type ErrReverseGeocodingFailed struct {
	Lon    float64
	Lat    float64
	Reason string
}

func (e *ErrReverseGeocodingFailed) Error() string {
	return fmt.Sprintf("reverse geocoding failed for (%.6f,%.6f): %s", e.Lon, e.Lat, e.Reason)
}

type nominatimGeocoder struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *time.Ticker
}

type nominatimReverseResponse struct {
	Address nominatimAddress `json:"address"`
}

type nominatimAddress struct {
	Road         string `json:"road"`
	Suburb       string `json:"suburb"`
	CityDistrict string `json:"city_district"`
	City         string `json:"city"`
}

// bestName applies the fixed fallback precedence over the address fields.
// A well-formed but sparse response yields an empty string, never an error.
func (a nominatimAddress) bestName() string {
	switch {
	case a.Road != "":
		return a.Road
	case a.Suburb != "":
		return a.Suburb
	case a.CityDistrict != "":
		return a.CityDistrict
	case a.City != "":
		return a.City
	}
	return ""
}

// NewNominatimGeocoder creates a reverse geocoder against the given Nominatim
// endpoint with rate limiting. An empty baseURL uses the public instance.
func NewNominatimGeocoder(baseURL string) ReverseGeocoder {
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	return &nominatimGeocoder{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		rateLimiter: time.NewTicker(1 * time.Second),
	}
}

func (g *nominatimGeocoder) LocationName(ctx context.Context, point orb.Point) (string, error) {
	select {
	case <-g.rateLimiter.C:
	case <-ctx.Done():
		return "", ctx.Err()
	}

	lon, lat := point.Lon(), point.Lat()
	queryURL := fmt.Sprintf("%s/reverse?lon=%f&lat=%f&format=json", g.baseURL, lon, lat)
	log.Printf("[GEOCODING] Reverse request: lon=%.6f lat=%.6f url=%s", lon, lat, queryURL)

	req, err := http.NewRequestWithContext(ctx, "GET", queryURL, nil)
	if err != nil {
		log.Printf("[ERROR] Failed to create reverse geocoding request: lon=%.6f lat=%.6f err=%v", lon, lat, err)
		return "", &ErrReverseGeocodingFailed{Lon: lon, Lat: lat, Reason: err.Error()}
	}

	req.Header.Set("User-Agent", "CommuteLogger/1.0")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Printf("[ERROR] Reverse geocoding API request failed: lon=%.6f lat=%.6f err=%v", lon, lat, err)
		return "", &ErrReverseGeocodingFailed{Lon: lon, Lat: lat, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("[ERROR] Reverse geocoding API error: lon=%.6f lat=%.6f status=%d body=%s", lon, lat, resp.StatusCode, string(body))
		return "", &ErrReverseGeocodingFailed{
			Lon:    lon,
			Lat:    lat,
			Reason: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body)),
		}
	}

	var result nominatimReverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Printf("[ERROR] Failed to decode reverse geocoding response: lon=%.6f lat=%.6f err=%v", lon, lat, err)
		return "", &ErrReverseGeocodingFailed{Lon: lon, Lat: lat, Reason: err.Error()}
	}

	name := result.Address.bestName()
	log.Printf("[GEOCODING] Reverse response: lon=%.6f lat=%.6f name=%q", lon, lat, name)
	return name, nil
}

// RouteNames resolves the first and last vertex of a drawn line. The two
// lookups run concurrently; both must settle before the result is built.
// There is no retry and no cache here; a failed lookup propagates to the
// caller.
func (g *nominatimGeocoder) RouteNames(ctx context.Context, line orb.LineString) (RouteNames, error) {
	if len(line) == 0 {
		return RouteNames{}, nil
	}

	var (
		wg               sync.WaitGroup
		names            RouteNames
		startErr, endErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		names.StartName, startErr = g.LocationName(ctx, line[0])
	}()
	go func() {
		defer wg.Done()
		names.EndName, endErr = g.LocationName(ctx, line[len(line)-1])
	}()
	wg.Wait()

	if startErr != nil {
		return RouteNames{}, startErr
	}
	if endErr != nil {
		return RouteNames{}, endErr
	}
	return names, nil
}
