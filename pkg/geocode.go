package pkg

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// UnknownLocation is the label for trips whose records carry no GPS position.
const UnknownLocation = "Unknown"

// nominatimBaseURL is the default OpenStreetMap reverse-geocoding endpoint.
const nominatimBaseURL = "https://nominatim.openstreetmap.org"

// geocodeUserAgent identifies this tool to Nominatim, which rejects anonymous
// clients.
const geocodeUserAgent = "photo-trips/1.0"

// Geocoder resolves a coordinate to a human-readable place name.
// Implementations may fail (timeout, service unavailable); callers substitute
// a fallback label rather than aborting.
type Geocoder interface {
	ResolvePlace(ctx context.Context, lat, lon float64) (string, error)
}

// NominatimGeocoder resolves place names against the OpenStreetMap Nominatim
// reverse-geocoding API.
type NominatimGeocoder struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client
}

// NewNominatimGeocoder returns a geocoder with the public Nominatim endpoint
// and a 10 second request timeout.
func NewNominatimGeocoder() *NominatimGeocoder {
	return &NominatimGeocoder{
		BaseURL:   nominatimBaseURL,
		UserAgent: geocodeUserAgent,
		Client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// nominatimResponse is the subset of the Nominatim reverse response we consume.
type nominatimResponse struct {
	Address struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
	} `json:"address"`
}

// ResolvePlace performs a reverse-geocoding lookup and returns the city, town
// or village name, in that order of preference. An empty string with a nil
// error means the service answered but had no usable name for the coordinate.
func (g *NominatimGeocoder) ResolvePlace(ctx context.Context, lat, lon float64) (string, error) {
	reqURL := fmt.Sprintf("%s/reverse?lat=%f&lon=%f&format=json&addressdetails=1&accept-language=en",
		g.BaseURL, lat, lon)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build geocoding request: %w", err)
	}
	req.Header.Set("User-Agent", g.UserAgent)

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geocoding API returned status %d", resp.StatusCode)
	}

	var result nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to parse geocoding response: %w", err)
	}

	switch {
	case result.Address.City != "":
		return result.Address.City, nil
	case result.Address.Town != "":
		return result.Address.Town, nil
	case result.Address.Village != "":
		return result.Address.Village, nil
	}
	return "", nil
}

// FallbackLabel is the deterministic place label for a coordinate that could
// not be resolved. The coordinate is embedded so that distinct unresolvable
// locations do not collapse into a single folder.
func FallbackLabel(lat, lon float64) string {
	return fmt.Sprintf("Unknown_%.4f_%.4f", lat, lon)
}

// TripLocation resolves the place name for one trip, using the coordinate of
// the trip's first record. Trips without a coordinate get the shared
// UnknownLocation label; a failed or empty lookup gets the coordinate-qualified
// fallback label. Failures are logged, never fatal.
func TripLocation(ctx context.Context, geocoder Geocoder, trip Trip) string {
	coord := trip.FirstLocation()
	if coord == nil {
		return UnknownLocation
	}

	place, err := geocoder.ResolvePlace(ctx, coord.Lat, coord.Lon)
	if err != nil {
		log.Printf("Warning: geocoding failed for (%.4f, %.4f): %v", coord.Lat, coord.Lon, err)
		return FallbackLabel(coord.Lat, coord.Lon)
	}
	if place == "" {
		return FallbackLabel(coord.Lat, coord.Lon)
	}
	return place
}
