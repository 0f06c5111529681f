package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// GeoPoint is a confirmed location as consumed by profile and service forms.
type GeoPoint struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

var ErrNoGeocodeResult = errors.New("no results for address")

// Geocoder talks to a Nominatim-compatible lookup service.
type Geocoder struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client
}

func NewGeocoder(baseURL, userAgent string) *Geocoder {
	return &Geocoder{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		UserAgent: userAgent,
		Client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Error       string `json:"error,omitempty"`
}

// Forward resolves a free-text address to coordinates.
func (g *Geocoder) Forward(ctx context.Context, address string) (GeoPoint, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return GeoPoint{}, errors.New("address is required")
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("q", address)

	var places []nominatimPlace
	if err := g.get(ctx, "/search", q, &places); err != nil {
		return GeoPoint{}, err
	}
	if len(places) == 0 {
		return GeoPoint{}, ErrNoGeocodeResult
	}
	return places[0].toPoint()
}

// Reverse resolves clicked coordinates to a display address.
func (g *Geocoder) Reverse(ctx context.Context, lat, lng float64) (GeoPoint, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return GeoPoint{}, errors.New("coordinates out of range")
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))

	var place nominatimPlace
	if err := g.get(ctx, "/reverse", q, &place); err != nil {
		return GeoPoint{}, err
	}
	if place.Error != "" || place.DisplayName == "" {
		return GeoPoint{}, ErrNoGeocodeResult
	}
	// the click coordinates are authoritative, only the address comes from the lookup
	return GeoPoint{Address: place.DisplayName, Lat: lat, Lng: lng}, nil
}

func (g *Geocoder) get(ctx context.Context, path string, q url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if g.UserAgent != "" {
		req.Header.Set("User-Agent", g.UserAgent)
	}

	res, err := g.Client.Do(req)
	if err != nil {
		return fmt.Errorf("geocoder request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return fmt.Errorf("geocoder returned status %d", res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("geocoder response: %w", err)
	}
	return nil
}

func (p nominatimPlace) toPoint() (GeoPoint, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return GeoPoint{}, fmt.Errorf("invalid latitude %q", p.Lat)
	}
	lng, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return GeoPoint{}, fmt.Errorf("invalid longitude %q", p.Lon)
	}
	return GeoPoint{Address: p.DisplayName, Lat: lat, Lng: lng}, nil
}
