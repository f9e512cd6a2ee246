package service

import (
	"context"
	"fmt"

	"filmmap/internal/models"

	"github.com/rs/zerolog/log"
)

// ReverseGeocoder turns a coordinate into a display address.
// An empty address with a nil error means the provider knows nothing at that point.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, coord models.Coordinate) (string, error)
}

// AddressResolver resolves the user's coordinate to the address used for ranking
type AddressResolver struct {
	geocoder ReverseGeocoder
}

// NewAddressResolver creates a new address resolver
func NewAddressResolver(geocoder ReverseGeocoder) *AddressResolver {
	return &AddressResolver{geocoder: geocoder}
}

// Resolve parses a "lat, long" string and returns its address along with the parsed coordinate.
func (s *AddressResolver) Resolve(ctx context.Context, raw string) (string, models.Coordinate, error) {
	coord, err := ParseCoordinate(raw)
	if err != nil {
		return "", models.Coordinate{}, err
	}

	address, err := s.ReverseGeocode(ctx, coord.Latitude, coord.Longitude)
	if err != nil {
		return "", models.Coordinate{}, err
	}

	return address, coord, nil
}

// ReverseGeocode performs exactly one provider lookup for the given coordinates
func (s *AddressResolver) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	coord := models.Coordinate{Latitude: lat, Longitude: lon}
	if err := validateCoordinate(coord); err != nil {
		return "", err
	}

	address, err := s.geocoder.Reverse(ctx, coord)
	if err != nil {
		return "", fmt.Errorf("service: failed to reverse geocode: %w", err)
	}

	if address == "" {
		log.Warn().Float64("lat", lat).Float64("lon", lon).Msg("no address found near coordinates")
	}

	return address, nil
}
