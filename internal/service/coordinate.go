package service

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"filmmap/internal/models"
)

// ErrInvalidYear is returned when the requested year is not an integer.
var ErrInvalidYear = errors.New("service: invalid year")

// ParseYear parses the year typed by the user.
func ParseYear(raw string) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidYear, raw)
	}
	return year, nil
}

// ParseCoordinate parses a "lat, long" string.
func ParseCoordinate(raw string) (models.Coordinate, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return models.Coordinate{}, fmt.Errorf("service: invalid coordinate %q: expected format \"lat, long\"", raw)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("service: invalid latitude format: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("service: invalid longitude format: %w", err)
	}

	coord := models.Coordinate{Latitude: lat, Longitude: lon}
	if err := validateCoordinate(coord); err != nil {
		return models.Coordinate{}, err
	}
	return coord, nil
}

func validateCoordinate(coord models.Coordinate) error {
	if math.IsNaN(coord.Latitude) || coord.Latitude < -90 || coord.Latitude > 90 {
		return fmt.Errorf("service: invalid latitude: %f", coord.Latitude)
	}
	if math.IsNaN(coord.Longitude) || coord.Longitude < -180 || coord.Longitude > 180 {
		return fmt.Errorf("service: invalid longitude: %f", coord.Longitude)
	}
	return nil
}
