package service

import (
	"context"
	"fmt"
	"strings"

	"filmmap/internal/models"

	"github.com/rs/zerolog/log"
)

// ForwardGeocoder finds the best matching place for a free-text query.
// A nil place with a nil error means there was no match.
type ForwardGeocoder interface {
	Geocode(ctx context.Context, query string) (*models.Place, error)
}

// Progress is advanced once per candidate handled by CoordinateResolver.Resolve.
type Progress interface {
	Add(num int) error
}

// CoordinateResolver turns candidate filming locations into map points
type CoordinateResolver struct {
	geocoder ForwardGeocoder
}

// NewCoordinateResolver creates a new coordinate resolver
func NewCoordinateResolver(geocoder ForwardGeocoder) *CoordinateResolver {
	return &CoordinateResolver{geocoder: geocoder}
}

// Geocode looks up a single place by its text
func (s *CoordinateResolver) Geocode(ctx context.Context, query string) (*models.Place, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("service: query cannot be empty")
	}

	place, err := s.geocoder.Geocode(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("service: failed to geocode %q: %w", query, err)
	}

	return place, nil
}

// Resolve geocodes every candidate in order. Candidates without a match are dropped;
// provider errors abort the whole resolution.
func (s *CoordinateResolver) Resolve(ctx context.Context, candidates []models.Candidate, progress Progress) ([]models.ResolvedPoint, error) {
	points := make([]models.ResolvedPoint, 0, len(candidates))

	for _, c := range candidates {
		place, err := s.resolveOne(ctx, c)
		if progress != nil {
			_ = progress.Add(1)
		}
		if err != nil {
			return nil, err
		}
		if place == nil {
			log.Debug().Str("title", c.Title).Str("location", c.Location).Msg("no coordinates for location, skipping")
			continue
		}

		points = append(points, models.ResolvedPoint{
			Title:      c.Title,
			Coordinate: place.Coordinate,
		})
	}

	return points, nil
}

func (s *CoordinateResolver) resolveOne(ctx context.Context, c models.Candidate) (*models.Place, error) {
	if strings.TrimSpace(c.Location) == "" {
		return nil, nil
	}
	return s.Geocode(ctx, c.Location)
}
