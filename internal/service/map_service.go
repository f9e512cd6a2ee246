package service

import (
	"context"
	"fmt"

	"filmmap/internal/models"
	"filmmap/internal/render"
)

// MovieSource provides the filming locations dataset
type MovieSource interface {
	Movies(ctx context.Context) ([]models.MovieRecord, error)
}

// yearSource is implemented by sources that can filter by year themselves.
type yearSource interface {
	MoviesByYear(ctx context.Context, year int) ([]models.MovieRecord, error)
}

// MapService runs the lookup pipeline: resolve the user's address, rank the dataset
// against it, geocode the selected locations and lay them out on a map.
type MapService struct {
	source      MovieSource
	addresses   *AddressResolver
	coordinates *CoordinateResolver
	zoom        int
}

// NewMapService creates a new map service
func NewMapService(source MovieSource, addresses *AddressResolver, coordinates *CoordinateResolver, zoom int) *MapService {
	return &MapService{
		source:      source,
		addresses:   addresses,
		coordinates: coordinates,
		zoom:        zoom,
	}
}

// Selection is the outcome of ranking the dataset for one request.
type Selection struct {
	Center     models.Coordinate
	Address    string
	Candidates []models.Candidate
}

// Select resolves location to an address and picks the candidates filmed in year.
func (s *MapService) Select(ctx context.Context, year int, location string) (*Selection, error) {
	address, center, err := s.addresses.Resolve(ctx, location)
	if err != nil {
		return nil, err
	}

	records, err := s.load(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load movies: %w", err)
	}

	return &Selection{
		Center:     center,
		Address:    address,
		Candidates: RankCandidates(records, year, address),
	}, nil
}

func (s *MapService) load(ctx context.Context, year int) ([]models.MovieRecord, error) {
	if ys, ok := s.source.(yearSource); ok {
		return ys.MoviesByYear(ctx, year)
	}
	return s.source.Movies(ctx)
}

// Plot geocodes the selection and builds the map centred on the requested coordinate.
func (s *MapService) Plot(ctx context.Context, sel *Selection, progress Progress) (render.Map, error) {
	points, err := s.coordinates.Resolve(ctx, sel.Candidates, progress)
	if err != nil {
		return render.Map{}, err
	}

	return render.NewMap(sel.Center, s.zoom, points), nil
}

// BuildMap runs Select and Plot back to back.
func (s *MapService) BuildMap(ctx context.Context, year int, location string) (render.Map, error) {
	sel, err := s.Select(ctx, year, location)
	if err != nil {
		return render.Map{}, err
	}
	return s.Plot(ctx, sel, nil)
}
