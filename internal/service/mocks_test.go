package service

import (
	"context"

	"filmmap/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockReverseGeocoder is a mock implementation of the ReverseGeocoder interface
type MockReverseGeocoder struct {
	mock.Mock
}

func (m *MockReverseGeocoder) Reverse(ctx context.Context, coord models.Coordinate) (string, error) {
	args := m.Called(ctx, coord)
	return args.String(0), args.Error(1)
}

// MockForwardGeocoder is a mock implementation of the ForwardGeocoder interface
type MockForwardGeocoder struct {
	mock.Mock
}

func (m *MockForwardGeocoder) Geocode(ctx context.Context, query string) (*models.Place, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(*models.Place), args.Error(1)
}

// MockMovieSource is a mock implementation of the MovieSource interface
type MockMovieSource struct {
	mock.Mock
}

func (m *MockMovieSource) Movies(ctx context.Context) ([]models.MovieRecord, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.MovieRecord), args.Error(1)
}

type countingProgress struct {
	steps int
}

func (p *countingProgress) Add(num int) error {
	p.steps += num
	return nil
}
