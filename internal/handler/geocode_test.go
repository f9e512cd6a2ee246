package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"filmmap/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockGeoCodeService is a mock implementation of the GeoCodeService interface
type MockGeoCodeService struct {
	mock.Mock
}

func (m *MockGeoCodeService) Geocode(ctx context.Context, query string) (*models.Place, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(*models.Place), args.Error(1)
}

func TestGeoCodeHandler_GeoCode(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		query          string
		mockPlace      *models.Place
		mockError      error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "missing query parameter",
			query:          "",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"missing required query parameter 'q'"}`,
		},
		{
			name:  "successful geocoding with result",
			query: "Paris, France",
			mockPlace: &models.Place{
				DisplayName: "Paris, Île-de-France, France",
				Coordinate:  models.Coordinate{Latitude: 48.8588897, Longitude: 2.320041},
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"display_name":"Paris, Île-de-France, France","coordinate":{"latitude":48.8588897,"longitude":2.320041}}`,
		},
		{
			name:           "successful geocoding with no result",
			query:          "nonexistent place",
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"no place found for the query"}`,
		},
		{
			name:           "service error",
			query:          "Paris, France",
			mockError:      assert.AnError,
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			mockSvc := new(MockGeoCodeService)
			handler := NewGeoCodeHandler(mockSvc)

			if tt.query != "" {
				mockSvc.On("Geocode", mock.Anything, tt.query).Return(tt.mockPlace, tt.mockError)
			}

			// Create request
			req := httptest.NewRequest(http.MethodGet, "/geocode", nil)
			if tt.query != "" {
				q := req.URL.Query()
				q.Add("q", tt.query)
				req.URL.RawQuery = q.Encode()
			}
			w := httptest.NewRecorder()

			// Create Gin context
			c, _ := gin.CreateTestContext(w)
			c.Request = req

			// Execute
			handler.GeoCode(c)

			// Assert
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())

			mockSvc.AssertExpectations(t)
		})
	}
}

func TestGeoCodeHandler_ErrorBodyMatchesErrorResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewGeoCodeHandler(new(MockGeoCodeService))
	router := gin.New()
	router.GET("/geocode", handler.GeoCode)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/geocode", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var body errorResponse
	dec := json.NewDecoder(w.Body)
	dec.DisallowUnknownFields()
	require.NoError(t, dec.Decode(&body))
	assert.Equal(t, "missing required query parameter 'q'", body.Error)
}
