package handler

import (
	"context"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ReverseGeocodeHandler handles reverse geocoding requests
type ReverseGeocodeHandler struct {
	service GeoCodingService
}

// GeoCodingService interface for dependency injection
type GeoCodingService interface {
	ReverseGeocode(context.Context, float64, float64) (string, error)
}

// NewReverseGeocodeHandler creates a new reverse geocode handler
func NewReverseGeocodeHandler(svc GeoCodingService) *ReverseGeocodeHandler {
	return &ReverseGeocodeHandler{service: svc}
}

type addressResponse struct {
	Address string `json:"address"`
}

// ReverseGeocode handles GET /reverse-geocode requests
//
//	@Summary	Resolve coordinates to an address
//	@Param		lat	query		number	true	"latitude"
//	@Param		lon	query		number	true	"longitude"
//	@Success	200	{object}	addressResponse
//	@Failure	400	{object}	errorResponse
//	@Failure	404	{object}	errorResponse
//	@Router		/reverse-geocode [get]
func (h *ReverseGeocodeHandler) ReverseGeocode(c *gin.Context) {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")

	if latStr == "" || lonStr == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "missing required query parameters 'lat' and 'lon'"})
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil || math.IsNaN(lat) || lat < -90 || lat > 90 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid latitude format"})
		return
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil || math.IsNaN(lon) || lon < -180 || lon > 180 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid longitude format"})
		return
	}

	address, err := h.service.ReverseGeocode(c.Request.Context(), lat, lon)
	if err != nil {
		log.Error().Err(err).Float64("lat", lat).Float64("lon", lon).Msg("reverse geocode failed")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}

	if address == "" {
		c.JSON(http.StatusNotFound, errorResponse{Error: "no address found near the specified coordinates"})
		return
	}

	c.JSON(http.StatusOK, addressResponse{Address: address})
}
