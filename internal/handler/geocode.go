package handler

import (
	"context"
	"net/http"

	"filmmap/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// GeoCodeHandler handles geocoding requests
type GeoCodeHandler struct {
	service GeoCodeService
}

// GeoCodeService interface for dependency injection
type GeoCodeService interface {
	Geocode(context.Context, string) (*models.Place, error)
}

// NewGeoCodeHandler creates a new geocode handler
func NewGeoCodeHandler(svc GeoCodeService) *GeoCodeHandler {
	return &GeoCodeHandler{service: svc}
}

type errorResponse struct {
	Error string `json:"error"`
}

// GeoCode handles GET /geocode requests
//
//	@Summary	Geocode a place name
//	@Param		q	query		string	true	"place name or address"
//	@Success	200	{object}	models.Place
//	@Failure	400	{object}	errorResponse
//	@Failure	404	{object}	errorResponse
//	@Router		/geocode [get]
func (h *GeoCodeHandler) GeoCode(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "missing required query parameter 'q'"})
		return
	}

	place, err := h.service.Geocode(c.Request.Context(), query)
	if err != nil {
		log.Error().Err(err).Str("q", query).Msg("geocode failed")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}

	if place == nil {
		c.JSON(http.StatusNotFound, errorResponse{Error: "no place found for the query"})
		return
	}

	c.JSON(http.StatusOK, place)
}
