package handler

import (
	"bytes"
	"context"
	"net/http"

	"filmmap/internal/render"
	"filmmap/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// MapHandler serves ranked candidates and rendered maps
type MapHandler struct {
	service MapService
}

// MapService interface for dependency injection
type MapService interface {
	Select(ctx context.Context, year int, location string) (*service.Selection, error)
	BuildMap(ctx context.Context, year int, location string) (render.Map, error)
}

// NewMapHandler creates a new map handler
func NewMapHandler(svc MapService) *MapHandler {
	return &MapHandler{service: svc}
}

// bindRequest validates the year and location query parameters.
func bindRequest(c *gin.Context) (int, string, bool) {
	yearStr := c.Query("year")
	location := c.Query("location")
	if yearStr == "" || location == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "missing required query parameters 'year' and 'location'"})
		return 0, "", false
	}

	year, err := service.ParseYear(yearStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid year format"})
		return 0, "", false
	}

	if _, err := service.ParseCoordinate(location); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid location format, expected 'lat, long'"})
		return 0, "", false
	}

	return year, location, true
}

// Candidates handles GET /candidates requests
//
//	@Summary	List the filming locations selected for a year and coordinate
//	@Param		year		query	int		true	"release year"
//	@Param		location	query	string	true	"lat, long"
//	@Success	200			{array}	models.Candidate
//	@Failure	400			{object}	errorResponse
//	@Router		/candidates [get]
func (h *MapHandler) Candidates(c *gin.Context) {
	year, location, ok := bindRequest(c)
	if !ok {
		return
	}

	sel, err := h.service.Select(c.Request.Context(), year, location)
	if err != nil {
		log.Error().Err(err).Int("year", year).Str("location", location).Msg("candidate selection failed")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, sel.Candidates)
}

// Map handles GET /map requests
//
//	@Summary	Render the filming locations map
//	@Param		year		query	int		true	"release year"
//	@Param		location	query	string	true	"lat, long"
//	@Produce	html
//	@Success	200
//	@Failure	400	{object}	errorResponse
//	@Router		/map [get]
func (h *MapHandler) Map(c *gin.Context) {
	year, location, ok := bindRequest(c)
	if !ok {
		return
	}

	m, err := h.service.BuildMap(c.Request.Context(), year, location)
	if err != nil {
		log.Error().Err(err).Int("year", year).Str("location", location).Msg("map build failed")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}

	var buf bytes.Buffer
	if err := render.Render(&buf, m); err != nil {
		log.Error().Err(err).Msg("map render failed")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
