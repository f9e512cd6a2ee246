package main

import (
	"context"
	"net/http"

	"filmmap/internal/config"
	"filmmap/internal/dataset"
	_ "filmmap/internal/docs"
	"filmmap/internal/geocoder"
	"filmmap/internal/handler"
	"filmmap/internal/logging"
	"filmmap/internal/repository"
	"filmmap/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	logging.Setup(config.LogLevel, false)

	// Movie dataset: PostgreSQL when configured, the CSV file otherwise
	var source service.MovieSource = dataset.NewCSVSource(config.DatasetPath, config.Delimiter())
	if config.DBSource != "" {
		conn, err := pgxpool.New(context.Background(), config.DBSource)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot connect to db")
		}
		defer conn.Close()

		source = repository.NewRepository(conn)
	}

	// Initialize layers
	// Both clients hit the same provider, so they share one request rate
	limiter := geocoder.WithLimiter(geocoder.NewLimiter(config.ProviderMinDelay()))
	addressResolver := service.NewAddressResolver(geocoder.NewClient(config.ReverseGeocoder(), limiter))
	coordinateResolver := service.NewCoordinateResolver(geocoder.NewClient(config.ForwardGeocoder(), limiter))
	mapService := service.NewMapService(source, addressResolver, coordinateResolver, config.MapZoom)

	geoCodeHandler := handler.NewGeoCodeHandler(coordinateResolver)
	reverseGeocodeHandler := handler.NewReverseGeocodeHandler(addressResolver)
	mapHandler := handler.NewMapHandler(mapService)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	r.GET("/geocode", geoCodeHandler.GeoCode)
	r.GET("/reverse-geocode", reverseGeocodeHandler.ReverseGeocode)
	r.GET("/candidates", mapHandler.Candidates)
	r.GET("/map", mapHandler.Map)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	log.Info().Str("address", config.ServerAddress).Msg("starting server")
	if err := r.Run(config.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
