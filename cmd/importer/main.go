package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"filmmap/internal/config"
	"filmmap/internal/dataset"
	"filmmap/internal/logging"
	"filmmap/internal/models"
	"filmmap/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

func main() {
	file := flag.String("file", "", "Path to the CSV file to import")
	flag.Parse()

	if *file == "" {
		fmt.Println("Error: --file flag is required")
		os.Exit(1)
	}

	// Load config
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	logging.Setup(cfg.LogLevel, true)

	if cfg.DBSource == "" {
		log.Fatal().Msg("DB_SOURCE is required for import")
	}

	ctx := context.Background()
	log.Info().Str("file", *file).Msg("starting import")

	records, err := dataset.NewCSVSource(*file, cfg.Delimiter()).Movies(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot parse dataset")
	}
	log.Info().Int("records", len(records)).Msg("parsed dataset")

	// Connect to DB
	conn, err := pgx.Connect(ctx, cfg.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close(ctx)

	if err := run(ctx, repository.NewRepository(conn), records); err != nil {
		log.Fatal().Err(err).Msg("import failed")
	}

	fmt.Printf("Successfully imported %d records\n", len(records))
}

func run(ctx context.Context, repo *repository.Repository, records []models.MovieRecord) error {
	if err := repo.CreateSchema(ctx); err != nil {
		return err
	}

	before, err := repo.CountMovies(ctx)
	if err != nil {
		return err
	}

	if _, err := repo.InsertMovies(ctx, records); err != nil {
		return err
	}

	// Verify data
	after, err := repo.CountMovies(ctx)
	if err != nil {
		return err
	}
	if after-before != len(records) {
		return fmt.Errorf("record count mismatch: expected %d new rows, got %d", len(records), after-before)
	}

	return nil
}
