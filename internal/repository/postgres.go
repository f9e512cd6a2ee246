package repository

import (
	"context"
	"fmt"

	"filmmap/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool and pgx.Conn used by the repository
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// Repository stores the filming locations dataset in PostgreSQL
type Repository struct {
	db DB
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// CreateSchema creates the movies table if it does not exist
func (r *Repository) CreateSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS movies (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		year INTEGER NOT NULL,
		location TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS movies_year_idx ON movies (year);
	`
	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("repository: failed to create schema: %w", err)
	}
	return nil
}

// InsertMovies bulk loads records with COPY
func (r *Repository) InsertMovies(ctx context.Context, records []models.MovieRecord) (int64, error) {
	n, err := r.db.CopyFrom(
		ctx,
		pgx.Identifier{"movies"},
		[]string{"title", "year", "location"},
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			rec := records[i]
			return []any{rec.Title, rec.Year, rec.Location}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to copy movies: %w", err)
	}
	return n, nil
}

// CountMovies returns the number of stored records
func (r *Repository) CountMovies(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM movies").Scan(&count); err != nil {
		return 0, fmt.Errorf("repository: failed to count movies: %w", err)
	}
	return count, nil
}

// Movies returns every record in insertion order
func (r *Repository) Movies(ctx context.Context) ([]models.MovieRecord, error) {
	return r.query(ctx, `SELECT title, year, location FROM movies ORDER BY id`)
}

// MoviesByYear returns the records filmed in year in insertion order
func (r *Repository) MoviesByYear(ctx context.Context, year int) ([]models.MovieRecord, error) {
	return r.query(ctx, `SELECT title, year, location FROM movies WHERE year = $1 ORDER BY id`, year)
}

func (r *Repository) query(ctx context.Context, sql string, args ...any) ([]models.MovieRecord, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute movies query: %w", err)
	}
	defer rows.Close()

	movies := []models.MovieRecord{}
	for rows.Next() {
		var m models.MovieRecord
		if err := rows.Scan(&m.Title, &m.Year, &m.Location); err != nil {
			return nil, fmt.Errorf("repository: failed to scan movie: %w", err)
		}
		movies = append(movies, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return movies, nil
}
