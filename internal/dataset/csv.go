package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"filmmap/internal/models"

	"github.com/rs/zerolog/log"
)

// Column names looked up in the header row.
const (
	ColumnYear     = "year"
	ColumnLocation = "location"
)

// titleColumns are tried in order; when none is present the first column holds the title.
var titleColumns = []string{"movie", "title"}

// Stats summarizes a load.
type Stats struct {
	Loaded  int
	Skipped int
}

// CSVSource reads movie records from a delimited file.
type CSVSource struct {
	Path      string
	Delimiter rune
}

// NewCSVSource creates a source for the file at path.
func NewCSVSource(path string, delimiter rune) *CSVSource {
	return &CSVSource{Path: path, Delimiter: delimiter}
}

// Movies loads every well-formed record of the file.
func (s *CSVSource) Movies(ctx context.Context) ([]models.MovieRecord, error) {
	file, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("dataset: failed to open file: %w", err)
	}
	defer file.Close()

	records, stats, err := Parse(ctx, file, s.Delimiter)
	if err != nil {
		return nil, fmt.Errorf("dataset: %s: %w", s.Path, err)
	}

	log.Debug().Str("path", s.Path).Int("loaded", stats.Loaded).Int("skipped", stats.Skipped).Msg("dataset loaded")
	return records, nil
}

type columns struct {
	title, year, location int
}

func (c columns) width() int {
	return max(c.title, c.year, c.location) + 1
}

func resolveColumns(header []string) (columns, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}

	year, ok := index[ColumnYear]
	if !ok {
		return columns{}, fmt.Errorf("missing %q column", ColumnYear)
	}
	location, ok := index[ColumnLocation]
	if !ok {
		return columns{}, fmt.Errorf("missing %q column", ColumnLocation)
	}

	title := 0
	for _, name := range titleColumns {
		if i, ok := index[name]; ok {
			title = i
			break
		}
	}

	return columns{title: title, year: year, location: location}, nil
}

// Parse reads records from r. The first row must be a header naming the year and location columns.
// Rows that cannot be parsed are skipped; only an unreadable header is an error.
func Parse(ctx context.Context, r io.Reader, delimiter rune) ([]models.MovieRecord, Stats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.ReuseRecord = true
	if delimiter != 0 {
		reader.Comma = delimiter
	}

	var stats Stats

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, stats, errors.New("empty file")
		}
		return nil, stats, fmt.Errorf("failed to read header: %w", err)
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, stats, err
	}

	records := []models.MovieRecord{}
	for {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				log.Debug().Err(err).Msg("skipping malformed row")
				stats.Skipped++
				continue
			}
			return nil, stats, fmt.Errorf("failed to read record: %w", err)
		}

		record, ok := parseRow(row, cols)
		if !ok {
			stats.Skipped++
			continue
		}
		records = append(records, record)
		stats.Loaded++
	}

	return records, stats, nil
}

func parseRow(row []string, cols columns) (models.MovieRecord, bool) {
	if len(row) < cols.width() {
		return models.MovieRecord{}, false
	}

	year, err := strconv.Atoi(strings.TrimSpace(row[cols.year]))
	if err != nil {
		return models.MovieRecord{}, false
	}

	return models.MovieRecord{
		Title:    row[cols.title],
		Year:     year,
		Location: row[cols.location],
	}, true
}
