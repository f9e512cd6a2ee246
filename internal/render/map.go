// Package render writes resolved filming locations as a Leaflet map page.
package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"filmmap/internal/models"
)

const (
	// DefaultZoom is the initial zoom level of the map.
	DefaultZoom = 12
	// DefaultTooltip is shown when hovering any marker.
	DefaultTooltip = "click to know a name of film"
)

//go:embed map.html.tmpl
var pageTemplate string

var page = template.Must(template.New("map").Parse(pageTemplate))

// Marker is a pin on the map. Popup is shown on click.
type Marker struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Popup     string  `json:"popup"`
	Tooltip   string  `json:"tooltip"`
}

// Map is everything needed to render the page.
type Map struct {
	Center  models.Coordinate
	Zoom    int
	Markers []Marker
}

// NewMap centres a map on center with one marker per point.
func NewMap(center models.Coordinate, zoom int, points []models.ResolvedPoint) Map {
	if zoom <= 0 {
		zoom = DefaultZoom
	}

	markers := make([]Marker, 0, len(points))
	for _, p := range points {
		markers = append(markers, Marker{
			Latitude:  p.Coordinate.Latitude,
			Longitude: p.Coordinate.Longitude,
			Popup:     p.Title,
			Tooltip:   DefaultTooltip,
		})
	}

	return Map{Center: center, Zoom: zoom, Markers: markers}
}

// Render writes the HTML page for m to w.
func Render(w io.Writer, m Map) error {
	if m.Markers == nil {
		m.Markers = []Marker{}
	}
	if err := page.Execute(w, m); err != nil {
		return fmt.Errorf("render: executing template: %w", err)
	}
	return nil
}

// WriteFile renders m into path. The file is replaced atomically.
func WriteFile(path string, m Map) error {
	var buf bytes.Buffer
	if err := Render(&buf, m); err != nil {
		return err
	}

	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	if err := writeFileAtomic(dir, name, buf.Bytes()); err != nil {
		return fmt.Errorf("render: writing %s: %w", path, err)
	}
	return nil
}

func writeFileAtomic(dir, name string, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, filepath.Join(dir, name))
}
