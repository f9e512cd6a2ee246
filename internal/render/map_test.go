package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"filmmap/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMap(t *testing.T) {
	center := models.Coordinate{Latitude: 49.8179844, Longitude: 24.0065319}
	points := []models.ResolvedPoint{
		{Title: "A", Coordinate: models.Coordinate{Latitude: 48.85, Longitude: 2.35}},
		{Title: "B", Coordinate: models.Coordinate{Latitude: 50.45, Longitude: 30.52}},
	}

	m := NewMap(center, 0, points)

	assert.Equal(t, center, m.Center)
	assert.Equal(t, DefaultZoom, m.Zoom)
	assert.Equal(t, []Marker{
		{Latitude: 48.85, Longitude: 2.35, Popup: "A", Tooltip: DefaultTooltip},
		{Latitude: 50.45, Longitude: 30.52, Popup: "B", Tooltip: DefaultTooltip},
	}, m.Markers)
}

func TestRender(t *testing.T) {
	m := NewMap(models.Coordinate{Latitude: 40.7410861, Longitude: -73.9896297}, 12, []models.ResolvedPoint{
		{Title: `</script><b>Annie Hall</b>`, Coordinate: models.Coordinate{Latitude: 40.75, Longitude: -73.98}},
	})

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, m))
	out := buf.String()

	assert.Contains(t, out, "40.7410861")
	assert.Contains(t, out, "-73.9896297")
	assert.Contains(t, out, DefaultTooltip)
	assert.Contains(t, out, "Annie Hall")
	assert.NotContains(t, out, "</script><b>")
}

func TestRender_NoMarkers(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Map{Center: models.Coordinate{Latitude: 1, Longitude: 2}, Zoom: 12}))

	assert.Contains(t, buf.String(), "var markers = [];")
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "map.html")

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	m := NewMap(models.Coordinate{Latitude: 1, Longitude: 2}, 12, nil)
	require.NoError(t, WriteFile(path, m))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<!DOCTYPE html>"))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
