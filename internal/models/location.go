package models

// Coordinate is a WGS84 point.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Place is the best match a geocoding provider returned for a query, with its display name and coordinates.
type Place struct {
	DisplayName string     `json:"display_name"`
	Coordinate  Coordinate `json:"coordinate"`
}
