package models

// MovieRecord is one row of the filming locations dataset.
type MovieRecord struct {
	Title    string `json:"title"`
	Year     int    `json:"year"`
	Location string `json:"location"`
}

// ScoredCandidate pairs a record with the number of tokens its location shares with the resolved address.
type ScoredCandidate struct {
	Record MovieRecord `json:"record"`
	Score  int         `json:"score"`
}

// Candidate is a selected filming location waiting to be geocoded.
type Candidate struct {
	Location string `json:"location"`
	Title    string `json:"title"`
}

// ResolvedPoint is a candidate whose location text geocoded to a coordinate.
type ResolvedPoint struct {
	Title      string     `json:"title"`
	Coordinate Coordinate `json:"coordinate"`
}
