package service

import (
	"slices"
	"strings"

	"filmmap/internal/models"
)

// candidateWindow is the number of rows kept below the best scoring one.
const candidateWindow = 10

// AddressTokens returns the set of words of an address, ignoring commas.
func AddressTokens(address string) map[string]struct{} {
	return tokenSet(strings.ReplaceAll(address, ",", ""))
}

// Overlap counts the distinct words of location that also occur in tokens.
// Punctuation in location is kept as part of its words.
func Overlap(location string, tokens map[string]struct{}) int {
	score := 0
	for word := range tokenSet(location) {
		if _, ok := tokens[word]; ok {
			score++
		}
	}
	return score
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// ScoreCandidates keeps the records filmed in year and orders them by ascending
// overlap with address. Records with equal scores keep their dataset order.
func ScoreCandidates(records []models.MovieRecord, year int, address string) []models.ScoredCandidate {
	tokens := AddressTokens(address)

	scored := []models.ScoredCandidate{}
	for _, r := range records {
		if r.Year != year {
			continue
		}
		scored = append(scored, models.ScoredCandidate{Record: r, Score: Overlap(r.Location, tokens)})
	}

	slices.SortStableFunc(scored, func(a, b models.ScoredCandidate) int {
		return a.Score - b.Score
	})

	return scored
}

// SelectWindow returns the (up to) ten entries that precede the last one of scored.
// The single best scoring entry is never part of the result.
func SelectWindow(scored []models.ScoredCandidate) []models.ScoredCandidate {
	n := len(scored)
	start := max(n-candidateWindow-1, 0)
	end := max(n-1, 0)
	return scored[start:end]
}

// RankCandidates returns the filming locations to put on the map, in ascending score order.
func RankCandidates(records []models.MovieRecord, year int, address string) []models.Candidate {
	window := SelectWindow(ScoreCandidates(records, year, address))

	candidates := make([]models.Candidate, 0, len(window))
	for _, sc := range window {
		candidates = append(candidates, models.Candidate{
			Location: sc.Record.Location,
			Title:    sc.Record.Title,
		})
	}
	return candidates
}
