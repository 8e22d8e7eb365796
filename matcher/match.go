package matcher

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// TrackInfo is the best-effort metadata used for duplicate detection. Fields
// may be empty; an empty field never contributes to a match.
type TrackInfo struct {
	Title  string
	Artist string
	Album  string
}

// Score represents the quality of a match between two tracks
type Score int

const (
	NoMatch    Score = 0
	FuzzyMatch Score = 1
	ExactMatch Score = 2
	AlbumMatch Score = 3
)

const maxLevenshteinDistance = 3

// Match compares two tracks and returns a score indicating match quality
func Match(a, b TrackInfo) Score {
	// Best match: album, artist and title all agree
	if a.Album != "" && b.Album != "" && strings.EqualFold(a.Album, b.Album) &&
		a.Artist != "" && b.Artist != "" && strings.EqualFold(a.Artist, b.Artist) &&
		a.Title != "" && b.Title != "" && strings.EqualFold(a.Title, b.Title) {
		return AlbumMatch
	}

	// Exact artist and title match
	if a.Artist != "" && b.Artist != "" && a.Title != "" && b.Title != "" &&
		strings.EqualFold(a.Artist, b.Artist) && strings.EqualFold(a.Title, b.Title) {
		return ExactMatch
	}

	// Fuzzy match on artist + title
	if a.Artist != "" && b.Artist != "" && a.Title != "" && b.Title != "" {
		aKey := normalizeForMatching(a.Artist) + "|" + normalizeForMatching(a.Title)
		bKey := normalizeForMatching(b.Artist) + "|" + normalizeForMatching(b.Title)
		distance := levenshtein.ComputeDistance(aKey, bKey)
		if distance <= maxLevenshteinDistance {
			return FuzzyMatch
		}
	}

	return NoMatch
}

func normalizeForMatching(s string) string {
	s = strings.ToLower(s)

	// Remove anything in parentheses
	for {
		start := strings.Index(s, "(")
		if start == -1 {
			break
		}
		end := strings.Index(s[start:], ")")
		if end == -1 {
			break
		}
		s = s[:start] + s[start+end+1:]
	}

	// Remove anything after feat/ft/featuring
	for _, sep := range []string{" feat.", " feat ", " ft.", " ft ", " featuring "} {
		if idx := strings.Index(s, sep); idx != -1 {
			s = s[:idx]
		}
	}

	// Clean up whitespace
	s = strings.TrimSpace(s)
	s = strings.Join(strings.Fields(s), " ")

	// Remove "the " from the start
	s = strings.TrimPrefix(s, "the ")

	return s
}
