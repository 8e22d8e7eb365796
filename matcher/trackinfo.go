package matcher

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/ddboline/musicmanager/model"
)

// InfoFromSong extracts track metadata from a song record's conventional
// fields. Records are otherwise opaque; anything unrecognised yields an
// empty TrackInfo, which never matches.
func InfoFromSong(song model.Song) TrackInfo {
	var fields struct {
		Title  string `json:"title"`
		Artist string `json:"artist"`
		Album  string `json:"album"`
	}

	if err := json.Unmarshal(song, &fields); err != nil {
		return TrackInfo{}
	}

	return TrackInfo{
		Title:  fields.Title,
		Artist: fields.Artist,
		Album:  fields.Album,
	}
}

// InfoFromPath derives track metadata from a local file name, following the
// common "Artist - Title.ext" convention. A leading track number is dropped.
// If the name has no separator the whole stem becomes the title.
func InfoFromPath(path string) TrackInfo {
	stem := filepath.Base(path)
	stem = strings.TrimSuffix(stem, filepath.Ext(stem))
	stem = stripTrackNumber(stem)
	stem = strings.TrimSpace(stem)

	if stem == "" {
		return TrackInfo{}
	}

	parts := strings.Split(stem, " - ")
	switch len(parts) {
	case 1:
		return TrackInfo{Title: strings.TrimSpace(parts[0])}
	case 2:
		return TrackInfo{
			Artist: strings.TrimSpace(parts[0]),
			Title:  strings.TrimSpace(parts[1]),
		}
	default:
		return TrackInfo{
			Artist: strings.TrimSpace(parts[0]),
			Album:  strings.TrimSpace(parts[1]),
			Title:  strings.TrimSpace(strings.Join(parts[2:], " - ")),
		}
	}
}

// stripTrackNumber removes a leading "01 " / "01. " / "01 - " style prefix
func stripTrackNumber(s string) string {
	i := 0
	for i < len(s) && unicode.IsDigit(rune(s[i])) {
		i++
	}

	if i == 0 {
		return s
	}

	rest := s[i:]
	for _, prefix := range []string{" - ", ". ", " ", "."} {
		if strings.HasPrefix(rest, prefix) {
			return rest[len(prefix):]
		}
	}

	return s
}
