package managers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/ddboline/musicmanager/model"
	"github.com/supersonic-app/go-subsonic/subsonic"
)

// Subsonic is a manager backed by a Subsonic server. A Subsonic library has
// no purchase concept: every song counts as uploaded and none as purchased.
// The Subsonic API also has no upload endpoint, so Upload always fails.
type Subsonic struct {
	BaseURL    string
	Username   string
	Password   string
	ClientName string

	mu       sync.Mutex
	client   *subsonic.Client
	allSongs []*subsonic.Child
}

// Songs retrieves the full library listing and serializes each song as an
// opaque record
func (s *Subsonic) Songs(filter model.SongFilter) ([]model.Song, error) {
	if filter.Purchased || !filter.Uploaded {
		slog.Debug("Filter excludes every Subsonic song", "manager", "subsonic")
		return nil, nil
	}

	client, err := s.getClient()
	if err != nil {
		return nil, err
	}

	allSongs, err := s.getAllSongs(client)
	if err != nil {
		return nil, err
	}

	songs := make([]model.Song, 0, len(allSongs))
	for _, song := range allSongs {
		data, err := json.Marshal(song)
		if err != nil {
			return nil, err
		}
		songs = append(songs, model.Song(data))
	}

	return songs, nil
}

// Upload is unsupported on Subsonic servers
func (s *Subsonic) Upload(path string) error {
	return fmt.Errorf("subsonic: the Subsonic API has no upload endpoint (cannot upload %q)", path)
}

// getClient lazily connects to the Subsonic server
func (s *Subsonic) getClient() (*subsonic.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}

	client := &subsonic.Client{
		Client:     http.DefaultClient,
		BaseUrl:    s.BaseURL,
		User:       s.Username,
		ClientName: s.ClientName,
	}

	if s.Password != "" {
		if err := client.Authenticate(s.Password); err != nil {
			return nil, err
		}
	}

	s.client = client
	return s.client, nil
}

// getAllSongs retrieves all songs from the Subsonic server
func (s *Subsonic) getAllSongs(client *subsonic.Client) ([]*subsonic.Child, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.allSongs != nil {
		return s.allSongs, nil
	}

	slog.Debug("Retrieving all songs", "manager", "subsonic")

	var allSongs []*subsonic.Child
	offset := 0
	const batchSize = 500

	for {
		results, err := client.Search3("", map[string]string{
			"songCount":   strconv.Itoa(batchSize),
			"songOffset":  strconv.Itoa(offset),
			"artistCount": "0",
			"albumCount":  "0",
		})
		if err != nil {
			return nil, err
		}

		if len(results.Song) == 0 {
			break
		}

		allSongs = append(allSongs, results.Song...)

		if len(results.Song) < batchSize {
			break
		}
		offset += batchSize
	}

	slog.Debug("Retrieved all songs", "count", len(allSongs), "manager", "subsonic")
	s.allSongs = allSongs
	return allSongs, nil
}

var _ model.Manager = &Subsonic{}
