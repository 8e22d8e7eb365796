package managers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/ddboline/musicmanager/model"
	"github.com/google/uuid"
)

const defaultGMusicURL = "https://musicmanager.googleapis.com/v1"

// GMusic is a manager backed by the hosted music-manager service. The
// account is bound at construction; authentication uses a bearer token.
type GMusic struct {
	Account  string
	Token    string
	DeviceID string

	// BaseURL overrides the service endpoint, mainly for tests.
	BaseURL string

	mu       sync.Mutex
	deviceID string
}

type gmusicSongsResponse struct {
	Songs     []json.RawMessage `json:"songs"`
	NextToken string            `json:"next_page_token"`
}

// Songs retrieves the account's song listing, following continuation tokens
// until the listing is exhausted
func (g *GMusic) Songs(filter model.SongFilter) ([]model.Song, error) {
	slog.Debug("Retrieving song listing", "manager", "gmusic", "account", g.Account)

	var songs []model.Song
	token := ""

	for {
		page, err := g.fetchSongsPage(filter, token)
		if err != nil {
			return nil, err
		}

		for _, song := range page.Songs {
			songs = append(songs, model.Song(song))
		}

		if page.NextToken == "" {
			break
		}
		token = page.NextToken
	}

	slog.Debug("Retrieved song listing", "count", len(songs), "manager", "gmusic")
	return songs, nil
}

// fetchSongsPage fetches a single page of the song listing, retrying on 429
func (g *GMusic) fetchSongsPage(filter model.SongFilter, pageToken string) (*gmusicSongsResponse, error) {
	const maxRetries = 3

	query := url.Values{}
	query.Set("account", g.Account)
	query.Set("uploaded", strconv.FormatBool(filter.Uploaded))
	query.Set("purchased", strconv.FormatBool(filter.Purchased))
	if pageToken != "" {
		query.Set("page_token", pageToken)
	}
	endpoint := fmt.Sprintf("%s/songs?%s", g.baseURL(), query.Encode())

	for attempt := 0; attempt < maxRetries; attempt++ {
		req, err := http.NewRequest("GET", endpoint, nil)
		if err != nil {
			return nil, err
		}

		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", g.Token))

		client := &http.Client{}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			sleepDuration := g.getSleepDuration(resp)
			slog.Warn("Rate limited (429), retrying", "attempt", attempt+1, "sleep_seconds", sleepDuration.Seconds(), "manager", "gmusic")
			time.Sleep(sleepDuration)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return nil, fmt.Errorf("music manager API error: %s - %s", resp.Status, string(body))
		}

		var page gmusicSongsResponse
		err = json.NewDecoder(resp.Body).Decode(&page)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}

		return &page, nil
	}

	return nil, fmt.Errorf("gmusic: max retries exceeded due to rate limiting")
}

// Upload transfers the file at path to the remote library. The file is sent
// as a single multipart request; there is no retry or resumption.
func (g *GMusic) Upload(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("account", g.Account); err != nil {
		return err
	}
	if err := writer.WriteField("device_id", g.getDeviceID()); err != nil {
		return err
	}

	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequest("POST", fmt.Sprintf("%s/upload", g.baseURL()), &body)
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", g.Token))
	req.Header.Set("Content-Type", writer.FormDataContentType())

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("music manager API error: %s - %s", resp.Status, string(respBody))
	}

	return nil
}

func (g *GMusic) baseURL() string {
	if g.BaseURL != "" {
		return g.BaseURL
	}
	return defaultGMusicURL
}

// getDeviceID returns the configured device ID, generating a stable one for
// the process lifetime if none was given
func (g *GMusic) getDeviceID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.DeviceID != "" {
		return g.DeviceID
	}

	if g.deviceID == "" {
		g.deviceID = uuid.NewString()
		slog.Debug("Generated device ID", "device_id", g.deviceID, "manager", "gmusic")
	}

	return g.deviceID
}

// getSleepDuration calculates sleep duration from rate limit headers
func (g *GMusic) getSleepDuration(resp *http.Response) time.Duration {
	resetInStr := resp.Header.Get("X-RateLimit-Reset-In")
	if resetInStr != "" {
		if resetIn, err := strconv.Atoi(resetInStr); err == nil {
			return time.Duration(resetIn+5) * time.Second
		}
	}
	return 10 * time.Second
}

var _ model.Manager = &GMusic{}
