package library

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ddboline/musicmanager/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeManager records calls and plays back canned responses
type fakeManager struct {
	songs      []model.Song
	songsErr   error
	uploadErr  error
	songsCalls []model.SongFilter
	uploads    []string
}

func (f *fakeManager) Songs(filter model.SongFilter) ([]model.Song, error) {
	f.songsCalls = append(f.songsCalls, filter)
	return f.songs, f.songsErr
}

func (f *fakeManager) Upload(path string) error {
	f.uploads = append(f.uploads, path)
	return f.uploadErr
}

var _ model.Manager = &fakeManager{}

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFromManifest(t *testing.T) {
	tests := []struct {
		name            string
		manifest        string
		expectedUploads []string
	}{
		{
			name:            "one upload per line in file order",
			manifest:        "/music/a.mp3\n/music/b.mp3\n/music/c.mp3\n",
			expectedUploads: []string{"/music/a.mp3", "/music/b.mp3", "/music/c.mp3"},
		},
		{
			name:            "lines are trimmed",
			manifest:        "  /music/a.mp3\t\n\t/music/b.mp3  \n",
			expectedUploads: []string{"/music/a.mp3", "/music/b.mp3"},
		},
		{
			name:            "blank lines are forwarded as empty paths",
			manifest:        "/music/a.mp3\n\n/music/b.mp3\n",
			expectedUploads: []string{"/music/a.mp3", "", "/music/b.mp3"},
		},
		{
			name:            "missing trailing newline",
			manifest:        "/music/a.mp3\n/music/b.mp3",
			expectedUploads: []string{"/music/a.mp3", "/music/b.mp3"},
		},
		{
			name:            "empty manifest",
			manifest:        "",
			expectedUploads: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr := &fakeManager{}
			uploader := &Uploader{Manager: mgr}

			err := uploader.FromManifest(writeManifest(t, tt.manifest))

			require.NoError(t, err)
			assert.Equal(t, tt.expectedUploads, mgr.uploads)
		})
	}
}

func TestFromManifestUploadFailureStopsIteration(t *testing.T) {
	mgr := &fakeManager{uploadErr: errors.New("remote said no")}
	uploader := &Uploader{Manager: mgr}

	err := uploader.FromManifest(writeManifest(t, "/music/a.mp3\n/music/b.mp3\n"))

	require.Error(t, err)
	assert.Equal(t, []string{"/music/a.mp3"}, mgr.uploads)
}

func TestFromManifests(t *testing.T) {
	mgr := &fakeManager{}
	uploader := &Uploader{Manager: mgr}

	first := writeManifest(t, "/music/a.mp3\n")
	second := writeManifest(t, "/music/b.mp3\n")

	err := uploader.FromManifests([]string{first, second})

	require.NoError(t, err)
	assert.Equal(t, []string{"/music/a.mp3", "/music/b.mp3"}, mgr.uploads)
}

func TestFromManifestsSkipsMissingManifests(t *testing.T) {
	mgr := &fakeManager{}
	uploader := &Uploader{Manager: mgr}

	err := uploader.FromManifests([]string{filepath.Join(t.TempDir(), "missing.txt")})

	require.NoError(t, err)
	assert.Empty(t, mgr.uploads)
}

func TestFromManifestSkipDuplicates(t *testing.T) {
	mgr := &fakeManager{
		songs: []model.Song{
			model.Song(`{"title":"Known Song","artist":"Artist","album":"Album"}`),
		},
	}
	uploader := &Uploader{Manager: mgr, SkipDuplicates: true}

	manifest := "/music/Artist - Known Song.mp3\n/music/Artist - Completely Different.mp3\n"
	err := uploader.FromManifest(writeManifest(t, manifest))

	require.NoError(t, err)
	assert.Equal(t, []string{"/music/Artist - Completely Different.mp3"}, mgr.uploads)

	// The remote listing is fetched once, with the export filter.
	require.Len(t, mgr.songsCalls, 1)
	assert.Equal(t, model.SongFilter{Uploaded: true, Purchased: false}, mgr.songsCalls[0])
}

func TestFromManifestSkipDuplicatesForwardsBlankLines(t *testing.T) {
	mgr := &fakeManager{
		songs: []model.Song{
			model.Song(`{"title":"Known Song","artist":"Artist"}`),
		},
	}
	uploader := &Uploader{Manager: mgr, SkipDuplicates: true}

	err := uploader.FromManifest(writeManifest(t, "\n"))

	require.NoError(t, err)
	assert.Equal(t, []string{""}, mgr.uploads)
	// Blank lines carry no metadata, so the listing is never consulted.
	assert.Empty(t, mgr.songsCalls)
}

func TestFromManifestSkipDuplicatesListingFailure(t *testing.T) {
	mgr := &fakeManager{songsErr: errors.New("listing unavailable")}
	uploader := &Uploader{Manager: mgr, SkipDuplicates: true}

	err := uploader.FromManifest(writeManifest(t, "/music/Artist - Song.mp3\n"))

	require.Error(t, err)
	assert.Empty(t, mgr.uploads)
}
