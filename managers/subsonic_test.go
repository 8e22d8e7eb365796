package managers

import (
	"testing"

	"github.com/ddboline/musicmanager/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubsonicFilterExclusions(t *testing.T) {
	tests := []struct {
		name   string
		filter model.SongFilter
	}{
		{
			name:   "purchased songs are excluded",
			filter: model.SongFilter{Uploaded: true, Purchased: true},
		},
		{
			name:   "non-uploaded songs are excluded",
			filter: model.SongFilter{Uploaded: false, Purchased: false},
		},
		{
			name:   "non-uploaded purchased songs are excluded",
			filter: model.SongFilter{Uploaded: false, Purchased: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// An unroutable server address: excluded filters must return
			// before the client is ever connected.
			mgr := &Subsonic{
				BaseURL:    "http://127.0.0.1:1",
				Username:   "user",
				ClientName: "musicmanager",
			}

			songs, err := mgr.Songs(tt.filter)

			require.NoError(t, err)
			assert.Empty(t, songs)
		})
	}
}

func TestSubsonicUploadUnsupported(t *testing.T) {
	mgr := &Subsonic{
		BaseURL:    "http://127.0.0.1:1",
		Username:   "user",
		ClientName: "musicmanager",
	}

	err := mgr.Upload("/music/Artist - Song.mp3")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no upload endpoint")
	assert.Contains(t, err.Error(), "/music/Artist - Song.mp3")
}
