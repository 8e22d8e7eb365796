package model

// Manager represents a remote music library that can list its songs and
// accept uploads of local files
type Manager interface {
	Songs(filter SongFilter) ([]Song, error)
	Upload(path string) error
}

// SongFilter selects songs by their upload and purchase status. A song
// matches only if both of its flags equal the filter's values.
type SongFilter struct {
	Uploaded  bool
	Purchased bool
}
