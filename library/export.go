package library

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"

	"github.com/ddboline/musicmanager/model"
)

// Export queries the manager for uploaded, non-purchased songs and writes
// them as newline-delimited JSON to path, one record per line in query
// order, overwriting any existing file.
func Export(m model.Manager, path string) error {
	songs, err := m.Songs(model.SongFilter{Uploaded: true, Purchased: false})
	if err != nil {
		return fmt.Errorf("failed to list songs: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create listing file: %w", err)
	}

	w := bufio.NewWriter(f)
	for _, song := range songs {
		if _, err := w.Write(song); err != nil {
			f.Close()
			return fmt.Errorf("failed to write listing: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			f.Close()
			return fmt.Errorf("failed to write listing: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write listing: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write listing: %w", err)
	}

	slog.Info("Exported song listing", "count", len(songs), "path", path)
	return nil
}
