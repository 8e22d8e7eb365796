package library

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ddboline/musicmanager/matcher"
	"github.com/ddboline/musicmanager/model"
)

// Uploader sends the files named by manifest files to a music manager
type Uploader struct {
	Manager model.Manager

	// SkipDuplicates fuzzy-matches each manifest entry against the remote
	// listing and skips entries that already appear uploaded.
	SkipDuplicates bool

	remote       []matcher.TrackInfo
	remoteLoaded bool
}

// FromManifests uploads from each named manifest in order. Manifests that
// don't exist are skipped.
func (u *Uploader) FromManifests(paths []string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			slog.Debug("Skipping missing manifest", "path", path)
			continue
		}

		if err := u.FromManifest(path); err != nil {
			return err
		}
	}

	return nil
}

// FromManifest uploads every line of the manifest, trimmed, in file order.
// Blank lines are forwarded as-is: the manager receives an empty path and
// its failure stops the run, matching the historical behaviour of this tool.
func (u *Uploader) FromManifest(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		target := strings.TrimSpace(scanner.Text())

		if u.SkipDuplicates && target != "" {
			dup, err := u.isDuplicate(target)
			if err != nil {
				return err
			}
			if dup {
				slog.Info("Skipping already uploaded file", "path", target)
				continue
			}
		}

		slog.Info("Uploading file", "path", target)
		if err := u.Manager.Upload(target); err != nil {
			return fmt.Errorf("failed to upload %q: %w", target, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}

	return nil
}

// isDuplicate reports whether the file's metadata matches a song already in
// the remote library. The remote listing is fetched once per Uploader.
func (u *Uploader) isDuplicate(path string) (bool, error) {
	info := matcher.InfoFromPath(path)
	if info.Title == "" {
		return false, nil
	}

	if !u.remoteLoaded {
		songs, err := u.Manager.Songs(model.SongFilter{Uploaded: true, Purchased: false})
		if err != nil {
			return false, fmt.Errorf("failed to list songs for duplicate check: %w", err)
		}

		u.remote = make([]matcher.TrackInfo, 0, len(songs))
		for _, song := range songs {
			u.remote = append(u.remote, matcher.InfoFromSong(song))
		}
		u.remoteLoaded = true

		slog.Debug("Loaded remote listing for duplicate check", "count", len(u.remote))
	}

	return matcher.Find(u.remote, info) != -1, nil
}
