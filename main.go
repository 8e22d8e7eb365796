package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/csmith/envflag/v2"
	"github.com/csmith/slogflags"
	"github.com/ddboline/musicmanager/library"
	"github.com/ddboline/musicmanager/managers"
	"github.com/ddboline/musicmanager/model"
)

var (
	account = flag.String("account", "ddboline", "Account identifier for the remote music library")
	output  = flag.String("output", "uploaded_mp3.jsonl", "Path the song listing is exported to")
	manager = flag.String("manager", "gmusic", "Music manager backend to use")

	gmusicToken    = flag.String("gmusic-token", "", "Music manager API token")
	gmusicDeviceID = flag.String("gmusic-device-id", "", "Device identifier sent with uploads. Generated if empty.")

	subsonicServer   = flag.String("subsonic-server", "", "Subsonic server base address")
	subsonicUsername = flag.String("subsonic-username", "", "Subsonic username")
	subsonicPassword = flag.String("subsonic-password", "", "Subsonic password")

	skipDuplicates = flag.Bool("skip-duplicates", false, "Skip uploading files that fuzzy-match a song already in the library")

	availableManagers map[string]model.Manager
)

func main() {
	envflag.Parse()
	_ = slogflags.Logger(slogflags.WithSetDefault(true))

	initialiseManagers()

	mgr, err := selectedManager()
	if err != nil {
		slog.Error("Failed to get manager", "error", err)
		os.Exit(1)
	}

	// No manifest arguments means export mode.
	if flag.NArg() == 0 {
		if err := library.Export(mgr, *output); err != nil {
			slog.Error("Failed to export song listing", "manager", *manager, "error", err)
			os.Exit(1)
		}
		return
	}

	uploader := &library.Uploader{
		Manager:        mgr,
		SkipDuplicates: *skipDuplicates,
	}

	if err := uploader.FromManifests(flag.Args()); err != nil {
		slog.Error("Failed to upload from manifests", "manager", *manager, "error", err)
		os.Exit(1)
	}
}

func initialiseManagers() {
	availableManagers = make(map[string]model.Manager)

	availableManagers["gmusic"] = &managers.GMusic{
		Account:  *account,
		Token:    *gmusicToken,
		DeviceID: *gmusicDeviceID,
	}

	if *subsonicServer != "" {
		availableManagers["subsonic"] = &managers.Subsonic{
			BaseURL:    *subsonicServer,
			Username:   *subsonicUsername,
			Password:   *subsonicPassword,
			ClientName: "musicmanager",
		}
	}
}

func selectedManager() (model.Manager, error) {
	if *manager == "" {
		return nil, fmt.Errorf("manager must be specified")
	}

	mgr, ok := availableManagers[*manager]
	if !ok {
		return nil, fmt.Errorf("manager not configured or invalid: %s", *manager)
	}

	return mgr, nil
}
