package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var (
	CurrentVersion = "v0.3.0" // Will be overwritten by ldflags during build
	ReleaseAPI     = "https://api.github.com/repos/chukul/aimsctl/releases/latest"
	CheckInterval  = 24 * time.Hour
)

var versionCachePath = filepath.Join(os.Getenv("HOME"), ".aimsctl", "version_check.json")

// Release describes the newest published aimsctl release.
type Release struct {
	Version string `json:"tag_name"`
	URL     string `json:"html_url"`
}

type versionCheck struct {
	LastChecked   time.Time `json:"last_checked"`
	LatestVersion string    `json:"latest_version"`
}

// CheckForUpdates looks for a newer release in the background and prints a
// hint to stderr when one exists. At most one check per CheckInterval; all
// failures are debug-logged and otherwise silent.
func CheckForUpdates() {
	if !shouldCheck() {
		return
	}

	go func() {
		release, err := LatestRelease()
		if err != nil {
			log.WithError(err).Debug("update check failed")
			return
		}

		if IsNewer(release.Version, CurrentVersion) {
			fmt.Fprintf(os.Stderr, "\n💡 Update available: %s → %s\n", CurrentVersion, release.Version)
			fmt.Fprintf(os.Stderr, "   Download: %s\n\n", release.URL)
		}

		rememberCheck(release.Version)
	}()
}

func shouldCheck() bool {
	data, err := os.ReadFile(versionCachePath)
	if err != nil {
		return true
	}

	var check versionCheck
	if err := json.Unmarshal(data, &check); err != nil {
		return true
	}

	return time.Since(check.LastChecked) > CheckInterval
}

// LatestRelease fetches the newest release from the GitHub releases API.
func LatestRelease() (Release, error) {
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(ReleaseAPI)
	if err != nil {
		return Release{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Release{}, fmt.Errorf("release api returned %s", resp.Status)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return Release{}, err
	}
	if release.Version == "" {
		return Release{}, fmt.Errorf("release api returned no tag")
	}
	return release, nil
}

// IsNewer compares two vMAJOR.MINOR.PATCH tags numerically. Tags that do not
// parse are never considered newer.
func IsNewer(latest, current string) bool {
	lv, ok := parseVersion(latest)
	if !ok {
		return false
	}
	cv, ok := parseVersion(current)
	if !ok {
		return false
	}

	for i := range lv {
		if lv[i] != cv[i] {
			return lv[i] > cv[i]
		}
	}
	return false
}

func parseVersion(tag string) ([3]int, bool) {
	var v [3]int
	parts := strings.SplitN(strings.TrimPrefix(tag, "v"), ".", 3)
	if len(parts) != 3 {
		return v, false
	}
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return v, false
		}
		v[i] = n
	}
	return v, true
}

func rememberCheck(version string) {
	check := versionCheck{
		LastChecked:   time.Now(),
		LatestVersion: version,
	}
	data, err := json.Marshal(check)
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(versionCachePath), 0700); err != nil {
		log.WithError(err).Debug("could not create version cache dir")
		return
	}
	if err := os.WriteFile(versionCachePath, data, 0600); err != nil {
		log.WithError(err).Debug("could not write version cache")
	}
}
