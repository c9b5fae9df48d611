package internal

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Helper to point the version check cache at a temp directory.
func setupVersionCache(t *testing.T) {
	dir, err := os.MkdirTemp("", "aimsctl-version-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	originalPath := versionCachePath
	versionCachePath = filepath.Join(dir, "version_check.json")

	t.Cleanup(func() {
		os.RemoveAll(dir)
		versionCachePath = originalPath
	})
}

func TestIsNewer(t *testing.T) {
	cases := []struct {
		latest  string
		current string
		want    bool
	}{
		{"v0.4.0", "v0.3.0", true},
		{"v0.3.0", "v0.3.0", false},
		{"v0.2.9", "v0.3.0", false},
		{"v1.0.0", "v0.9.9", true},
		// Numeric compare, not lexical.
		{"v10.0.0", "v9.0.0", true},
		{"v0.10.0", "v0.9.0", true},
		{"0.4.0", "v0.3.0", true},
		{"main", "v0.3.0", false},
		{"v0.4.0", "dev", false},
		{"v1.2", "v0.3.0", false},
	}

	for _, c := range cases {
		if got := IsNewer(c.latest, c.current); got != c.want {
			t.Errorf("IsNewer(%q, %q) = %v, want %v", c.latest, c.current, got, c.want)
		}
	}
}

func TestShouldCheck(t *testing.T) {
	setupVersionCache(t)

	if !shouldCheck() {
		t.Error("Missing cache should trigger a check")
	}

	rememberCheck("v0.3.0")
	if shouldCheck() {
		t.Error("Fresh cache should suppress the check")
	}

	stale, _ := json.Marshal(versionCheck{
		LastChecked:   time.Now().Add(-2 * CheckInterval),
		LatestVersion: "v0.3.0",
	})
	if err := os.WriteFile(versionCachePath, stale, 0600); err != nil {
		t.Fatalf("Failed to write cache: %v", err)
	}
	if !shouldCheck() {
		t.Error("Stale cache should trigger a check")
	}

	if err := os.WriteFile(versionCachePath, []byte("not json"), 0600); err != nil {
		t.Fatalf("Failed to write cache: %v", err)
	}
	if !shouldCheck() {
		t.Error("Corrupt cache should trigger a check")
	}
}

func TestLatestRelease(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tag_name": "v0.4.0", "html_url": "https://example.com/v0.4.0"}`))
	}))
	defer srv.Close()

	original := ReleaseAPI
	ReleaseAPI = srv.URL
	t.Cleanup(func() { ReleaseAPI = original })

	release, err := LatestRelease()
	if err != nil {
		t.Fatalf("LatestRelease failed: %v", err)
	}
	if release.Version != "v0.4.0" {
		t.Errorf("Expected version v0.4.0, got %q", release.Version)
	}
	if release.URL != "https://example.com/v0.4.0" {
		t.Errorf("Unexpected release URL %q", release.URL)
	}
}

func TestLatestReleaseErrors(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"missing tag", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			srv := httptest.NewServer(c.handler)
			defer srv.Close()

			original := ReleaseAPI
			ReleaseAPI = srv.URL
			t.Cleanup(func() { ReleaseAPI = original })

			if _, err := LatestRelease(); err == nil {
				t.Error("Expected an error, got nil")
			}
		})
	}
}
