package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/glabrego/postfeed/internal/feed"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"POSTFEED_API_BASE_URL",
		"POSTFEED_ACCESS_TOKEN",
		"POSTFEED_PAGE_SIZE",
		"POSTFEED_REQUEST_TIMEOUT",
		"POSTFEED_DEFAULT_FILTER",
		"POSTFEED_LOG_PATH",
		"POSTFEED_LOG_LEVEL",
		"POSTFEED_DEV_ADDR",
		"POSTFEED_DEV_DB_PATH",
		"POSTFEED_DEV_SEARCH_MODE",
		"POSTFEED_DEV_VIEWER_ID",
		"POSTFEED_DEV_SEED",
		"POSTFEED_DEV_LATENCY",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadFromEnv_UsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv returned error: %v", err)
	}
	if cfg.APIBaseURL != defaultAPIBaseURL {
		t.Fatalf("unexpected API base URL: %s", cfg.APIBaseURL)
	}
	if cfg.PageSize != 4 {
		t.Fatalf("unexpected page size: %d", cfg.PageSize)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.RequestTimeout)
	}
	if cfg.DefaultFilter != feed.FilterCommunity {
		t.Fatalf("unexpected default filter: %s", cfg.DefaultFilter)
	}
	if cfg.LogPath != "postfeed.log" || cfg.LogLevel != log.InfoLevel {
		t.Fatalf("unexpected log settings: %s %v", cfg.LogPath, cfg.LogLevel)
	}
}

func TestLoadFromEnv_ReadsOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("POSTFEED_API_BASE_URL", "https://posts.example.com")
	t.Setenv("POSTFEED_ACCESS_TOKEN", "tok")
	t.Setenv("POSTFEED_PAGE_SIZE", "10")
	t.Setenv("POSTFEED_REQUEST_TIMEOUT", "3s")
	t.Setenv("POSTFEED_DEFAULT_FILTER", "Friends")
	t.Setenv("POSTFEED_LOG_LEVEL", "debug")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv returned error: %v", err)
	}
	if cfg.AccessToken != "tok" || cfg.PageSize != 10 || cfg.RequestTimeout != 3*time.Second {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.DefaultFilter != feed.FilterFriends || cfg.LogLevel != log.DebugLevel {
		t.Fatalf("unexpected filter or level: %+v", cfg)
	}
}

func TestLoadFromEnv_RejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"POSTFEED_PAGE_SIZE":       "four",
		"POSTFEED_REQUEST_TIMEOUT": "soon",
		"POSTFEED_LOG_LEVEL":       "loud",
		"POSTFEED_API_BASE_URL":    "localhost:8080",
	}
	for key, value := range cases {
		clearEnv(t)
		t.Setenv(key, value)
		if _, err := LoadFromEnv(); err == nil {
			t.Fatalf("expected error for %s=%s", key, value)
		}
	}
}

func TestLoadFromEnv_UnknownFilter(t *testing.T) {
	clearEnv(t)
	t.Setenv("POSTFEED_DEFAULT_FILTER", "everyone")

	_, err := LoadFromEnv()
	if !errors.Is(err, feed.ErrUnknownFilter) {
		t.Fatalf("expected ErrUnknownFilter, got %v", err)
	}
}

func TestValidate_APIBaseURLTrailingSlash(t *testing.T) {
	cfg := Config{
		APIBaseURL:     "http://localhost:8080/",
		PageSize:       4,
		RequestTimeout: time.Second,
		DefaultFilter:  feed.FilterCommunity,
		LogPath:        "postfeed.log",
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestValidate_PageSize(t *testing.T) {
	cfg := Config{
		APIBaseURL:     "http://localhost:8080",
		PageSize:       0,
		RequestTimeout: time.Second,
		DefaultFilter:  feed.FilterCommunity,
		LogPath:        "postfeed.log",
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for page size")
	}
}

func TestLoadDevServerFromEnv_UsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadDevServerFromEnv()
	if err != nil {
		t.Fatalf("LoadDevServerFromEnv returned error: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.DBPath != "postfeed-dev.db" || cfg.SearchMode != "like" || cfg.ViewerID != "u1" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Seed || cfg.Latency != 0 {
		t.Fatalf("unexpected seed/latency defaults: %+v", cfg)
	}
}

func TestLoadDevServerFromEnv_ReadsOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("POSTFEED_DEV_SEARCH_MODE", "FTS")
	t.Setenv("POSTFEED_DEV_SEED", "1")
	t.Setenv("POSTFEED_DEV_LATENCY", "250ms")
	t.Setenv("POSTFEED_DEV_VIEWER_ID", "u2")

	cfg, err := LoadDevServerFromEnv()
	if err != nil {
		t.Fatalf("LoadDevServerFromEnv returned error: %v", err)
	}
	if cfg.SearchMode != "fts" || !cfg.Seed || cfg.Latency != 250*time.Millisecond || cfg.ViewerID != "u2" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestValidate_SearchMode(t *testing.T) {
	cfg := DevServerConfig{Addr: ":8080", DBPath: "dev.db", SearchMode: "nope", ViewerID: "u1"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for search mode")
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("POSTFEED_PAGE_SIZE=7\n"), 0o600); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}
	chdir(t, dir)

	if err := LoadDotEnv(); err != nil {
		t.Fatalf("LoadDotEnv returned error: %v", err)
	}
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv returned error: %v", err)
	}
	if cfg.PageSize != 7 {
		t.Fatalf("expected page size from .env, got %d", cfg.PageSize)
	}
	os.Unsetenv("POSTFEED_PAGE_SIZE")
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	chdir(t, t.TempDir())
	if err := LoadDotEnv(); err != nil {
		t.Fatalf("expected missing .env to be ignored, got %v", err)
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd returned error: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir returned error: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restoring working directory: %v", err)
		}
	})
}
