package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/glabrego/postfeed/internal/feed"
	"github.com/glabrego/postfeed/internal/logging"
)

const (
	defaultAPIBaseURL     = "http://localhost:8080"
	defaultPageSize       = 4
	defaultRequestTimeout = 10 * time.Second
	defaultLogPath        = "postfeed.log"

	defaultDevAddr     = ":8080"
	defaultDevDBPath   = "postfeed-dev.db"
	defaultDevViewerID = "u1"
)

// Config holds runtime settings for the CLI app.
type Config struct {
	APIBaseURL     string
	AccessToken    string
	PageSize       int
	RequestTimeout time.Duration
	DefaultFilter  feed.Filter
	LogPath        string
	LogLevel       log.Level
}

// DevServerConfig holds settings for the local listing server.
type DevServerConfig struct {
	Addr       string
	DBPath     string
	SearchMode string
	ViewerID   string
	Seed       bool
	Latency    time.Duration
	LogLevel   log.Level
}

// LoadDotEnv reads .env from the working directory when present.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func LoadFromEnv() (Config, error) {
	cfg := Config{
		APIBaseURL:     strings.TrimSpace(os.Getenv("POSTFEED_API_BASE_URL")),
		AccessToken:    strings.TrimSpace(os.Getenv("POSTFEED_ACCESS_TOKEN")),
		PageSize:       defaultPageSize,
		RequestTimeout: defaultRequestTimeout,
		DefaultFilter:  feed.DefaultFilter,
		LogPath:        os.Getenv("POSTFEED_LOG_PATH"),
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	if cfg.LogPath == "" {
		cfg.LogPath = defaultLogPath
	}

	var err error
	if raw := os.Getenv("POSTFEED_PAGE_SIZE"); raw != "" {
		if cfg.PageSize, err = strconv.Atoi(strings.TrimSpace(raw)); err != nil {
			return Config{}, fmt.Errorf("POSTFEED_PAGE_SIZE must be an integer: %s", raw)
		}
	}
	if raw := os.Getenv("POSTFEED_REQUEST_TIMEOUT"); raw != "" {
		if cfg.RequestTimeout, err = time.ParseDuration(strings.TrimSpace(raw)); err != nil {
			return Config{}, fmt.Errorf("POSTFEED_REQUEST_TIMEOUT must be a duration: %s", raw)
		}
	}
	if raw := os.Getenv("POSTFEED_DEFAULT_FILTER"); raw != "" {
		if cfg.DefaultFilter, err = feed.ParseFilter(raw); err != nil {
			return Config{}, fmt.Errorf("POSTFEED_DEFAULT_FILTER: %w", err)
		}
	}
	if cfg.LogLevel, err = logging.ParseLevel(os.Getenv("POSTFEED_LOG_LEVEL")); err != nil {
		return Config{}, fmt.Errorf("POSTFEED_LOG_LEVEL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("APIBaseURL is required")
	}
	if strings.HasSuffix(c.APIBaseURL, "/") {
		return fmt.Errorf("APIBaseURL must not end with '/': %s", c.APIBaseURL)
	}
	if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		return fmt.Errorf("APIBaseURL must be an http(s) URL: %s", c.APIBaseURL)
	}
	if c.PageSize < 1 {
		return fmt.Errorf("PageSize must be positive: %d", c.PageSize)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("RequestTimeout must be positive: %s", c.RequestTimeout)
	}
	if !c.DefaultFilter.Valid() {
		return fmt.Errorf("%w: %q", feed.ErrUnknownFilter, c.DefaultFilter)
	}
	if c.LogPath == "" {
		return errors.New("LogPath is required")
	}
	return nil
}

func LoadDevServerFromEnv() (DevServerConfig, error) {
	cfg := DevServerConfig{
		Addr:       os.Getenv("POSTFEED_DEV_ADDR"),
		DBPath:     os.Getenv("POSTFEED_DEV_DB_PATH"),
		SearchMode: strings.ToLower(strings.TrimSpace(os.Getenv("POSTFEED_DEV_SEARCH_MODE"))),
		ViewerID:   strings.TrimSpace(os.Getenv("POSTFEED_DEV_VIEWER_ID")),
	}
	if cfg.Addr == "" {
		cfg.Addr = defaultDevAddr
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDevDBPath
	}
	if cfg.SearchMode == "" {
		cfg.SearchMode = "like"
	}
	if cfg.ViewerID == "" {
		cfg.ViewerID = defaultDevViewerID
	}

	var err error
	if raw := os.Getenv("POSTFEED_DEV_SEED"); raw != "" {
		if cfg.Seed, err = strconv.ParseBool(strings.TrimSpace(raw)); err != nil {
			return DevServerConfig{}, fmt.Errorf("POSTFEED_DEV_SEED must be a boolean: %s", raw)
		}
	}
	if raw := os.Getenv("POSTFEED_DEV_LATENCY"); raw != "" {
		if cfg.Latency, err = time.ParseDuration(strings.TrimSpace(raw)); err != nil {
			return DevServerConfig{}, fmt.Errorf("POSTFEED_DEV_LATENCY must be a duration: %s", raw)
		}
	}
	if cfg.LogLevel, err = logging.ParseLevel(os.Getenv("POSTFEED_LOG_LEVEL")); err != nil {
		return DevServerConfig{}, fmt.Errorf("POSTFEED_LOG_LEVEL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return DevServerConfig{}, err
	}
	return cfg, nil
}

func (c DevServerConfig) Validate() error {
	if c.Addr == "" {
		return errors.New("Addr is required")
	}
	if c.DBPath == "" {
		return errors.New("DBPath is required")
	}
	if c.SearchMode != "like" && c.SearchMode != "fts" {
		return fmt.Errorf("SearchMode must be like or fts: %s", c.SearchMode)
	}
	if c.ViewerID == "" {
		return errors.New("ViewerID is required")
	}
	if c.Latency < 0 {
		return fmt.Errorf("Latency must not be negative: %s", c.Latency)
	}
	return nil
}
