package config

import (
	"os"
	"path/filepath"
	"strconv"
)

type ConfigStruct struct {
	Catalog CatalogConfig
	Gemini  GeminiConfig
	Sentry  SentryConfig
	Options Options
}

type CatalogConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	DeviceID     string
}

type GeminiConfig struct {
	Enabled bool
	APIKey  string
}

type SentryConfig struct {
	DSN         string
	Environment string
}

type Options struct {
	LogLevel     string
	ResultCount  int // entries shown per kind in search/info output
	MaxTopTracks int // top tracks materialized when filling an artist
	PageSize     int // lines per page when paging long result sets
	DBPath       string
}

func (g *GeminiConfig) SuggestionsEnabled() bool {
	return g.Enabled && g.APIKey != ""
}

var Config *ConfigStruct

func NewConfig() {
	config := &ConfigStruct{
		Catalog: CatalogConfig{
			ClientID:     os.Getenv("OAUTH_CLIENT_ID"),
			ClientSecret: os.Getenv("OAUTH_CLIENT_SECRET"),
			RefreshToken: os.Getenv("OAUTH_REFRESH_TOKEN"),
			DeviceID:     os.Getenv("DEVICE_ID"),
		},
		Gemini: GeminiConfig{
			Enabled: os.Getenv("GEMINI_ENABLED") == "true",
			APIKey:  os.Getenv("GEMINI_API_KEY"),
		},
		Sentry: SentryConfig{
			DSN:         os.Getenv("SENTRY_DSN"),
			Environment: os.Getenv("ENVIRONMENT"),
		},
		Options: Options{
			LogLevel:     os.Getenv("LOG_LEVEL"),
			ResultCount:  getResultCount(),
			MaxTopTracks: getMaxTopTracks(),
			PageSize:     getPageSize(),
			DBPath:       os.Getenv("DB_PATH"),
		},
	}

	Config = config
}

// Dir returns the per-user configuration directory. The directory name is
// pmcli, kept from the original client so existing installs keep working.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "pmcli"), nil
}

// MPVInputConf returns the path the external player's input configuration
// must live at. The file itself is user-managed; it is never created here.
func MPVInputConf() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "mpv_input.conf"), nil
}

func getResultCount() int {
	countStr := os.Getenv("RESULT_COUNT")
	if countStr == "" {
		return 20
	}
	count, err := strconv.Atoi(countStr)
	if err != nil || count <= 0 {
		return 20
	}
	if count > 100 {
		return 100 // Cap to keep search responses and rendering sane
	}
	return count
}

func getMaxTopTracks() int {
	limitStr := os.Getenv("MAX_TOP_TRACKS")
	if limitStr == "" {
		return 20
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100 // API maximum for artist top tracks
	}
	return limit
}

func getPageSize() int {
	sizeStr := os.Getenv("PAGE_SIZE")
	if sizeStr == "" {
		return 10
	}
	size, err := strconv.Atoi(sizeStr)
	if err != nil || size <= 0 {
		return 10
	}
	if size > 50 {
		return 50
	}
	return size
}
