package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestGetResultCount(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want int
	}{
		{"empty", "", 20},
		{"invalid", "abc", 20},
		{"zero", "0", 20},
		{"negative", "-5", 20},
		{"min", "1", 1},
		{"mid", "35", 35},
		{"max", "100", 100},
		{"over", "101", 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("RESULT_COUNT", tt.env)
			if got := getResultCount(); got != tt.want {
				t.Errorf("getResultCount() = %d; want %d", got, tt.want)
			}
		})
	}
}

func TestGetMaxTopTracks(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want int
	}{
		{"empty", "", 20},
		{"invalid", "foo", 20},
		{"zero", "0", 20},
		{"negative", "-1", 20},
		{"min", "1", 1},
		{"default", "20", 20},
		{"max", "100", 100},
		{"over", "250", 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MAX_TOP_TRACKS", tt.env)
			if got := getMaxTopTracks(); got != tt.want {
				t.Errorf("getMaxTopTracks() = %d; want %d", got, tt.want)
			}
		})
	}
}

func TestGetPageSize(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want int
	}{
		{"empty", "", 10},
		{"invalid", "foo", 10},
		{"zero", "0", 10},
		{"valid", "25", 25},
		{"max", "50", 50},
		{"over", "51", 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PAGE_SIZE", tt.env)
			if got := getPageSize(); got != tt.want {
				t.Errorf("getPageSize() = %d; want %d", got, tt.want)
			}
		})
	}
}

func TestMPVInputConf(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	path, err := MPVInputConf()
	if err != nil {
		t.Fatalf("MPVInputConf() error: %v", err)
	}
	want := filepath.Join("pmcli", "mpv_input.conf")
	if !strings.HasSuffix(path, want) {
		t.Errorf("MPVInputConf() = %q; want suffix %q", path, want)
	}
}

func TestNewConfigReadsEnv(t *testing.T) {
	t.Setenv("OAUTH_CLIENT_ID", "client-id")
	t.Setenv("OAUTH_REFRESH_TOKEN", "refresh-token")
	t.Setenv("GEMINI_ENABLED", "true")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("RESULT_COUNT", "30")

	NewConfig()

	if Config.Catalog.ClientID != "client-id" {
		t.Errorf("Catalog.ClientID = %q; want %q", Config.Catalog.ClientID, "client-id")
	}
	if Config.Catalog.RefreshToken != "refresh-token" {
		t.Errorf("Catalog.RefreshToken = %q; want %q", Config.Catalog.RefreshToken, "refresh-token")
	}
	if !Config.Gemini.SuggestionsEnabled() {
		t.Error("SuggestionsEnabled() = false; want true when enabled with a key")
	}
	if Config.Options.ResultCount != 30 {
		t.Errorf("Options.ResultCount = %d; want 30", Config.Options.ResultCount)
	}
}

func TestSuggestionsEnabledRequiresKey(t *testing.T) {
	g := &GeminiConfig{Enabled: true, APIKey: ""}
	if g.SuggestionsEnabled() {
		t.Error("suggestions must stay off without an API key")
	}
	g = &GeminiConfig{Enabled: false, APIKey: "key"}
	if g.SuggestionsEnabled() {
		t.Error("suggestions must stay off when not enabled")
	}
}
