package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Error("exists should be false for missing file")
	}
	if resolved != path {
		t.Errorf("resolved path mismatch: got %q, want %q", resolved, path)
	}
	if cfg.Channel.Name != defaultChannelName {
		t.Errorf("default channel name expected, got %q", cfg.Channel.Name)
	}
	if cfg.Channel.TargetSeriesLength != defaultTargetSeriesLength {
		t.Errorf("default series length expected, got %d", cfg.Channel.TargetSeriesLength)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	path := writeConfig(t, `
[channel]
name = "  AI Brief  "
target_series_length = 4

[llm]
base_url = "https://api.openai.com/v1/"
model = "gpt-4o"
timeout_seconds = 30
`)

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("exists should be true")
	}
	if cfg.Channel.Name != "AI Brief" {
		t.Errorf("channel name not trimmed: %q", cfg.Channel.Name)
	}
	if cfg.Channel.TargetSeriesLength != 4 {
		t.Errorf("target_series_length not applied: %d", cfg.Channel.TargetSeriesLength)
	}
	if strings.HasSuffix(cfg.LLM.BaseURL, "/") {
		t.Errorf("base url should have trailing slash trimmed: %q", cfg.LLM.BaseURL)
	}
	if !filepath.IsAbs(cfg.Paths.DataDir) {
		t.Errorf("data dir should be expanded to absolute path: %q", cfg.Paths.DataDir)
	}
}

func TestValidateRejectsZeroSeriesLength(t *testing.T) {
	path := writeConfig(t, `
[channel]
name = "FinanceCats"
target_series_length = 0
`)

	if _, _, _, err := Load(path); err == nil {
		t.Error("expected validation error for zero target_series_length")
	}
}

func TestValidateRejectsEnabledYouTubeWithoutCredentials(t *testing.T) {
	path := writeConfig(t, `
[youtube]
enabled = true
`)

	if _, _, _, err := Load(path); err == nil {
		t.Error("expected validation error for youtube.enabled without credentials")
	}
}

func TestValidateRejectsBadThreshold(t *testing.T) {
	path := writeConfig(t, `
[dedup]
enabled = true
similarity_threshold = 1.5
`)

	if _, _, _, err := Load(path); err == nil {
		t.Error("expected validation error for out-of-range similarity threshold")
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
	if !exists {
		t.Fatal("sample config should exist")
	}
	if cfg.Channel.TargetSeriesLength != defaultTargetSeriesLength {
		t.Errorf("sample series length mismatch: %d", cfg.Channel.TargetSeriesLength)
	}
}

func TestEpisodeLogPathUnderDataDir(t *testing.T) {
	cfg := Default()
	cfg.Paths.DataDir = "/tmp/pawpress-test"
	if got := cfg.EpisodeLogPath(); got != filepath.Join("/tmp/pawpress-test", "episode_log.json") {
		t.Errorf("unexpected episode log path: %q", got)
	}
}
