// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"pawpress/internal/config"
)

// NewConfig returns a default configuration rooted in a per-test temporary
// directory, with all data directories created and notifications disabled.
func NewConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.OutputDir = filepath.Join(base, "output")
	cfg.Paths.AssetsDir = filepath.Join(base, "assets")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Dedup.DBPath = filepath.Join(base, "data", "topics.db")
	cfg.Notifications.NtfyTopic = ""
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("create test directories: %v", err)
	}
	return &cfg
}

// WriteFile creates a file with the given content under dir and returns its
// path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
