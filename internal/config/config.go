package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir   string `toml:"data_dir"`
	OutputDir string `toml:"output_dir"`
	AssetsDir string `toml:"assets_dir"`
	LogDir    string `toml:"log_dir"`
}

// Channel contains the channel identity and series sizing.
type Channel struct {
	Name               string `toml:"name"`
	BrandVoice         string `toml:"brand_voice"`
	TargetSeriesLength int    `toml:"target_series_length"`
}

// LLM contains shared connection settings for the chat, embedding, and
// speech APIs.
type LLM struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	EmbeddingModel string `toml:"embedding_model"`
	SpeechModel    string `toml:"speech_model"`
	SpeechVoice    string `toml:"speech_voice"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Dedup contains semantic topic deduplication settings.
type Dedup struct {
	Enabled             bool    `toml:"enabled"`
	DBPath              string  `toml:"db_path"`
	SimilarityThreshold float64 `toml:"similarity_threshold"`
	MaxTopicAttempts    int     `toml:"max_topic_attempts"`
}

// YouTube contains the YouTube publish target.
type YouTube struct {
	Enabled      bool   `toml:"enabled"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RefreshToken string `toml:"refresh_token"`
	Privacy      string `toml:"privacy"`
	CategoryID   string `toml:"category_id"`
	PlaylistID   string `toml:"playlist_id"`
}

// LinkedIn contains the LinkedIn publish target.
type LinkedIn struct {
	Enabled     bool   `toml:"enabled"`
	AccessToken string `toml:"access_token"`
	PersonURN   string `toml:"person_urn"`
	APIVersion  string `toml:"api_version"`
}

// Compose contains ffmpeg rendering settings.
type Compose struct {
	FFmpegBinary string `toml:"ffmpeg_binary"`
	CoverImage   string `toml:"cover_image"`
	Width        int    `toml:"width"`
	Height       int    `toml:"height"`
	FPS          int    `toml:"fps"`
	TimeoutSecs  int    `toml:"timeout_seconds"`
}

// Notifications contains ntfy push notification settings.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Runs           bool   `toml:"runs"`
	Publishes      bool   `toml:"publishes"`
	Errors         bool   `toml:"errors"`
}

// Logging contains log output settings.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for pawpress.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Channel       Channel       `toml:"channel"`
	LLM           LLM           `toml:"llm"`
	Dedup         Dedup         `toml:"dedup"`
	YouTube       YouTube       `toml:"youtube"`
	LinkedIn      LinkedIn      `toml:"linkedin"`
	Compose       Compose       `toml:"compose"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/pawpress/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a file was found at the resolved path.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("pawpress.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories pipeline runs write into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.OutputDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.AssetsDir) != "" {
		// Best-effort so a missing asset library does not block status commands.
		_ = os.MkdirAll(c.Paths.AssetsDir, 0o755)
	}
	return nil
}

// EpisodeLogPath returns the path of the episode log document.
func (c *Config) EpisodeLogPath() string {
	return filepath.Join(c.Paths.DataDir, "episode_log.json")
}

// UploadLogPath returns the path of the upload audit log document.
func (c *Config) UploadLogPath() string {
	return filepath.Join(c.Paths.DataDir, "upload_log.json")
}

// CoverImagePath returns the configured cover image, falling back to the
// channel cover in the assets directory.
func (c *Config) CoverImagePath() string {
	if strings.TrimSpace(c.Compose.CoverImage) != "" {
		return c.Compose.CoverImage
	}
	return filepath.Join(c.Paths.AssetsDir, "cover.png")
}

// LockPath returns the path of the single-instance run lock.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "pawpress.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
