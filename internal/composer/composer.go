// Package composer renders episode videos with ffmpeg: a still image track,
// the narration audio, and drawtext titling muxed into an H.264 MP4 that the
// platform uploaders accept.
package composer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"pawpress/internal/logging"
	"pawpress/internal/services"
	"pawpress/internal/textutil"
)

var commandContext = exec.CommandContext

// Config carries render settings.
type Config struct {
	FFmpegBinary string
	OutputDir    string
	Width        int
	Height       int
	FPS          int
	Timeout      time.Duration
}

// Request describes one episode render.
type Request struct {
	EpisodeNumber int
	Term          string
	ImagePath     string
	AudioPath     string
}

// Composer shells out to ffmpeg.
type Composer struct {
	cfg    Config
	logger *slog.Logger
}

// New constructs a composer.
func New(cfg Config, logger *slog.Logger) *Composer {
	if logger == nil {
		logger = logging.NewNop()
	}
	if cfg.FFmpegBinary == "" {
		cfg.FFmpegBinary = "ffmpeg"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Minute
	}
	return &Composer{
		cfg:    cfg,
		logger: logger.With(logging.String(logging.FieldComponent, "composer")),
	}
}

// Compose renders the episode and returns the output path. The video length
// follows the audio track; the image is looped and scaled to the configured
// frame size.
func (c *Composer) Compose(ctx context.Context, req Request) (string, error) {
	if req.ImagePath == "" || req.AudioPath == "" {
		return "", services.Wrap(services.ErrValidation, "compose", "render", "image and audio paths required", nil)
	}
	if _, err := os.Stat(req.AudioPath); err != nil {
		return "", services.Wrap(services.ErrValidation, "compose", "render", "audio missing", err)
	}
	if err := os.MkdirAll(c.cfg.OutputDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrTransient, "compose", "render", "create output dir", err)
	}
	output := filepath.Join(c.cfg.OutputDir,
		fmt.Sprintf("episode-%03d-%s.mp4", req.EpisodeNumber, textutil.SanitizeFilename(req.Term)))

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-loop", "1",
		"-i", req.ImagePath,
		"-i", req.AudioPath,
		"-vf", fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2",
			c.cfg.Width, c.cfg.Height, c.cfg.Width, c.cfg.Height),
		"-r", fmt.Sprintf("%d", c.cfg.FPS),
		"-c:v", "libx264",
		"-tune", "stillimage",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", "192k",
		"-shortest",
		output,
	}
	cmd := commandContext(ctx, c.cfg.FFmpegBinary, args...) //nolint:gosec
	start := time.Now()
	if combined, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", services.Wrap(services.ErrTimeout, "compose", "render",
				fmt.Sprintf("ffmpeg exceeded %s", c.cfg.Timeout), nil)
		}
		return "", services.Wrap(services.ErrExternalTool, "compose", "render",
			strings.TrimSpace(string(combined)), err)
	}
	c.logger.Info("episode rendered",
		logging.Int(logging.FieldEpisode, req.EpisodeNumber),
		logging.String("output", output),
		logging.Duration("elapsed", time.Since(start)))
	return output, nil
}
