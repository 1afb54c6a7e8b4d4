package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"pawpress/internal/agent"
	"pawpress/internal/composer"
	"pawpress/internal/config"
	"pawpress/internal/dedup"
	"pawpress/internal/episodelog"
	"pawpress/internal/logging"
	"pawpress/internal/notifications"
	"pawpress/internal/producer"
	"pawpress/internal/services"
	"pawpress/internal/services/linkedin"
	"pawpress/internal/services/llm"
	"pawpress/internal/services/youtube"
	"pawpress/internal/uploadlog"
	"pawpress/internal/workflow"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) newLogger(cfg *config.Config) (*slog.Logger, error) {
	return logging.NewFileLogger(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}, cfg.Paths.LogDir, "pawpress.log")
}

// openEpisodeLog loads the episode store for read-only commands without
// touching the run log file.
func (c *commandContext) openEpisodeLog(cfg *config.Config) *episodelog.Store {
	return episodelog.Open(cfg.EpisodeLogPath(), episodelog.Options{
		ChannelName:        cfg.Channel.Name,
		BrandVoice:         cfg.Channel.BrandVoice,
		TargetSeriesLength: cfg.Channel.TargetSeriesLength,
	}, logging.NewNop())
}

// buildRunner wires every collaborator of a production run. The returned
// cleanup releases the dedup index handle.
func (c *commandContext) buildRunner(cfg *config.Config) (*workflow.Runner, func(), error) {
	logger, err := c.newLogger(cfg)
	if err != nil {
		return nil, nil, err
	}

	store := episodelog.Open(cfg.EpisodeLogPath(), episodelog.Options{
		ChannelName:        cfg.Channel.Name,
		BrandVoice:         cfg.Channel.BrandVoice,
		TargetSeriesLength: cfg.Channel.TargetSeriesLength,
	}, logger)
	uploads := uploadlog.Open(cfg.UploadLogPath(), cfg.Channel.Name, logger)

	client := llm.NewClient(llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		EmbeddingModel: cfg.LLM.EmbeddingModel,
		SpeechModel:    cfg.LLM.SpeechModel,
		SpeechVoice:    cfg.LLM.SpeechVoice,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	})

	registry, err := agent.LoadRegistry()
	if err != nil {
		return nil, nil, fmt.Errorf("load personas: %w", err)
	}
	newAgent := func(name string) (*agent.Agent, error) {
		persona, err := registry.Get(name)
		if err != nil {
			return nil, err
		}
		return agent.New(persona, client, logger), nil
	}
	execProducer, err := newAgent("executive_producer")
	if err != nil {
		return nil, nil, err
	}
	scriptWriter, err := newAgent("script_writer")
	if err != nil {
		return nil, nil, err
	}
	youtubePlanner, err := newAgent("youtube_strategist")
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	var gate producer.DuplicateChecker
	var memory workflow.TopicMemory
	if cfg.Dedup.Enabled {
		index, err := dedup.OpenIndex(cfg.Dedup.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open dedup index: %w", err)
		}
		cleanup = func() { _ = index.Close() }
		checker := dedup.NewChecker(index, client, cfg.Dedup.SimilarityThreshold, logger)
		gate = checker
		memory = checker
	}

	deps := workflow.Deps{
		Store:          store,
		Uploads:        uploads,
		Topics:         producer.New(execProducer, gate, cfg.Dedup.MaxTopicAttempts, logger),
		ScriptWriter:   scriptWriter,
		YouTubePlanner: youtubePlanner,
		Narrator:       client,
		Renderer: composer.New(composer.Config{
			FFmpegBinary: cfg.Compose.FFmpegBinary,
			OutputDir:    cfg.Paths.OutputDir,
			Width:        cfg.Compose.Width,
			Height:       cfg.Compose.Height,
			FPS:          cfg.Compose.FPS,
			Timeout:      time.Duration(cfg.Compose.TimeoutSecs) * time.Second,
		}, logger),
		Notifier: notifications.NewService(cfg),
		Memory:   memory,
		Logger:   logger,
	}

	if cfg.LinkedIn.Enabled {
		linkedinPlanner, err := newAgent("linkedin_strategist")
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		deps.LinkedInPlanner = linkedinPlanner
	}

	deps.Uploaders = buildUploaders(cfg, logger)

	runner, err := workflow.New(cfg, deps)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return runner, cleanup, nil
}

func buildUploaders(cfg *config.Config, logger *slog.Logger) []services.Uploader {
	var uploaders []services.Uploader
	if cfg.YouTube.Enabled {
		uploaders = append(uploaders, youtube.NewClient(youtube.Config{
			ClientID:     cfg.YouTube.ClientID,
			ClientSecret: cfg.YouTube.ClientSecret,
			RefreshToken: cfg.YouTube.RefreshToken,
			Privacy:      cfg.YouTube.Privacy,
			CategoryID:   cfg.YouTube.CategoryID,
			PlaylistID:   cfg.YouTube.PlaylistID,
		}, logger))
	}
	if cfg.LinkedIn.Enabled {
		uploaders = append(uploaders, linkedin.NewClient(linkedin.Config{
			AccessToken: cfg.LinkedIn.AccessToken,
			PersonURN:   cfg.LinkedIn.PersonURN,
			APIVersion:  cfg.LinkedIn.APIVersion,
		}, logger))
	}
	return uploaders
}
