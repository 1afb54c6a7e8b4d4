package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateChannel(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateDedup(); err != nil {
		return err
	}
	if err := c.validatePublishers(); err != nil {
		return err
	}
	if err := c.validateCompose(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateChannel() error {
	if c.Channel.Name == "" {
		return errors.New("channel.name must be set")
	}
	if c.Channel.TargetSeriesLength <= 0 {
		return errors.New("channel.target_series_length must be positive")
	}
	return nil
}

func (c *Config) validateLLM() error {
	if c.LLM.BaseURL == "" {
		return errors.New("llm.base_url must be set")
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model must be set")
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return errors.New("llm.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateDedup() error {
	if !c.Dedup.Enabled {
		return nil
	}
	if c.Dedup.SimilarityThreshold <= 0 || c.Dedup.SimilarityThreshold > 1 {
		return errors.New("dedup.similarity_threshold must be in (0, 1]")
	}
	if c.Dedup.MaxTopicAttempts <= 0 {
		return errors.New("dedup.max_topic_attempts must be positive")
	}
	return nil
}

func (c *Config) validatePublishers() error {
	if c.YouTube.Enabled {
		if c.YouTube.ClientID == "" || c.YouTube.ClientSecret == "" || c.YouTube.RefreshToken == "" {
			return errors.New("youtube.client_id, youtube.client_secret, and youtube.refresh_token must be set when youtube.enabled is true")
		}
		switch c.YouTube.Privacy {
		case "public", "unlisted", "private":
		default:
			return fmt.Errorf("youtube.privacy must be public, unlisted, or private, got %q", c.YouTube.Privacy)
		}
	}
	if c.LinkedIn.Enabled {
		if c.LinkedIn.AccessToken == "" {
			return errors.New("linkedin.access_token must be set when linkedin.enabled is true")
		}
		if c.LinkedIn.PersonURN == "" {
			return errors.New("linkedin.person_urn must be set when linkedin.enabled is true")
		}
	}
	return nil
}

func (c *Config) validateCompose() error {
	if c.Compose.Width <= 0 || c.Compose.Height <= 0 {
		return errors.New("compose.width and compose.height must be positive")
	}
	if c.Compose.FPS <= 0 {
		return errors.New("compose.fps must be positive")
	}
	if c.Compose.TimeoutSecs <= 0 {
		return errors.New("compose.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}
