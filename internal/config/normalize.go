package config

import "strings"

// normalize expands path fields and trims values loaded from TOML.
func (c *Config) normalize() error {
	for _, field := range []*string{
		&c.Paths.DataDir,
		&c.Paths.OutputDir,
		&c.Paths.AssetsDir,
		&c.Paths.LogDir,
		&c.Dedup.DBPath,
		&c.Compose.CoverImage,
	} {
		expanded, err := expandPath(strings.TrimSpace(*field))
		if err != nil {
			return err
		}
		*field = expanded
	}

	c.Channel.Name = strings.TrimSpace(c.Channel.Name)
	c.Channel.BrandVoice = strings.TrimSpace(c.Channel.BrandVoice)
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	c.LLM.BaseURL = strings.TrimRight(strings.TrimSpace(c.LLM.BaseURL), "/")
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	c.LLM.EmbeddingModel = strings.TrimSpace(c.LLM.EmbeddingModel)
	c.LLM.SpeechModel = strings.TrimSpace(c.LLM.SpeechModel)
	c.LLM.SpeechVoice = strings.TrimSpace(c.LLM.SpeechVoice)
	c.YouTube.Privacy = strings.ToLower(strings.TrimSpace(c.YouTube.Privacy))
	c.LinkedIn.PersonURN = strings.TrimSpace(c.LinkedIn.PersonURN)
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	if c.Compose.FFmpegBinary == "" {
		c.Compose.FFmpegBinary = defaultFFmpegBinary
	}
	return nil
}
