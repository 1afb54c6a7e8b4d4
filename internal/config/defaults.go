package config

const (
	defaultDataDir             = "~/.local/share/pawpress/data"
	defaultOutputDir           = "~/.local/share/pawpress/output"
	defaultAssetsDir           = "~/.local/share/pawpress/assets"
	defaultLogDir              = "~/.local/share/pawpress/logs"
	defaultChannelName         = "FinanceCats"
	defaultBrandVoice          = "clear, authoritative, educational but never boring"
	defaultTargetSeriesLength  = 12
	defaultLLMBaseURL          = "https://api.openai.com/v1"
	defaultLLMModel            = "gpt-4o"
	defaultEmbeddingModel      = "text-embedding-3-small"
	defaultSpeechModel         = "tts-1"
	defaultSpeechVoice         = "alloy"
	defaultLLMTimeoutSeconds   = 120
	defaultDedupDBPath         = "~/.local/share/pawpress/data/topics.db"
	defaultDedupThreshold      = 0.70
	defaultDedupTopicAttempts  = 3
	defaultYouTubePrivacy      = "public"
	defaultYouTubeCategoryID   = "27" // Education
	defaultLinkedInAPIVersion  = "202601"
	defaultFFmpegBinary        = "ffmpeg"
	defaultComposeWidth        = 1920
	defaultComposeHeight       = 1080
	defaultComposeFPS          = 30
	defaultComposeTimeoutSecs  = 900
	defaultNotifyTimeoutSecs   = 10
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			OutputDir: defaultOutputDir,
			AssetsDir: defaultAssetsDir,
			LogDir:    defaultLogDir,
		},
		Channel: Channel{
			Name:               defaultChannelName,
			BrandVoice:         defaultBrandVoice,
			TargetSeriesLength: defaultTargetSeriesLength,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			EmbeddingModel: defaultEmbeddingModel,
			SpeechModel:    defaultSpeechModel,
			SpeechVoice:    defaultSpeechVoice,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Dedup: Dedup{
			Enabled:             true,
			DBPath:              defaultDedupDBPath,
			SimilarityThreshold: defaultDedupThreshold,
			MaxTopicAttempts:    defaultDedupTopicAttempts,
		},
		YouTube: YouTube{
			Privacy:    defaultYouTubePrivacy,
			CategoryID: defaultYouTubeCategoryID,
		},
		LinkedIn: LinkedIn{
			APIVersion: defaultLinkedInAPIVersion,
		},
		Compose: Compose{
			FFmpegBinary: defaultFFmpegBinary,
			Width:        defaultComposeWidth,
			Height:       defaultComposeHeight,
			FPS:          defaultComposeFPS,
			TimeoutSecs:  defaultComposeTimeoutSecs,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeoutSecs,
			Runs:           true,
			Publishes:      true,
			Errors:         true,
		},
		Logging: Logging{
			Level: defaultLogLevel,
		},
	}
}
