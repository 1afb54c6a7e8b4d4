// Package config loads, validates, and normalizes the pawpress TOML
// configuration.
//
// Configuration sections by subsystem:
//   - Paths: data/output/log directories
//   - Channel: channel identity and series sizing
//   - LLM: shared OpenAI-compatible connection settings for agents and dedup
//   - Dedup: semantic topic deduplication thresholds and cache location
//   - YouTube / LinkedIn: publish targets
//   - Compose: ffmpeg rendering settings
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
package config
