// Package uploadlog keeps an append-only audit trail of every upload
// attempt, one JSON file per channel alongside the episode log. The episode
// log answers "what is the state now"; this log answers "what happened and
// when" for debugging and reporting.
package uploadlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"pawpress/internal/logging"
)

// Outcome of a single upload attempt.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

// Entry is one recorded upload attempt.
type Entry struct {
	ID        int    `json:"id"`
	Timestamp string `json:"timestamp_utc"`
	Status    string `json:"status"`
	Platform  string `json:"platform"`

	Term           string `json:"term"`
	Title          string `json:"title"`
	EpisodeNumber  int    `json:"episode_number"`
	SeriesID       int    `json:"series_id"`
	SeriesPosition int    `json:"series_position"`
	RunID          string `json:"run_id,omitempty"`

	RemoteID    string   `json:"remote_id,omitempty"`
	RemoteURL   string   `json:"remote_url,omitempty"`
	Privacy     string   `json:"privacy,omitempty"`
	CategoryID  string   `json:"category_id,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Description string   `json:"description_preview,omitempty"`

	ArtifactPath    string  `json:"artifact_path,omitempty"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	FileSizeMB      float64 `json:"file_size_mb,omitempty"`

	ErrorMessage string `json:"error_message,omitempty"`
}

type document struct {
	Channel       string  `json:"channel"`
	TotalUploads  int     `json:"total_uploads"`
	TotalFailures int     `json:"total_failures"`
	Uploads       []Entry `json:"uploads"`
}

// Stats summarizes the log for status output.
type Stats struct {
	TotalAttempts        int
	Successful           int
	Failed               int
	Skipped              int
	TotalDurationMinutes float64
	TotalSizeMB          float64
	LastSuccess          string
	TermsPublished       []string
}

// Log provides append and query access to the audit file. Load failures fall
// back to an empty log; the audit trail is diagnostic, never load-bearing.
type Log struct {
	path    string
	channel string
	logger  *slog.Logger
	now     func() time.Time

	mu  sync.Mutex
	doc *document
}

// Open loads or initializes the upload log at path. Never fails.
func Open(path, channel string, logger *slog.Logger) *Log {
	if logger == nil {
		logger = logging.NewNop()
	}
	l := &Log{
		path:    path,
		channel: channel,
		logger:  logger.With(logging.String(logging.FieldComponent, "uploadlog")),
		now:     time.Now,
	}
	l.doc = l.load()
	return l
}

func (l *Log) load() *document {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			l.logger.Warn("upload log unreadable, starting empty", logging.Error(err))
		}
		return &document{Channel: l.channel, Uploads: []Entry{}}
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		l.logger.Warn("upload log corrupt, starting empty",
			logging.String("path", l.path), logging.Error(err))
		return &document{Channel: l.channel, Uploads: []Entry{}}
	}
	if doc.Channel == "" {
		doc.Channel = l.channel
	}
	return &doc
}

// Record appends an attempt to the log. The entry ID and timestamp are
// assigned here; everything else comes from the caller.
func (l *Log) Record(entry Entry) (Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry.ID = len(l.doc.Uploads) + 1
	entry.Timestamp = l.now().UTC().Format(time.RFC3339)
	if len(entry.Description) > 200 {
		entry.Description = entry.Description[:200]
	}
	l.doc.Uploads = append(l.doc.Uploads, entry)
	switch entry.Status {
	case OutcomeSuccess:
		l.doc.TotalUploads++
	case OutcomeFailed:
		l.doc.TotalFailures++
	}

	if err := l.persistLocked(); err != nil {
		return entry, fmt.Errorf("persist upload log: %w", err)
	}
	l.logger.Info("upload attempt recorded",
		logging.Int("entry", entry.ID),
		logging.String("platform", entry.Platform),
		logging.String("status", entry.Status),
		logging.Int(logging.FieldEpisode, entry.EpisodeNumber))
	return entry, nil
}

// Recent returns up to limit entries, newest last.
func (l *Log) Recent(limit int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	uploads := l.doc.Uploads
	if limit > 0 && len(uploads) > limit {
		uploads = uploads[len(uploads)-limit:]
	}
	out := make([]Entry, len(uploads))
	copy(out, uploads)
	return out
}

// Failed returns every failed attempt in the log.
func (l *Log) Failed() []Entry {
	return l.filter(OutcomeFailed)
}

// Successful returns every successful attempt in the log.
func (l *Log) Successful() []Entry {
	return l.filter(OutcomeSuccess)
}

func (l *Log) filter(status string) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []Entry
	for _, entry := range l.doc.Uploads {
		if entry.Status == status {
			out = append(out, entry)
		}
	}
	return out
}

// Summary computes aggregate statistics over the whole log.
func (l *Log) Summary() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	stats := Stats{TotalAttempts: len(l.doc.Uploads)}
	for _, entry := range l.doc.Uploads {
		switch entry.Status {
		case OutcomeSuccess:
			stats.Successful++
			stats.TotalDurationMinutes += entry.DurationSeconds / 60
			stats.TotalSizeMB += entry.FileSizeMB
			stats.LastSuccess = entry.Timestamp
			if entry.Term != "" {
				stats.TermsPublished = append(stats.TermsPublished, entry.Term)
			}
		case OutcomeFailed:
			stats.Failed++
		case OutcomeSkipped:
			stats.Skipped++
		}
	}
	return stats
}

func (l *Log) persistLocked() error {
	data, err := json.MarshalIndent(l.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode upload log: %w", err)
	}
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".upload-log-*.json")
	if err != nil {
		return fmt.Errorf("create temp log: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp log: %w", err)
	}
	if err := os.Rename(tmpName, l.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace upload log: %w", err)
	}
	return nil
}
