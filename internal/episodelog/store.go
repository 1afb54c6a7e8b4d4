package episodelog

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"pawpress/internal/logging"
)

// Options configure the document defaults applied when the backing file is
// missing or corrupt.
type Options struct {
	ChannelName        string
	BrandVoice         string
	TargetSeriesLength int
}

// Store owns the on-disk episode log. All mutations go through it; every
// successful mutation rewrites the backing file atomically.
type Store struct {
	path   string
	opts   Options
	logger *slog.Logger

	mu  sync.Mutex
	doc *Document
}

// Open loads the episode log at path, creating an empty document when the
// file is missing and falling back to an empty document when it is corrupt.
// Open never fails; a load problem costs history visibility for this run but
// must not stop production.
func Open(path string, opts Options, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	if opts.TargetSeriesLength <= 0 {
		opts.TargetSeriesLength = 1
	}
	store := &Store{
		path:   path,
		opts:   opts,
		logger: logger.With(logging.String(logging.FieldComponent, "episodelog")),
	}
	store.doc = store.loadDocument()
	if store.doc.migrate(opts.TargetSeriesLength) {
		if err := store.persistLocked(); err != nil {
			store.logger.Warn("failed to persist migrated episode log", logging.Error(err))
		} else {
			store.logger.Info("episode log migrated to current schema",
				logging.Int("episodes", len(store.doc.Episodes)))
		}
	}
	return store
}

func (s *Store) loadDocument() *Document {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("episode log unreadable, starting empty", logging.Error(err))
		}
		return s.emptyDocument()
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("episode log corrupt, starting empty",
			logging.String("path", s.path), logging.Error(err))
		return s.emptyDocument()
	}
	if doc.ChannelName == "" {
		doc.ChannelName = s.opts.ChannelName
	}
	if doc.BrandVoice == "" {
		doc.BrandVoice = s.opts.BrandVoice
	}
	return &doc
}

func (s *Store) emptyDocument() *Document {
	return &Document{
		ChannelName: s.opts.ChannelName,
		BrandVoice:  s.opts.BrandVoice,
		Series:      []Series{},
		Episodes:    []Episode{},
	}
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

// Snapshot returns a deep copy of the current document for read-only use.
func (s *Store) Snapshot() *Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Append records a completed production attempt. The episode number and
// series assignment are owned by the store; whatever the caller set for them
// is overwritten. Returns the assigned episode number.
func (s *Store) Append(ep Episode) (int, error) {
	if ep.PublishStatus == "" {
		ep.PublishStatus = StatusFailed
	}
	if _, ok := ParseStatus(string(ep.PublishStatus)); !ok {
		return 0, fmt.Errorf("append episode: unknown publish status %q", ep.PublishStatus)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ep.EpisodeNumber = len(s.doc.Episodes) + 1
	ep.SeriesID = s.doc.assignSeries(s.opts.TargetSeriesLength)
	ep.SeriesPosition = 0
	s.doc.Episodes = append(s.doc.Episodes, ep)

	if ep.PublishStatus.Published() {
		s.doc.recordPublished(&s.doc.Episodes[len(s.doc.Episodes)-1], s.opts.TargetSeriesLength)
	}

	if err := s.persistLocked(); err != nil {
		return 0, fmt.Errorf("persist episode log: %w", err)
	}
	s.logger.Info("episode appended",
		logging.Int(logging.FieldEpisode, ep.EpisodeNumber),
		logging.Int(logging.FieldSeries, ep.SeriesID),
		logging.String("status", string(ep.PublishStatus)),
		logging.String(logging.FieldTerm, ep.Term))
	return ep.EpisodeNumber, nil
}

// Update carries the fields an upload pass may change on an existing episode.
// Zero-valued fields are left untouched; Extra entries are merged key by key.
type Update struct {
	PublishStatus   Status
	YouTubeVideoID  string
	YouTubeURL      string
	LinkedInPostID  string
	LinkedInPostURL string
	ErrorMessage    string
	ClearError      bool
	Extra           map[string]any
}

// UpdateStatus merges an update into the numbered episode. The boolean
// reports whether the episode exists; a missing episode is not an error and
// leaves the log untouched. A disallowed status transition returns
// (true, *TransitionError) without mutating anything. The transition into
// published triggers series bookkeeping exactly once.
func (s *Store) UpdateStatus(number int, update Update) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ep := s.doc.episodeByNumber(number)
	if ep == nil {
		s.logger.Warn("update for unknown episode ignored",
			logging.Int(logging.FieldEpisode, number))
		return false, nil
	}

	wasPublished := ep.PublishStatus.Published()
	if update.PublishStatus != "" {
		to, ok := ParseStatus(string(update.PublishStatus))
		if !ok {
			return true, fmt.Errorf("episode %d: unknown publish status %q", number, update.PublishStatus)
		}
		if !CanTransition(ep.PublishStatus, to) {
			return true, &TransitionError{EpisodeNumber: number, From: ep.PublishStatus, To: to}
		}
		ep.PublishStatus = to
	}
	if update.YouTubeVideoID != "" {
		ep.YouTubeVideoID = update.YouTubeVideoID
	}
	if update.YouTubeURL != "" {
		ep.YouTubeURL = update.YouTubeURL
	}
	if update.LinkedInPostID != "" {
		ep.LinkedInPostID = update.LinkedInPostID
	}
	if update.LinkedInPostURL != "" {
		ep.LinkedInPostURL = update.LinkedInPostURL
	}
	switch {
	case update.ClearError:
		ep.ErrorMessage = ""
	case update.ErrorMessage != "":
		ep.ErrorMessage = update.ErrorMessage
	}
	for key, value := range update.Extra {
		if ep.Extra == nil {
			ep.Extra = make(map[string]any)
		}
		ep.Extra[key] = value
	}

	if !wasPublished && ep.PublishStatus.Published() {
		s.doc.recordPublished(ep, s.opts.TargetSeriesLength)
	}

	if err := s.persistLocked(); err != nil {
		return true, fmt.Errorf("persist episode log: %w", err)
	}
	s.logger.Info("episode updated",
		logging.Int(logging.FieldEpisode, number),
		logging.String("status", string(ep.PublishStatus)))
	return true, nil
}

// persistLocked writes the document through a temp file and rename so a crash
// mid-write never leaves a truncated log behind. Callers hold s.mu.
func (s *Store) persistLocked() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode episode log: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".episode-log-*.json")
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
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace episode log: %w", err)
	}
	return nil
}
