package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"pawpress/internal/agent"
	"pawpress/internal/composer"
	"pawpress/internal/config"
	"pawpress/internal/episodelog"
	"pawpress/internal/logging"
	"pawpress/internal/notifications"
	"pawpress/internal/producer"
	"pawpress/internal/services"
	"pawpress/internal/textutil"
	"pawpress/internal/uploadlog"
)

// ErrRunInProgress reports that another process holds the run lock.
var ErrRunInProgress = errors.New("another pawpress run is already in progress")

// ErrNothingToRetry reports that every episode in the log is published.
var ErrNothingToRetry = errors.New("no unpublished episode to retry")

// TopicDecider picks the next episode topic against a log snapshot.
type TopicDecider interface {
	DecideNextTopic(ctx context.Context, doc *episodelog.Document) (producer.Decision, error)
}

// ProseWriter produces long-form text (the episode script).
type ProseWriter interface {
	ThinkText(ctx context.Context, task string, taskContext map[string]any) (string, error)
}

// Planner produces structured packaging metadata for one platform.
type Planner interface {
	Think(ctx context.Context, task string, taskContext map[string]any) (agent.Result, error)
}

// Narrator turns a script into encoded audio.
type Narrator interface {
	Speak(ctx context.Context, text string) ([]byte, error)
}

// Renderer muxes the narration and cover image into the upload artifact.
type Renderer interface {
	Compose(ctx context.Context, req composer.Request) (string, error)
}

// TopicMemory records produced topics for future duplicate checks.
type TopicMemory interface {
	Remember(ctx context.Context, term, summary string) error
}

// Deps are the collaborators a Runner orchestrates. Store, Uploads, Topics,
// ScriptWriter, YouTubePlanner, Narrator, and Renderer are required;
// LinkedInPlanner, Uploaders, Notifier, and Memory may be absent.
type Deps struct {
	Store           *episodelog.Store
	Uploads         *uploadlog.Log
	Topics          TopicDecider
	ScriptWriter    ProseWriter
	YouTubePlanner  Planner
	LinkedInPlanner Planner
	Narrator        Narrator
	Renderer        Renderer
	Uploaders       []services.Uploader
	Notifier        notifications.Service
	Memory          TopicMemory
	Logger          *slog.Logger
}

// Options adjust a single run.
type Options struct {
	// NoUpload renders the episode but skips every platform upload, leaving
	// the episode in draft for a later retry.
	NoUpload bool
}

// Report summarizes what a run or retry did.
type Report struct {
	RunID         string
	EpisodeNumber int
	Term          string
	Title         string
	Status        episodelog.Status
	ArtifactPath  string
	Succeeded     map[string]services.UploadResult
	Failed        map[string]string
}

// Runner executes production runs.
type Runner struct {
	cfg    *config.Config
	deps   Deps
	logger *slog.Logger
	lock   *flock.Flock
}

// New wires a runner.
func New(cfg *config.Config, deps Deps) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("workflow: config required")
	}
	if deps.Store == nil || deps.Uploads == nil {
		return nil, errors.New("workflow: episode and upload logs required")
	}
	if deps.Topics == nil || deps.ScriptWriter == nil || deps.YouTubePlanner == nil {
		return nil, errors.New("workflow: topic and writing agents required")
	}
	if deps.Narrator == nil || deps.Renderer == nil {
		return nil, errors.New("workflow: narrator and renderer required")
	}
	if deps.Notifier == nil {
		deps.Notifier = notifications.NewService(cfg)
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		cfg:    cfg,
		deps:   deps,
		logger: logger.With(logging.String(logging.FieldComponent, "workflow")),
		lock:   flock.New(cfg.LockPath()),
	}, nil
}

// Run executes one full production pass and appends the resulting episode.
// A render or agent failure before upload still appends a failed episode so
// the consumed term stays visible to future topic selection.
func (r *Runner) Run(ctx context.Context, opts Options) (*Report, error) {
	if err := r.acquireLock(); err != nil {
		return nil, err
	}
	defer r.releaseLock()

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := r.logger.With(logging.String(logging.FieldRunID, runID))
	logger.Info("run started", logging.Bool("no_upload", opts.NoUpload))
	r.notify(logger, "run started", func() error {
		return r.deps.Notifier.NotifyRunStarted(ctx, runID)
	})

	snapshot := r.deps.Store.Snapshot()
	episodeNumber := len(snapshot.Episodes) + 1

	decision, err := r.deps.Topics.DecideNextTopic(services.WithStage(ctx, "topic"), snapshot)
	if err != nil {
		r.notifyError(ctx, logger, err, "topic selection")
		return nil, fmt.Errorf("decide topic: %w", err)
	}
	logger.Info("topic chosen",
		logging.String(logging.FieldTerm, decision.Term),
		logging.String("category", decision.Category),
		logging.Bool("from_teaser", decision.FromTeaser))
	r.notify(logger, "topic chosen", func() error {
		return r.deps.Notifier.NotifyTopicChosen(ctx, decision.Term, decision.Category)
	})

	content, err := r.produceContent(ctx, snapshot, decision, episodeNumber, logger)
	if err != nil {
		r.notifyError(ctx, logger, err, "content production")
		report := r.appendFailedEpisode(ctx, runID, decision, err, logger)
		return report, err
	}

	report := &Report{
		RunID:        runID,
		Term:         decision.Term,
		Title:        content.title,
		ArtifactPath: content.artifactPath,
		Succeeded:    map[string]services.UploadResult{},
		Failed:       map[string]string{},
	}

	request := services.UploadRequest{
		EpisodeNumber: episodeNumber,
		Term:          decision.Term,
		Title:         content.title,
		Description:   content.description,
		Tags:          content.tags,
		PostText:      content.postText,
		Hashtags:      content.hashtags,
		ArtifactPath:  content.artifactPath,
	}
	pending := r.uploadAll(ctx, request, opts, report, logger)

	report.Status = r.outcomeStatus(opts, report)
	episode := r.buildEpisode(runID, decision, content, report)
	number, err := r.deps.Store.Append(episode)
	if err != nil {
		r.notifyError(ctx, logger, err, "episode log append")
		return report, fmt.Errorf("append episode: %w", err)
	}
	report.EpisodeNumber = number
	r.recordUploads(number, runID, pending, logger)
	r.rememberTopic(ctx, decision, logger)
	r.notifyOutcome(ctx, logger, report)

	logger.Info("run finished",
		logging.Int(logging.FieldEpisode, number),
		logging.String("status", string(report.Status)))
	return report, nil
}

// Retry re-attempts the missing platform uploads for the most recent
// unpublished episode and moves its status forward accordingly.
func (r *Runner) Retry(ctx context.Context) (*Report, error) {
	if err := r.acquireLock(); err != nil {
		return nil, err
	}
	defer r.releaseLock()

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := r.logger.With(logging.String(logging.FieldRunID, runID))

	snapshot := r.deps.Store.Snapshot()
	episode := snapshot.LastUnpublished()
	if episode == nil {
		return nil, ErrNothingToRetry
	}
	if len(r.deps.Uploaders) == 0 {
		return nil, errors.New("retry: no upload platforms enabled")
	}
	logger.Info("retrying episode",
		logging.Int(logging.FieldEpisode, episode.EpisodeNumber),
		logging.String(logging.FieldTerm, episode.Term),
		logging.String("status", string(episode.PublishStatus)))

	report := &Report{
		RunID:         runID,
		EpisodeNumber: episode.EpisodeNumber,
		Term:          episode.Term,
		Title:         episode.Title,
		ArtifactPath:  extraString(episode, "artifact_path"),
		Succeeded:     map[string]services.UploadResult{},
		Failed:        map[string]string{},
	}

	request := services.UploadRequest{
		EpisodeNumber: episode.EpisodeNumber,
		Term:          episode.Term,
		Title:         episode.Title,
		Description:   extraString(episode, "youtube_description"),
		Tags:          extraStrings(episode, "youtube_tags"),
		PostText:      extraString(episode, "linkedin_post_text"),
		Hashtags:      extraStrings(episode, "linkedin_hashtags"),
		ArtifactPath:  report.ArtifactPath,
	}

	update := episodelog.Update{Extra: map[string]any{"last_retry_run_id": runID}}
	done := 0
	for _, uploader := range r.deps.Uploaders {
		platform := uploader.Platform()
		if hasRemoteID(episode, platform) {
			done++
			continue
		}
		if report.ArtifactPath == "" {
			return nil, services.Wrap(services.ErrValidation, "retry", "upload",
				"episode has no recorded artifact; run a full production pass instead", nil)
		}
		if _, err := os.Stat(report.ArtifactPath); err != nil {
			return nil, services.Wrap(services.ErrValidation, "retry", "upload",
				fmt.Sprintf("artifact %s missing", report.ArtifactPath), err)
		}

		stageCtx := services.WithStage(services.WithEpisode(ctx, episode.EpisodeNumber), "upload")
		result, err := uploader.Upload(stageCtx, request)
		entry := r.uploadEntry(request, platform, runID)
		entry.EpisodeNumber = episode.EpisodeNumber
		entry.SeriesID = episode.SeriesID
		entry.SeriesPosition = episode.SeriesPosition
		if err != nil {
			logger.Error("retry upload failed",
				logging.String("platform", platform), logging.Error(err))
			report.Failed[platform] = err.Error()
			entry.Status = uploadlog.OutcomeFailed
			entry.ErrorMessage = err.Error()
		} else {
			logger.Info("retry upload succeeded",
				logging.String("platform", platform),
				logging.String("url", result.URL))
			report.Succeeded[platform] = result
			done++
			entry.Status = uploadlog.OutcomeSuccess
			entry.RemoteID = result.ID
			entry.RemoteURL = result.URL
			applyUploadResult(&update, platform, result)
		}
		if _, recordErr := r.deps.Uploads.Record(entry); recordErr != nil {
			logger.Warn("upload log write failed", logging.Error(recordErr))
		}
	}

	report.Status = retryStatus(episode.PublishStatus, done, len(r.deps.Uploaders))
	update.PublishStatus = report.Status
	if report.Status.Published() {
		update.ClearError = true
	} else if len(report.Failed) > 0 {
		update.ErrorMessage = joinFailures(report.Failed)
	}

	found, err := r.deps.Store.UpdateStatus(episode.EpisodeNumber, update)
	if err != nil {
		return report, fmt.Errorf("update episode %d: %w", episode.EpisodeNumber, err)
	}
	if !found {
		return report, fmt.Errorf("episode %d vanished during retry", episode.EpisodeNumber)
	}

	r.notify(logger, "retry completed", func() error {
		return r.deps.Notifier.NotifyRetryCompleted(ctx,
			episode.EpisodeNumber, episode.Term, string(report.Status))
	})
	logger.Info("retry finished",
		logging.Int(logging.FieldEpisode, episode.EpisodeNumber),
		logging.String("status", string(report.Status)))
	return report, nil
}

// producedContent is everything the agents and the renderer generated for one
// episode.
type producedContent struct {
	script       string
	title        string
	description  string
	tags         []string
	postText     string
	hashtags     []string
	artifactPath string
}

func (r *Runner) produceContent(ctx context.Context, snapshot *episodelog.Document, decision producer.Decision, episodeNumber int, logger *slog.Logger) (producedContent, error) {
	var content producedContent

	scriptCtx := services.WithStage(services.WithEpisode(ctx, episodeNumber), "script")
	script, err := r.deps.ScriptWriter.ThinkText(scriptCtx,
		"Write the full narration script for the next episode.",
		map[string]any{
			"channel_name": snapshot.ChannelName,
			"brand_voice":  snapshot.BrandVoice,
			"term":         decision.Term,
			"category":     decision.Category,
			"why_now":      decision.WhyNow,
			"teaser_term":  decision.NextEpisodeTerm,
		})
	if err != nil {
		return content, fmt.Errorf("write script: %w", err)
	}
	content.script = script
	logger.Info("script written", logging.Int("chars", len(script)))

	packageCtx := services.WithStage(services.WithEpisode(ctx, episodeNumber), "package")
	excerpt := textutil.Truncate(script, 6000)
	plan, err := r.deps.YouTubePlanner.Think(packageCtx,
		"Package this episode for YouTube.",
		map[string]any{
			"channel_name":   snapshot.ChannelName,
			"term":           decision.Term,
			"category":       decision.Category,
			"script_excerpt": excerpt,
		})
	if err != nil {
		return content, fmt.Errorf("plan youtube packaging: %w", err)
	}
	content.title = plan.String("title")
	if content.title == "" {
		content.title = textutil.TitleCase(decision.Term)
	}
	content.description = plan.String("description")
	content.tags = plan.Strings("tags")

	if r.deps.LinkedInPlanner != nil {
		post, err := r.deps.LinkedInPlanner.Think(packageCtx,
			"Write the LinkedIn post announcing this episode.",
			map[string]any{
				"channel_name":   snapshot.ChannelName,
				"term":           decision.Term,
				"title":          content.title,
				"script_excerpt": excerpt,
			})
		if err != nil {
			return content, fmt.Errorf("plan linkedin post: %w", err)
		}
		content.postText = post.String("post_text")
		content.hashtags = post.Strings("hashtags")
	}

	artifact, err := r.renderEpisode(ctx, episodeNumber, decision.Term, script, logger)
	if err != nil {
		return content, err
	}
	content.artifactPath = artifact
	return content, nil
}

func (r *Runner) renderEpisode(ctx context.Context, episodeNumber int, term, script string, logger *slog.Logger) (string, error) {
	stageCtx := services.WithStage(services.WithEpisode(ctx, episodeNumber), "compose")

	cover := r.cfg.CoverImagePath()
	if _, err := os.Stat(cover); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "compose", "render",
			fmt.Sprintf("cover image %s missing", cover), err)
	}

	audio, err := r.deps.Narrator.Speak(stageCtx, script)
	if err != nil {
		return "", fmt.Errorf("narrate script: %w", err)
	}
	if err := os.MkdirAll(r.cfg.Paths.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	narrationPath := filepath.Join(r.cfg.Paths.OutputDir,
		fmt.Sprintf("episode-%03d-narration.mp3", episodeNumber))
	if err := os.WriteFile(narrationPath, audio, 0o644); err != nil {
		return "", fmt.Errorf("write narration: %w", err)
	}
	logger.Info("narration synthesized",
		logging.Int("bytes", len(audio)),
		logging.String("path", narrationPath))

	return r.deps.Renderer.Compose(stageCtx, composer.Request{
		EpisodeNumber: episodeNumber,
		Term:          term,
		ImagePath:     cover,
		AudioPath:     narrationPath,
	})
}

func (r *Runner) uploadAll(ctx context.Context, request services.UploadRequest, opts Options, report *Report, logger *slog.Logger) []uploadlog.Entry {
	var entries []uploadlog.Entry
	for _, uploader := range r.deps.Uploaders {
		platform := uploader.Platform()
		entry := r.uploadEntry(request, platform, report.RunID)

		if opts.NoUpload {
			entry.Status = uploadlog.OutcomeSkipped
			entries = append(entries, entry)
			continue
		}

		stageCtx := services.WithStage(services.WithEpisode(ctx, request.EpisodeNumber), "upload")
		result, err := uploader.Upload(stageCtx, request)
		if err != nil {
			logger.Error("upload failed",
				logging.String("platform", platform), logging.Error(err))
			report.Failed[platform] = err.Error()
			entry.Status = uploadlog.OutcomeFailed
			entry.ErrorMessage = err.Error()
		} else {
			logger.Info("upload succeeded",
				logging.String("platform", platform),
				logging.String("url", result.URL))
			report.Succeeded[platform] = result
			entry.Status = uploadlog.OutcomeSuccess
			entry.RemoteID = result.ID
			entry.RemoteURL = result.URL
		}
		entries = append(entries, entry)
	}
	return entries
}

func (r *Runner) uploadEntry(request services.UploadRequest, platform, runID string) uploadlog.Entry {
	entry := uploadlog.Entry{
		Platform:     platform,
		Term:         request.Term,
		Title:        request.Title,
		RunID:        runID,
		Tags:         request.Tags,
		Description:  request.Description,
		ArtifactPath: request.ArtifactPath,
		FileSizeMB:   fileSizeMB(request.ArtifactPath),
	}
	if platform == "youtube" {
		entry.Privacy = r.cfg.YouTube.Privacy
		entry.CategoryID = r.cfg.YouTube.CategoryID
	}
	return entry
}

// recordUploads writes the pending entries once the episode number and series
// slot are final.
func (r *Runner) recordUploads(episodeNumber int, runID string, entries []uploadlog.Entry, logger *slog.Logger) {
	snapshot := r.deps.Store.Snapshot()
	var seriesID, seriesPosition int
	for i := range snapshot.Episodes {
		if snapshot.Episodes[i].EpisodeNumber == episodeNumber {
			seriesID = snapshot.Episodes[i].SeriesID
			seriesPosition = snapshot.Episodes[i].SeriesPosition
			break
		}
	}
	for _, entry := range entries {
		entry.EpisodeNumber = episodeNumber
		entry.SeriesID = seriesID
		entry.SeriesPosition = seriesPosition
		entry.RunID = runID
		if _, err := r.deps.Uploads.Record(entry); err != nil {
			logger.Warn("upload log write failed", logging.Error(err))
		}
	}
}

func (r *Runner) outcomeStatus(opts Options, report *Report) episodelog.Status {
	switch {
	case opts.NoUpload, len(r.deps.Uploaders) == 0:
		return episodelog.StatusDraft
	case len(report.Failed) == 0:
		return episodelog.StatusPublished
	case len(report.Succeeded) > 0:
		return episodelog.StatusPartial
	default:
		return episodelog.StatusFailed
	}
}

func retryStatus(current episodelog.Status, done, total int) episodelog.Status {
	switch {
	case total > 0 && done == total:
		return episodelog.StatusPublished
	case done > 0:
		return episodelog.StatusPartial
	case current == episodelog.StatusDraft:
		return episodelog.StatusFailed
	default:
		return current
	}
}

func (r *Runner) buildEpisode(runID string, decision producer.Decision, content producedContent, report *Report) episodelog.Episode {
	extra := map[string]any{
		"run_id":        runID,
		"artifact_path": content.artifactPath,
	}
	if decision.WhyNow != "" {
		extra["why_now"] = decision.WhyNow
	}
	if content.description != "" {
		extra["youtube_description"] = content.description
	}
	if len(content.tags) > 0 {
		extra["youtube_tags"] = content.tags
	}
	if content.postText != "" {
		extra["linkedin_post_text"] = content.postText
	}
	if len(content.hashtags) > 0 {
		extra["linkedin_hashtags"] = content.hashtags
	}

	episode := episodelog.Episode{
		Term:            decision.Term,
		Category:        decision.Category,
		Title:           content.title,
		Date:            time.Now().Format("2006-01-02"),
		PublishStatus:   report.Status,
		NextEpisodeTerm: decision.NextEpisodeTerm,
		ErrorMessage:    joinFailures(report.Failed),
		Extra:           extra,
	}
	if result, ok := report.Succeeded["youtube"]; ok {
		episode.YouTubeVideoID = result.ID
		episode.YouTubeURL = result.URL
	}
	if result, ok := report.Succeeded["linkedin"]; ok {
		episode.LinkedInPostID = result.ID
		episode.LinkedInPostURL = result.URL
	}
	return episode
}

// appendFailedEpisode records a run that died before upload so the term stays
// visible to topic selection. The append itself is best effort.
func (r *Runner) appendFailedEpisode(ctx context.Context, runID string, decision producer.Decision, cause error, logger *slog.Logger) *Report {
	report := &Report{
		RunID:  runID,
		Term:   decision.Term,
		Status: episodelog.StatusFailed,
	}
	number, err := r.deps.Store.Append(episodelog.Episode{
		Term:            decision.Term,
		Category:        decision.Category,
		Date:            time.Now().Format("2006-01-02"),
		PublishStatus:   episodelog.StatusFailed,
		NextEpisodeTerm: decision.NextEpisodeTerm,
		ErrorMessage:    cause.Error(),
		Extra:           map[string]any{"run_id": runID},
	})
	if err != nil {
		logger.Error("failed episode not recorded", logging.Error(err))
		return report
	}
	report.EpisodeNumber = number
	r.rememberTopic(ctx, decision, logger)
	return report
}

func (r *Runner) rememberTopic(ctx context.Context, decision producer.Decision, logger *slog.Logger) {
	if r.deps.Memory == nil {
		return
	}
	if err := r.deps.Memory.Remember(ctx, decision.Term, decision.WhyNow); err != nil {
		logger.Warn("topic memory write failed",
			logging.String(logging.FieldTerm, decision.Term), logging.Error(err))
	}
}

func (r *Runner) notifyOutcome(ctx context.Context, logger *slog.Logger, report *Report) {
	switch report.Status {
	case episodelog.StatusPublished:
		url := report.Succeeded["youtube"].URL
		if url == "" {
			url = report.Succeeded["linkedin"].URL
		}
		r.notify(logger, "published", func() error {
			return r.deps.Notifier.NotifyPublished(ctx, report.EpisodeNumber, report.Term, url)
		})
	case episodelog.StatusPartial:
		platforms := make([]string, 0, len(report.Failed))
		for platform := range report.Failed {
			platforms = append(platforms, platform)
		}
		sort.Strings(platforms)
		r.notify(logger, "partial", func() error {
			return r.deps.Notifier.NotifyPartial(ctx, report.EpisodeNumber, report.Term, platforms)
		})
	case episodelog.StatusFailed:
		r.notifyError(ctx, logger, errors.New(joinFailures(report.Failed)), "upload")
	}
}

func (r *Runner) notify(logger *slog.Logger, event string, fn func() error) {
	if err := fn(); err != nil {
		logger.Warn("notification failed",
			logging.String("event", event), logging.Error(err))
	}
}

func (r *Runner) notifyError(ctx context.Context, logger *slog.Logger, cause error, label string) {
	r.notify(logger, "error", func() error {
		return r.deps.Notifier.NotifyError(ctx, cause, label)
	})
}

func (r *Runner) acquireLock() error {
	if err := os.MkdirAll(filepath.Dir(r.cfg.LockPath()), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	ok, err := r.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return ErrRunInProgress
	}
	return nil
}

func (r *Runner) releaseLock() {
	if err := r.lock.Unlock(); err != nil {
		r.logger.Warn("failed to release run lock", logging.Error(err))
	}
}

func applyUploadResult(update *episodelog.Update, platform string, result services.UploadResult) {
	switch platform {
	case "youtube":
		update.YouTubeVideoID = result.ID
		update.YouTubeURL = result.URL
	case "linkedin":
		update.LinkedInPostID = result.ID
		update.LinkedInPostURL = result.URL
	}
}

func hasRemoteID(episode *episodelog.Episode, platform string) bool {
	switch platform {
	case "youtube":
		return episode.YouTubeVideoID != ""
	case "linkedin":
		return episode.LinkedInPostID != ""
	default:
		return false
	}
}

func joinFailures(failed map[string]string) string {
	if len(failed) == 0 {
		return ""
	}
	platforms := make([]string, 0, len(failed))
	for platform := range failed {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)
	parts := make([]string, 0, len(platforms))
	for _, platform := range platforms {
		parts = append(parts, fmt.Sprintf("%s: %s", platform, failed[platform]))
	}
	return strings.Join(parts, "; ")
}

func extraString(episode *episodelog.Episode, key string) string {
	if value, ok := episode.Extra[key].(string); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

func extraStrings(episode *episodelog.Episode, key string) []string {
	switch value := episode.Extra[key].(type) {
	case []string:
		return value
	case []any:
		out := make([]string, 0, len(value))
		for _, item := range value {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func fileSizeMB(path string) float64 {
	if path == "" {
		return 0
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return float64(info.Size()) / (1024 * 1024)
}
