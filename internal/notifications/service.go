package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pawpress/internal/config"
)

const userAgent = "Pawpress/0.1.0"

// Service defines the notification surface exposed to the workflow runner.
type Service interface {
	NotifyRunStarted(ctx context.Context, runID string) error
	NotifyTopicChosen(ctx context.Context, term, category string) error
	NotifyPublished(ctx context.Context, episodeNumber int, term, url string) error
	NotifyPartial(ctx context.Context, episodeNumber int, term string, failedPlatforms []string) error
	NotifyRetryCompleted(ctx context.Context, episodeNumber int, term, status string) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:  topic,
		client:    &http.Client{Timeout: timeout},
		runs:      cfg.Notifications.Runs,
		publishes: cfg.Notifications.Publishes,
		errors:    cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint  string
	client    *http.Client
	runs      bool
	publishes bool
	errors    bool
}

func (n *ntfyService) NotifyRunStarted(ctx context.Context, runID string) error {
	if !n.runs {
		return nil
	}
	data := payload{
		title:   "Pawpress - Run Started",
		message: fmt.Sprintf("Pipeline run %s started", strings.TrimSpace(runID)),
		tags:    []string{"pawpress", "run", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyTopicChosen(ctx context.Context, term, category string) error {
	if !n.runs {
		return nil
	}
	term = strings.TrimSpace(term)
	category = strings.TrimSpace(category)
	if category == "" {
		category = "uncategorized"
	}
	data := payload{
		title:   "Pawpress - Topic Chosen",
		message: fmt.Sprintf("Next episode: %s (%s)", term, category),
		tags:    []string{"pawpress", "topic", "chosen"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyPublished(ctx context.Context, episodeNumber int, term, url string) error {
	if !n.publishes {
		return nil
	}
	message := fmt.Sprintf("Episode #%d published: %s", episodeNumber, strings.TrimSpace(term))
	if url = strings.TrimSpace(url); url != "" {
		message = fmt.Sprintf("%s\n%s", message, url)
	}
	data := payload{
		title:    "Pawpress - Published",
		message:  message,
		tags:     []string{"pawpress", "publish", "completed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyPartial(ctx context.Context, episodeNumber int, term string, failedPlatforms []string) error {
	if !n.publishes {
		return nil
	}
	data := payload{
		title: "Pawpress - Partial Publish",
		message: fmt.Sprintf("Episode #%d (%s) published with failures: %s",
			episodeNumber, strings.TrimSpace(term), strings.Join(failedPlatforms, ", ")),
		tags:     []string{"pawpress", "publish", "partial"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyRetryCompleted(ctx context.Context, episodeNumber int, term, status string) error {
	if !n.publishes {
		return nil
	}
	data := payload{
		title: "Pawpress - Retry Complete",
		message: fmt.Sprintf("Episode #%d (%s) retry finished with status %s",
			episodeNumber, strings.TrimSpace(term), status),
		tags: []string{"pawpress", "retry", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" in ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Pawpress - Error",
		message:  builder.String(),
		tags:     []string{"pawpress", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Pawpress - Test",
		message:  "Notification system test",
		tags:     []string{"pawpress", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyRunStarted(context.Context, string) error                    { return nil }
func (noopService) NotifyTopicChosen(context.Context, string, string) error           { return nil }
func (noopService) NotifyPublished(context.Context, int, string, string) error        { return nil }
func (noopService) NotifyPartial(context.Context, int, string, []string) error        { return nil }
func (noopService) NotifyRetryCompleted(context.Context, int, string, string) error   { return nil }
func (noopService) NotifyError(context.Context, error, string) error                  { return nil }
func (noopService) TestNotification(context.Context) error                            { return nil }
