package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pawpress/internal/config"
	"pawpress/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyPublished(context.Background(), 1, "Stocks", "https://example.com"); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name           string
		notify         func(svc notifications.Service) error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "run started",
			notify: func(svc notifications.Service) error {
				return svc.NotifyRunStarted(context.Background(), "run-42")
			},
			expectTitle:   "Pawpress - Run Started",
			expectMessage: "Pipeline run run-42 started",
			expectTags:    "pawpress,run,started",
		},
		{
			name: "published",
			notify: func(svc notifications.Service) error {
				return svc.NotifyPublished(context.Background(), 7, "Yield Curve", "https://youtu.be/x")
			},
			expectTitle:    "Pawpress - Published",
			expectMessage:  "Episode #7 published: Yield Curve\nhttps://youtu.be/x",
			expectTags:     "pawpress,publish,completed",
			expectPriority: "high",
		},
		{
			name: "partial",
			notify: func(svc notifications.Service) error {
				return svc.NotifyPartial(context.Background(), 7, "Yield Curve", []string{"linkedin"})
			},
			expectTitle:    "Pawpress - Partial Publish",
			expectMessage:  "Episode #7 (Yield Curve) published with failures: linkedin",
			expectTags:     "pawpress,publish,partial",
			expectPriority: "high",
		},
		{
			name: "error",
			notify: func(svc notifications.Service) error {
				return svc.NotifyError(context.Background(), errors.New("upload quota exhausted"), "publish")
			},
			expectTitle:    "Pawpress - Error",
			expectMessage:  "Error in publish: upload quota exhausted",
			expectTags:     "pawpress,error,alert",
			expectPriority: "high",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured struct {
				title    string
				tags     string
				priority string
				body     string
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Fatalf("unexpected method: %s", r.Method)
				}
				captured.title = r.Header.Get("Title")
				captured.tags = r.Header.Get("Tags")
				captured.priority = r.Header.Get("Priority")
				body, err := io.ReadAll(r.Body)
				if err != nil {
					t.Fatalf("read body: %v", err)
				}
				captured.body = string(body)
				_ = r.Body.Close()
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			cfg.Notifications.RequestTimeout = 5
			cfg.Notifications.Runs = true
			cfg.Notifications.Publishes = true
			cfg.Notifications.Errors = true

			svc := notifications.NewService(&cfg)
			if err := tc.notify(svc); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}

			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestNtfyServiceHonorsCategoryToggles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected call for muted category: %s", r.URL.String())
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Runs = false
	cfg.Notifications.Publishes = false
	cfg.Notifications.Errors = false

	svc := notifications.NewService(&cfg)
	ctx := context.Background()
	if err := svc.NotifyRunStarted(ctx, "run-1"); err != nil {
		t.Fatalf("muted run notification errored: %v", err)
	}
	if err := svc.NotifyPublished(ctx, 1, "Stocks", ""); err != nil {
		t.Fatalf("muted publish notification errored: %v", err)
	}
	if err := svc.NotifyError(ctx, errors.New("boom"), "test"); err != nil {
		t.Fatalf("muted error notification errored: %v", err)
	}
}

func TestNtfyServiceSurfacesHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("topic is protected"))
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Publishes = true

	svc := notifications.NewService(&cfg)
	err := svc.NotifyPublished(context.Background(), 1, "Stocks", "")
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
	if !strings.Contains(err.Error(), "topic is protected") {
		t.Fatalf("error should carry response body: %v", err)
	}
}
