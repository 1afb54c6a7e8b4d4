package linkedin

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pawpress/internal/logging"
	"pawpress/internal/services"
)

func TestUploadFullFlow(t *testing.T) {
	artifact := filepath.Join(t.TempDir(), "episode.mp4")
	content := []byte("0123456789abcdef")
	if err := os.WriteFile(artifact, content, 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}

	var uploadedParts [][]byte
	var finalized, posted bool

	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("/videos", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("action") {
		case "initializeUpload":
			if got := r.Header.Get("Linkedin-Version"); got != "202601" {
				t.Errorf("api version header: %q", got)
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"value": map[string]any{
					"video":       "urn:li:video:123",
					"uploadToken": "tok",
					"uploadInstructions": []map[string]any{
						{"uploadUrl": server.URL + "/part", "firstByte": 0, "lastByte": 7},
						{"uploadUrl": server.URL + "/part", "firstByte": 8, "lastByte": 15},
					},
				},
			})
		case "finalizeUpload":
			finalized = true
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected action %q", r.URL.Query().Get("action"))
		}
	})
	mux.HandleFunc("/part", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read part: %v", err)
		}
		uploadedParts = append(uploadedParts, body)
		w.Header().Set("ETag", "etag")
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		posted = true
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode post payload: %v", err)
		}
		if payload["author"] != "urn:li:person:me" {
			t.Errorf("author: %v", payload["author"])
		}
		commentary, _ := payload["commentary"].(string)
		if !strings.Contains(commentary, "#finance") {
			t.Errorf("hashtags missing from commentary: %q", commentary)
		}
		w.Header().Set("X-Restli-Id", "urn:li:share:789")
		w.WriteHeader(http.StatusCreated)
	})
	server = httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(Config{
		AccessToken: "token",
		PersonURN:   "urn:li:person:me",
		APIVersion:  "202601",
	}, logging.NewNop(), WithAPIBase(server.URL))

	result, err := client.Upload(context.Background(), services.UploadRequest{
		Title:        "Yield Curves Explained",
		PostText:     "The bond market just did something strange.",
		Hashtags:     []string{"#finance", "#bonds"},
		ArtifactPath: artifact,
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if result.ID != "urn:li:share:789" {
		t.Errorf("post id: got %q", result.ID)
	}
	if !strings.Contains(result.URL, "urn:li:share:789") {
		t.Errorf("feed url: got %q", result.URL)
	}
	if len(uploadedParts) != 2 {
		t.Fatalf("expected 2 uploaded parts, got %d", len(uploadedParts))
	}
	if string(uploadedParts[0]) != "01234567" || string(uploadedParts[1]) != "89abcdef" {
		t.Errorf("chunking wrong: %q %q", uploadedParts[0], uploadedParts[1])
	}
	if !finalized || !posted {
		t.Errorf("flow incomplete: finalized=%v posted=%v", finalized, posted)
	}
}

func TestUploadMissingCredentials(t *testing.T) {
	client := NewClient(Config{}, logging.NewNop())
	_, err := client.Upload(context.Background(), services.UploadRequest{ArtifactPath: "x.mp4"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !services.Permanent(err) {
		t.Errorf("missing credentials should be permanent: %v", err)
	}
}

func TestUploadUnauthorizedIsConfiguration(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	artifact := filepath.Join(t.TempDir(), "episode.mp4")
	if err := os.WriteFile(artifact, []byte("x"), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}

	client := NewClient(Config{AccessToken: "expired", PersonURN: "urn:li:person:me", APIVersion: "202601"},
		logging.NewNop(), WithAPIBase(server.URL))
	_, err := client.Upload(context.Background(), services.UploadRequest{ArtifactPath: artifact})
	if err == nil {
		t.Fatal("expected error")
	}
	if !services.Permanent(err) {
		t.Errorf("401 should be a configuration error: %v", err)
	}
}
