package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func chatPayload(content string) map[string]any {
	return map[string]any{
		"choices": []any{
			map[string]any{
				"message": map[string]any{
					"content": content,
				},
			},
		},
	}
}

func TestClientHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewEncoder(w).Encode(chatPayload(`{"ok":true}`)); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}
}

func TestClientHealthCheckCodeFence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := chatPayload("```json\n{\"ok\":true}\n```")
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}
}

func TestClientHealthCheckFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "bad", BaseURL: server.URL, Model: "demo"})
	if err := client.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected health check to fail")
	}
}

func TestCompleteJSONPassesTemperature(t *testing.T) {
	var gotTemperature float64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		gotTemperature, _ = req["temperature"].(float64)
		_ = json.NewEncoder(w).Encode(chatPayload(`{"term":"Compound Interest"}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	content, err := client.CompleteJSON(context.Background(), "system", "user", 0.8)
	if err != nil {
		t.Fatalf("CompleteJSON returned error: %v", err)
	}
	if gotTemperature != 0.8 {
		t.Errorf("temperature: got %v, want 0.8", gotTemperature)
	}
	if !strings.Contains(content, "Compound Interest") {
		t.Errorf("unexpected content %q", content)
	}
}

func TestEmbedReturnsVector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["model"] != "embed-model" {
			t.Errorf("embedding model not sent: %v", req["model"])
		}
		payload := map[string]any{
			"data": []any{
				map[string]any{"embedding": []float64{0.1, 0.2, 0.3}},
			},
		}
		_ = json.NewEncoder(w).Encode(payload)
	}))
	defer server.Close()

	client := NewClient(Config{
		APIKey:         "test",
		BaseURL:        server.URL,
		Model:          "demo-model",
		EmbeddingModel: "embed-model",
	})
	vector, err := client.Embed(context.Background(), "compound interest")
	if err != nil {
		t.Fatalf("Embed returned error: %v", err)
	}
	if len(vector) != 3 || vector[1] != 0.2 {
		t.Errorf("unexpected vector %v", vector)
	}
}

func TestEmbedRejectsEmptyInput(t *testing.T) {
	client := NewClient(Config{APIKey: "test", Model: "demo"})
	if _, err := client.Embed(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestSpeakReturnsAudioBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/speech" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["model"] != "speech-model" {
			t.Errorf("speech model not sent: %v", req["model"])
		}
		if req["voice"] != "nova" {
			t.Errorf("voice not sent: %v", req["voice"])
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("mp3-bytes"))
	}))
	defer server.Close()

	client := NewClient(Config{
		APIKey:      "test",
		BaseURL:     server.URL,
		Model:       "demo-model",
		SpeechModel: "speech-model",
		SpeechVoice: "nova",
	})
	audio, err := client.Speak(context.Background(), "welcome back to the channel")
	if err != nil {
		t.Fatalf("Speak returned error: %v", err)
	}
	if string(audio) != "mp3-bytes" {
		t.Errorf("unexpected audio payload %q", audio)
	}
}

func TestSpeakRejectsEmptyInput(t *testing.T) {
	client := NewClient(Config{APIKey: "test", Model: "demo"})
	if _, err := client.Speak(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestClientRetriesOnHTTP429(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "rate limited"})
			return
		}
		_ = json.NewEncoder(w).Encode(chatPayload(`{"ok":true}`))
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"},
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
		WithRetryBackoff(0, 10*time.Second),
		WithRetryMaxAttempts(5),
	)
	if _, err := client.CompleteJSON(context.Background(), "system", "user", 0); err != nil {
		t.Fatalf("CompleteJSON returned error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
	if len(slept) != 1 || slept[0] != time.Second {
		t.Fatalf("expected single sleep of 1s, got %v", slept)
	}
}

func TestClientRetriesOnEmptyContentThenSucceeds(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		content := ""
		if calls >= 3 {
			content = `{"ok":true}`
		}
		payload := map[string]any{
			"choices": []any{
				map[string]any{
					"finish_reason": "stop",
					"message": map[string]any{
						"content": content,
					},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(payload)
	}))
	defer server.Close()

	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"},
		WithRetryBackoff(0, 0),
		WithSleeper(func(time.Duration) {}),
		WithRetryMaxAttempts(5),
	)
	if _, err := client.CompleteJSON(context.Background(), "system", "user", 0); err != nil {
		t.Fatalf("CompleteJSON returned error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestDecodeLLMJSONVariants(t *testing.T) {
	var target struct {
		Term string `json:"term"`
	}
	cases := []string{
		`{"term":"ETFs"}`,
		"```json\n{\"term\":\"ETFs\"}\n```",
		"Here is the answer: {\"term\":\"ETFs\"} hope that helps",
	}
	for _, payload := range cases {
		target.Term = ""
		if err := DecodeLLMJSON(payload, &target); err != nil {
			t.Errorf("DecodeLLMJSON(%q) failed: %v", payload, err)
			continue
		}
		if target.Term != "ETFs" {
			t.Errorf("DecodeLLMJSON(%q): got %q", payload, target.Term)
		}
	}
	if err := DecodeLLMJSON("   ", &target); err == nil {
		t.Error("expected error for empty payload")
	}
}
