// Package llm provides an OpenAI-compatible chat and embedding client.
//
// This package is used by:
//   - Agents: structured JSON decisions (topic choice, metadata) and prose
//     outputs (scripts, post bodies)
//   - Dedup: topic embeddings for cosine-similarity duplicate checks
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.CompleteJSON: send system/user prompts, receive JSON response.
// Client.CompleteText: plain-text completion for prose outputs.
// Client.Embed: embedding vector for a text.
// Client.HealthCheck: verify API key and model availability.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx errors and network timeouts with
// exponential backoff (base 1s, max 10s, up to 5 attempts by default).
// Context cancellation aborts retries immediately.
//
// # Fallback
//
// If the LLM is unavailable or returns an error, callers should fall back to
// sensible defaults: the dedup checker degrades to fingerprint matching and
// the producer reports the run as failed rather than crashing.
package llm
