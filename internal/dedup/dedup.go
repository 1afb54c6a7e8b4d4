// Package dedup blocks semantically duplicate topics before a run spends
// money producing them. Candidate terms are embedded and compared against
// every previously produced topic by cosine similarity; the embeddings live
// in a local SQLite index so history never needs re-embedding. When no
// embedder is available the check degrades to exact fingerprint matching.
package dedup

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"pawpress/internal/logging"
	"pawpress/internal/textutil"
)

// Embedder turns text into a vector. Implemented by the LLM client.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Result of a duplicate check.
type Result struct {
	Duplicate   bool
	Similarity  float64
	MatchedTerm string
}

// Checker runs duplicate checks against the topic index.
type Checker struct {
	index     *Index
	embedder  Embedder
	threshold float64
	logger    *slog.Logger
}

// NewChecker wires a checker. A nil embedder is allowed and limits checks to
// fingerprint matches.
func NewChecker(index *Index, embedder Embedder, threshold float64, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Checker{
		index:     index,
		embedder:  embedder,
		threshold: threshold,
		logger:    logger.With(logging.String(logging.FieldComponent, "dedup")),
	}
}

// Check reports whether the candidate topic is too close to anything already
// produced. The text should combine term, summary, and category for robust
// matching; a bare term still works.
func (c *Checker) Check(ctx context.Context, term, text string) (Result, error) {
	known, err := c.index.Known(ctx, term)
	if err != nil {
		return Result{}, fmt.Errorf("fingerprint lookup: %w", err)
	}
	if known {
		c.logger.Info("exact topic match", logging.String(logging.FieldTerm, term))
		return Result{Duplicate: true, Similarity: 1, MatchedTerm: term}, nil
	}
	if c.embedder == nil {
		return Result{}, nil
	}

	stored, err := c.index.All(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load stored topics: %w", err)
	}
	if len(stored) == 0 {
		return Result{}, nil
	}

	if text == "" {
		text = term
	}
	candidate, err := c.embedder.Embed(ctx, text)
	if err != nil {
		// Embedding failure must not block production; fall back to the
		// fingerprint verdict already computed above.
		c.logger.Warn("embedding failed, semantic check skipped", logging.Error(err))
		return Result{}, nil
	}

	var best Result
	for _, row := range stored {
		if len(row.Vector) == 0 {
			continue
		}
		sim := cosineSimilarity(candidate, row.Vector)
		if sim > best.Similarity {
			best.Similarity = sim
			best.MatchedTerm = row.Term
		}
	}
	best.Duplicate = best.Similarity >= c.threshold
	if best.Duplicate {
		c.logger.Info("duplicate topic blocked",
			logging.String(logging.FieldTerm, term),
			logging.String("matched", best.MatchedTerm),
			logging.Float64("similarity", best.Similarity))
	}
	return best, nil
}

// Remember embeds and stores a topic after a successful production run.
func (c *Checker) Remember(ctx context.Context, term, summary string) error {
	var vector []float64
	if c.embedder != nil {
		text := textutil.JoinNonEmpty(" | ", term, summary)
		embedded, err := c.embedder.Embed(ctx, text)
		if err != nil {
			c.logger.Warn("embedding failed, storing fingerprint only", logging.Error(err))
		} else {
			vector = embedded
		}
	}
	return c.index.Remember(ctx, term, summary, vector)
}

func cosineSimilarity(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, magA, magB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
	}
	for _, x := range a {
		magA += x * x
	}
	for _, x := range b {
		magB += x * x
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
