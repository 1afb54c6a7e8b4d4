package dedup

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"pawpress/internal/logging"
)

type stubEmbedder struct {
	vectors map[string][]float64
	err     error
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return []float64{1, 0, 0}, nil
}

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := OpenIndex(filepath.Join(t.TempDir(), "topics.db"))
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestCosineSimilarity(t *testing.T) {
	cases := []struct {
		a, b []float64
		want float64
	}{
		{[]float64{1, 0}, []float64{1, 0}, 1},
		{[]float64{1, 0}, []float64{0, 1}, 0},
		{[]float64{1, 1}, []float64{1, 0}, 1 / math.Sqrt2},
		{[]float64{0, 0}, []float64{1, 0}, 0},
	}
	for _, tc := range cases {
		if got := cosineSimilarity(tc.a, tc.b); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("cosineSimilarity(%v, %v): got %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestCheckBlocksSimilarTopic(t *testing.T) {
	ctx := context.Background()
	idx := openTestIndex(t)
	if err := idx.Remember(ctx, "Compound Interest", "how money grows", []float64{1, 0, 0}); err != nil {
		t.Fatalf("remember: %v", err)
	}

	embedder := &stubEmbedder{vectors: map[string][]float64{
		"interest compounding": {0.99, 0.1, 0},
		"cat nutrition":        {0, 1, 0},
	}}
	checker := NewChecker(idx, embedder, 0.70, logging.NewNop())

	dup, err := checker.Check(ctx, "Interest Compounding", "interest compounding")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !dup.Duplicate {
		t.Errorf("expected duplicate, similarity=%v", dup.Similarity)
	}
	if dup.MatchedTerm != "Compound Interest" {
		t.Errorf("matched term: got %q", dup.MatchedTerm)
	}

	unique, err := checker.Check(ctx, "Cat Nutrition", "cat nutrition")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if unique.Duplicate {
		t.Errorf("unrelated topic flagged as duplicate: %+v", unique)
	}
}

func TestCheckExactFingerprintMatchSkipsEmbedding(t *testing.T) {
	ctx := context.Background()
	idx := openTestIndex(t)
	if err := idx.Remember(ctx, "Short-Selling", "", nil); err != nil {
		t.Fatalf("remember: %v", err)
	}

	// The embedder would error if consulted; the fingerprint match wins first.
	checker := NewChecker(idx, &stubEmbedder{err: errors.New("should not be called")}, 0.70, logging.NewNop())
	result, err := checker.Check(ctx, "short selling!", "")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !result.Duplicate || result.Similarity != 1 {
		t.Errorf("exact match not detected: %+v", result)
	}
}

func TestCheckDegradesWhenEmbeddingFails(t *testing.T) {
	ctx := context.Background()
	idx := openTestIndex(t)
	if err := idx.Remember(ctx, "Bonds", "", []float64{1, 0, 0}); err != nil {
		t.Fatalf("remember: %v", err)
	}

	checker := NewChecker(idx, &stubEmbedder{err: errors.New("api down")}, 0.70, logging.NewNop())
	result, err := checker.Check(ctx, "Equities", "")
	if err != nil {
		t.Fatalf("embedding failure should not surface: %v", err)
	}
	if result.Duplicate {
		t.Errorf("degraded check should pass the topic: %+v", result)
	}
}

func TestCheckWithEmptyIndex(t *testing.T) {
	checker := NewChecker(openTestIndex(t), &stubEmbedder{}, 0.70, logging.NewNop())
	result, err := checker.Check(context.Background(), "First Topic", "")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if result.Duplicate {
		t.Error("empty index should never report duplicates")
	}
}

func TestRememberReplacesVector(t *testing.T) {
	ctx := context.Background()
	idx := openTestIndex(t)
	if err := idx.Remember(ctx, "Gold", "v1", []float64{1}); err != nil {
		t.Fatalf("remember: %v", err)
	}
	if err := idx.Remember(ctx, "GOLD!", "v2", []float64{0.5}); err != nil {
		t.Fatalf("second remember: %v", err)
	}

	rows, err := idx.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("fingerprint collision should upsert, got %d rows", len(rows))
	}
	if rows[0].Summary != "v2" || rows[0].Vector[0] != 0.5 {
		t.Errorf("row not replaced: %+v", rows[0])
	}
}
