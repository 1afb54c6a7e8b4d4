package producer

import (
	"context"
	"strings"
	"testing"

	"pawpress/internal/agent"
	"pawpress/internal/dedup"
	"pawpress/internal/episodelog"
)

type scriptedThinker struct {
	answers  []map[string]any
	requests []map[string]any
	calls    int
}

func (s *scriptedThinker) Think(_ context.Context, _ string, taskContext map[string]any) (agent.Result, error) {
	s.requests = append(s.requests, taskContext)
	answer := s.answers[s.calls%len(s.answers)]
	s.calls++
	return agent.Result{Fields: answer}, nil
}

type scriptedChecker struct {
	duplicates map[string]string
	checked    []string
}

func (s *scriptedChecker) Check(_ context.Context, term, _ string) (dedup.Result, error) {
	s.checked = append(s.checked, term)
	if matched, ok := s.duplicates[strings.ToLower(term)]; ok {
		return dedup.Result{Duplicate: true, Similarity: 0.91, MatchedTerm: matched}, nil
	}
	return dedup.Result{}, nil
}

func publishedEpisode(term, teaser string) episodelog.Episode {
	return episodelog.Episode{
		Term:            term,
		PublishStatus:   episodelog.StatusPublished,
		NextEpisodeTerm: teaser,
	}
}

func TestDecideNextTopicHonorsQueuedTeaser(t *testing.T) {
	doc := &episodelog.Document{
		Episodes: []episodelog.Episode{publishedEpisode("Stocks", "Bond Yields")},
	}
	thinker := &scriptedThinker{answers: []map[string]any{{
		"term":     "Something Else",
		"category": "fixed income",
		"why_now":  "rates are moving",
	}}}
	checker := &scriptedChecker{}

	p := New(thinker, checker, 3, nil)
	decision, err := p.DecideNextTopic(context.Background(), doc)
	if err != nil {
		t.Fatalf("DecideNextTopic failed: %v", err)
	}
	if decision.Term != "Bond Yields" {
		t.Errorf("teaser term should win, got %q", decision.Term)
	}
	if !decision.FromTeaser {
		t.Error("decision should be marked as teaser-sourced")
	}
	if decision.Category != "fixed income" {
		t.Errorf("category should come from the agent, got %q", decision.Category)
	}
	if len(checker.checked) != 0 {
		t.Errorf("teaser term must skip the duplicate checker, checked %v", checker.checked)
	}
	if got := thinker.requests[0]["required_term"]; got != "Bond Yields" {
		t.Errorf("agent should receive the pinned term, got %v", got)
	}
}

func TestDecideNextTopicSkipsCoveredTeaser(t *testing.T) {
	doc := &episodelog.Document{
		Episodes: []episodelog.Episode{
			publishedEpisode("Bond Yields", ""),
			publishedEpisode("Stocks", "Bond Yields"),
		},
	}
	thinker := &scriptedThinker{answers: []map[string]any{{
		"term":     "Options",
		"category": "derivatives",
		"why_now":  "earnings season",
	}}}

	p := New(thinker, &scriptedChecker{}, 3, nil)
	decision, err := p.DecideNextTopic(context.Background(), doc)
	if err != nil {
		t.Fatalf("DecideNextTopic failed: %v", err)
	}
	if decision.Term != "Options" {
		t.Errorf("covered teaser should fall through to the agent, got %q", decision.Term)
	}
	if decision.FromTeaser {
		t.Error("agent-sourced decision should not be marked as teaser")
	}
}

func TestDecideNextTopicReAsksOnDuplicate(t *testing.T) {
	doc := &episodelog.Document{}
	thinker := &scriptedThinker{answers: []map[string]any{
		{"term": "Inflation", "category": "macro", "why_now": "cpi print"},
		{"term": "Stagflation", "category": "macro", "why_now": "growth slowing"},
	}}
	checker := &scriptedChecker{duplicates: map[string]string{"inflation": "Inflation Basics"}}

	p := New(thinker, checker, 3, nil)
	decision, err := p.DecideNextTopic(context.Background(), doc)
	if err != nil {
		t.Fatalf("DecideNextTopic failed: %v", err)
	}
	if decision.Term != "Stagflation" {
		t.Errorf("expected second proposal after duplicate rejection, got %q", decision.Term)
	}
	if thinker.calls != 2 {
		t.Errorf("expected 2 agent calls, got %d", thinker.calls)
	}
	avoid, _ := thinker.requests[1]["rejected_this_run"].([]string)
	if len(avoid) != 1 || avoid[0] != "Inflation" {
		t.Errorf("re-ask should carry the rejected term, got %v", avoid)
	}
}

func TestDecideNextTopicReAsksWhenTermAlreadyCovered(t *testing.T) {
	doc := &episodelog.Document{
		Episodes: []episodelog.Episode{{Term: "Inflation", PublishStatus: episodelog.StatusFailed}},
	}
	thinker := &scriptedThinker{answers: []map[string]any{
		{"term": "Inflation", "category": "macro", "why_now": "cpi print"},
		{"term": "Deflation", "category": "macro", "why_now": "japan lessons"},
	}}
	checker := &scriptedChecker{}

	p := New(thinker, checker, 3, nil)
	decision, err := p.DecideNextTopic(context.Background(), doc)
	if err != nil {
		t.Fatalf("DecideNextTopic failed: %v", err)
	}
	if decision.Term != "Deflation" {
		t.Errorf("failed attempt still consumes the term, got %q", decision.Term)
	}
	if len(checker.checked) != 1 || checker.checked[0] != "Deflation" {
		t.Errorf("covered terms should be rejected before the duplicate checker, checked %v", checker.checked)
	}
}

func TestDecideNextTopicGivesUpAfterMaxAttempts(t *testing.T) {
	doc := &episodelog.Document{}
	thinker := &scriptedThinker{answers: []map[string]any{
		{"term": "Inflation", "category": "macro", "why_now": "always"},
	}}
	checker := &scriptedChecker{duplicates: map[string]string{"inflation": "Inflation Basics"}}

	p := New(thinker, checker, 2, nil)
	_, err := p.DecideNextTopic(context.Background(), doc)
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if thinker.calls != 2 {
		t.Errorf("expected attempts to stop at 2, got %d", thinker.calls)
	}
	if !strings.Contains(err.Error(), "Inflation") {
		t.Errorf("error should list rejected terms: %v", err)
	}
}

func TestDecideNextTopicRejectsAnswerWithoutTerm(t *testing.T) {
	thinker := &scriptedThinker{answers: []map[string]any{{"category": "macro"}}}
	p := New(thinker, nil, 1, nil)
	if _, err := p.DecideNextTopic(context.Background(), &episodelog.Document{}); err == nil {
		t.Fatal("expected error for answer without term")
	}
}
