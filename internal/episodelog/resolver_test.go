package episodelog

import "testing"

func TestQueuedNextTermIgnoresUnpublishedTeasers(t *testing.T) {
	doc := &Document{Episodes: []Episode{
		{EpisodeNumber: 1, Term: "Inflation", PublishStatus: StatusPublished, NextEpisodeTerm: "X"},
		{EpisodeNumber: 2, Term: "Deflation", PublishStatus: StatusFailed, NextEpisodeTerm: "Y"},
	}}

	if got := doc.QueuedNextTerm(); got != "X" {
		t.Errorf("queued next term: got %q, want %q", got, "X")
	}
}

func TestQueuedNextTermEmptyWhenNothingPublished(t *testing.T) {
	doc := &Document{Episodes: []Episode{
		{EpisodeNumber: 1, PublishStatus: StatusFailed, NextEpisodeTerm: "Y"},
		{EpisodeNumber: 2, PublishStatus: StatusDraft, NextEpisodeTerm: "Z"},
	}}

	if got := doc.QueuedNextTerm(); got != "" {
		t.Errorf("expected empty teaser, got %q", got)
	}
}

func TestLastUnpublishedPicksMostRecentRetryCandidate(t *testing.T) {
	doc := &Document{Episodes: []Episode{
		{EpisodeNumber: 1, PublishStatus: StatusPublished},
		{EpisodeNumber: 2, PublishStatus: StatusFailed},
		{EpisodeNumber: 3, PublishStatus: StatusPublished},
		{EpisodeNumber: 4, PublishStatus: StatusPartial},
	}}

	ep := doc.LastUnpublished()
	if ep == nil {
		t.Fatal("expected a retry candidate")
	}
	if ep.EpisodeNumber != 4 {
		t.Errorf("retry target: got episode %d, want 4", ep.EpisodeNumber)
	}
}

func TestLastUnpublishedNilWhenAllPublished(t *testing.T) {
	doc := &Document{Episodes: []Episode{
		{EpisodeNumber: 1, PublishStatus: StatusPublished},
		{EpisodeNumber: 2, PublishStatus: StatusPublished},
	}}

	if ep := doc.LastUnpublished(); ep != nil {
		t.Errorf("expected nil, got episode %d", ep.EpisodeNumber)
	}
}

func TestTermCoveredCountsFailedAttempts(t *testing.T) {
	doc := &Document{Episodes: []Episode{
		{EpisodeNumber: 1, Term: "Hedge Funds", PublishStatus: StatusFailed},
	}}

	if !doc.TermCovered("hedge funds") {
		t.Error("failed attempt should still cover its term")
	}
	if doc.TermCovered("Venture Capital") {
		t.Error("unused term reported as covered")
	}
	if doc.TermCovered("  ") {
		t.Error("blank term should never be covered")
	}
}

func TestTermsPublishedFiltersByStatus(t *testing.T) {
	doc := &Document{Episodes: []Episode{
		{EpisodeNumber: 1, Term: "Stocks", PublishStatus: StatusPublished},
		{EpisodeNumber: 2, Term: "Bonds", PublishStatus: StatusFailed},
		{EpisodeNumber: 3, Term: "Gold", PublishStatus: StatusPublished},
	}}

	published := doc.TermsPublished()
	if len(published) != 2 || published[0] != "Stocks" || published[1] != "Gold" {
		t.Errorf("published terms: got %v", published)
	}
	all := doc.TermsCovered()
	if len(all) != 3 {
		t.Errorf("covered terms: got %v", all)
	}
}

func TestRecentCategoriesNewestFirstDeduped(t *testing.T) {
	doc := &Document{Episodes: []Episode{
		{EpisodeNumber: 1, Category: "macro"},
		{EpisodeNumber: 2, Category: "crypto"},
		{EpisodeNumber: 3, Category: "macro"},
	}}

	got := doc.RecentCategories(5)
	if len(got) != 2 || got[0] != "macro" || got[1] != "crypto" {
		t.Errorf("recent categories: got %v", got)
	}
}

func TestRecentEventsRespectsLimit(t *testing.T) {
	doc := &Document{Episodes: []Episode{
		{EpisodeNumber: 1, HistoricalEvents: []string{"Tulip Mania", "1929 Crash"}},
		{EpisodeNumber: 2, HistoricalEvents: []string{"Dot-com Bubble", "2008 Crisis"}},
	}}

	got := doc.RecentEvents(3)
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %v", got)
	}
	if got[0] != "Dot-com Bubble" {
		t.Errorf("events should start from the newest episode, got %v", got)
	}
}
