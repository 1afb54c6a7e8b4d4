package episodelog

import "strings"

// Resolver reads answer "what should happen next" questions over a document
// snapshot. They never mutate state and degrade to empty results when the log
// has nothing to say.

// QueuedNextTerm returns the continuity teaser of the most recent published
// episode, or empty when no published episode carries one. Teasers from
// failed, partial, or draft episodes are ignored since their audience never
// saw them.
func (d *Document) QueuedNextTerm() string {
	for i := len(d.Episodes) - 1; i >= 0; i-- {
		ep := &d.Episodes[i]
		if !ep.PublishStatus.Published() {
			continue
		}
		return strings.TrimSpace(ep.NextEpisodeTerm)
	}
	return ""
}

// LastUnpublished returns the most recent episode whose status still needs an
// upload pass, or nil when the whole log is published.
func (d *Document) LastUnpublished() *Episode {
	for i := len(d.Episodes) - 1; i >= 0; i-- {
		if d.Episodes[i].PublishStatus.RetryCandidate() {
			return &d.Episodes[i]
		}
	}
	return nil
}

// TermCovered reports whether any episode, regardless of status, already used
// the term. Failed attempts count: regenerating content for a term that was
// already produced wastes a run even if it never went live.
func (d *Document) TermCovered(term string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return false
	}
	for i := range d.Episodes {
		if strings.EqualFold(d.Episodes[i].Term, term) {
			return true
		}
	}
	return false
}

// TermsCovered returns every term in episode order, regardless of status.
func (d *Document) TermsCovered() []string {
	terms := make([]string, 0, len(d.Episodes))
	for i := range d.Episodes {
		terms = appendTermOnce(terms, d.Episodes[i].Term)
	}
	return terms
}

// TermsPublished returns terms of published episodes only, in episode order.
func (d *Document) TermsPublished() []string {
	var terms []string
	for i := range d.Episodes {
		if d.Episodes[i].PublishStatus.Published() {
			terms = appendTermOnce(terms, d.Episodes[i].Term)
		}
	}
	return terms
}

// RecentCategories returns the categories of the most recent limit episodes,
// newest first, duplicates removed.
func (d *Document) RecentCategories(limit int) []string {
	var categories []string
	for i := len(d.Episodes) - 1; i >= 0 && len(categories) < limit; i-- {
		categories = appendTermOnce(categories, d.Episodes[i].Category)
	}
	return categories
}

// RecentEvents returns historical events covered by the most recent limit
// episodes, newest first, duplicates removed.
func (d *Document) RecentEvents(limit int) []string {
	var events []string
	for i := len(d.Episodes) - 1; i >= 0; i-- {
		for _, event := range d.Episodes[i].HistoricalEvents {
			if len(events) >= limit {
				return events
			}
			events = appendTermOnce(events, event)
		}
	}
	return events
}

// CurrentSeries returns the series eligible to receive appends, or nil when
// the log has none yet.
func (d *Document) CurrentSeries() *Series {
	if len(d.Series) == 0 {
		return nil
	}
	return &d.Series[len(d.Series)-1]
}
