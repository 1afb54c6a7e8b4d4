package episodelog

import (
	"fmt"
	"strings"
)

// Status represents the publish lifecycle of an episode.
type Status string

const (
	// StatusDraft marks an episode whose uploads were intentionally skipped.
	StatusDraft Status = "draft"
	// StatusFailed marks an episode for which every upload failed.
	StatusFailed Status = "failed"
	// StatusPartial marks an episode with at least one succeeded and one
	// failed upload.
	StatusPartial Status = "partial"
	// StatusPublished marks an episode whose required uploads all succeeded.
	StatusPublished Status = "published"
)

var allStatuses = []Status{
	StatusDraft,
	StatusFailed,
	StatusPartial,
	StatusPublished,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// Published reports whether the status counts toward series progression.
func (s Status) Published() bool {
	return s == StatusPublished
}

// RetryCandidate reports whether an episode in this status is eligible for a
// retry pass.
func (s Status) RetryCandidate() bool {
	switch s {
	case StatusDraft, StatusFailed, StatusPartial:
		return true
	default:
		return false
	}
}

// CanTransition reports whether moving an episode from one status to another
// is permitted. Published is terminal: the series counters it incremented
// cannot be unwound, so no transition leaves it. Draft episodes may move
// anywhere (a retried draft performs its uploads for the first time), failed
// episodes may gain partial or full success, and partial episodes may only
// complete. Same-status updates are metadata merges, not transitions.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusPublished:
		return false
	case StatusDraft:
		return true
	case StatusFailed:
		return to == StatusPartial || to == StatusPublished
	case StatusPartial:
		return to == StatusPublished
	default:
		return false
	}
}

// TransitionError reports a rejected status transition.
type TransitionError struct {
	EpisodeNumber int
	From          Status
	To            Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("episode %d: status transition %s -> %s not permitted", e.EpisodeNumber, e.From, e.To)
}
