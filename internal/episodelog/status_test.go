package episodelog

import "testing"

func TestParseStatus(t *testing.T) {
	cases := []struct {
		input string
		want  Status
		ok    bool
	}{
		{"published", StatusPublished, true},
		{" Draft ", StatusDraft, true},
		{"FAILED", StatusFailed, true},
		{"partial", StatusPartial, true},
		{"", "", false},
		{"shipped", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseStatus(tc.input)
		if ok != tc.ok {
			t.Errorf("ParseStatus(%q) ok: got %v, want %v", tc.input, ok, tc.ok)
			continue
		}
		if ok && got != tc.want {
			t.Errorf("ParseStatus(%q): got %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestCanTransitionTable(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusDraft, StatusPublished}:     true,
		{StatusDraft, StatusFailed}:        true,
		{StatusDraft, StatusPartial}:       true,
		{StatusFailed, StatusPartial}:      true,
		{StatusFailed, StatusPublished}:    true,
		{StatusPartial, StatusPublished}:   true,
		{StatusPublished, StatusFailed}:    false,
		{StatusPublished, StatusPartial}:   false,
		{StatusPublished, StatusDraft}:     false,
		{StatusPartial, StatusFailed}:      false,
		{StatusPartial, StatusDraft}:       false,
		{StatusFailed, StatusDraft}:        false,
	}
	for pair, want := range allowed {
		if got := CanTransition(pair[0], pair[1]); got != want {
			t.Errorf("CanTransition(%s, %s): got %v, want %v", pair[0], pair[1], got, want)
		}
	}
	for _, status := range AllStatuses() {
		if !CanTransition(status, status) {
			t.Errorf("same-status merge should be allowed for %s", status)
		}
	}
}

func TestRetryCandidate(t *testing.T) {
	for _, status := range []Status{StatusDraft, StatusFailed, StatusPartial} {
		if !status.RetryCandidate() {
			t.Errorf("%s should be a retry candidate", status)
		}
	}
	if StatusPublished.RetryCandidate() {
		t.Error("published should not be a retry candidate")
	}
}
