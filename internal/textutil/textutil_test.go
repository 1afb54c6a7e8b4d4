package textutil

import "testing"

func TestFingerprint(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Short-Selling!", "short selling"},
		{"short   selling", "short selling"},
		{"  ETFs (Exchange-Traded Funds)  ", "etfs exchange traded funds"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tc := range cases {
		if got := Fingerprint(tc.input); got != tc.want {
			t.Errorf("Fingerprint(%q): got %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Compound Interest", "compound-interest"},
		{"What is a 401(k)?", "what-is-a-401-k"},
		{"///", "untitled"},
	}
	for _, tc := range cases {
		if got := SanitizeFilename(tc.input); got != tc.want {
			t.Errorf("SanitizeFilename(%q): got %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello world", 8); got != "hello..." {
		t.Errorf("Truncate: got %q", got)
	}
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate should not touch short strings: %q", got)
	}
	if got := Truncate("abcdef", 2); got != "ab" {
		t.Errorf("tiny max should hard-cut: %q", got)
	}
}

func TestTitleCase(t *testing.T) {
	if got := TitleCase("  yield curve inversion "); got != "Yield Curve Inversion" {
		t.Errorf("TitleCase: got %q", got)
	}
}

func TestJoinNonEmpty(t *testing.T) {
	if got := JoinNonEmpty(" | ", "a", " ", "", "b"); got != "a | b" {
		t.Errorf("JoinNonEmpty: got %q", got)
	}
}
