package ticket

import "testing"

func TestExtractDefaultRule(t *testing.T) {
	rule := DefaultRule()

	tests := []struct {
		branch string
		want   string
		ok     bool
	}{
		{"PLAYG-1008-test-feature", "PLAYG-1008", true},
		{"playg-1008-foo", "PLAYG-1008", true},
		{"QUIKS-674-UI-analytics-basic-tests", "QUIKS-674", true},
		{"FRES-3550_new_form", "FRES-3550", true},
		{"ab-1", "AB-1", true},
		{"abcdefghij-42", "ABCDEFGHIJ-42", true},
		{"fix-typo", "", false},
		{"P-123", "", false},
		{"VERYLONGPROJECT-123", "", false},
		{"main", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.branch, func(t *testing.T) {
			got, ok := rule.Extract(tt.branch)
			if ok != tt.ok {
				t.Fatalf("Extract(%q) ok = %v, want %v", tt.branch, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("Extract(%q) = %q, want %q", tt.branch, got, tt.want)
			}
		})
	}
}

func TestNewRuleInvalidPattern(t *testing.T) {
	if _, err := NewRule(`([a-z{2,`); err == nil {
		t.Fatal("expected error for malformed pattern")
	}
	if _, err := NewRule(`[a-z]+-\d+`); err == nil {
		t.Fatal("expected error for pattern without capture group")
	}
}

func TestRulePattern(t *testing.T) {
	rule, err := NewRule(`(CORE-\d+)`)
	if err != nil {
		t.Fatalf("NewRule failed: %v", err)
	}
	if rule.Pattern() != `(CORE-\d+)` {
		t.Errorf("Pattern() = %q", rule.Pattern())
	}
}

func TestFormatLink(t *testing.T) {
	inline := FormatLink("QUIKS-674", "https://example.atlassian.net", StyleInline)
	want := " ([QUIKS-674](https://example.atlassian.net/browse/QUIKS-674))"
	if inline != want {
		t.Errorf("inline link = %q, want %q", inline, want)
	}

	newline := FormatLink("QUIKS-674", "https://example.atlassian.net", StyleNewline)
	want = "\n  [QUIKS-674](https://example.atlassian.net/browse/QUIKS-674)"
	if newline != want {
		t.Errorf("newline link = %q, want %q", newline, want)
	}
}

func TestParseStyle(t *testing.T) {
	if _, err := ParseStyle("inline"); err != nil {
		t.Errorf("ParseStyle(inline) failed: %v", err)
	}
	if _, err := ParseStyle("newline"); err != nil {
		t.Errorf("ParseStyle(newline) failed: %v", err)
	}
	if _, err := ParseStyle("footer"); err == nil {
		t.Error("expected error for unknown style")
	}
}

func TestParseTicketID(t *testing.T) {
	prefix, number := ParseTicketID("QUIKS-674")
	if prefix != "QUIKS" || number != "674" {
		t.Errorf("ParseTicketID = (%q, %q), want (QUIKS, 674)", prefix, number)
	}

	prefix, number = ParseTicketID("QUIKS")
	if prefix != "QUIKS" || number != "" {
		t.Errorf("ParseTicketID without dash = (%q, %q)", prefix, number)
	}
}
