// Package ticket detects issue-tracker ticket references in branch names
// and renders markdown links for them.
package ticket

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultPattern matches ticket identifiers like "PLAYG-1008": a project key
// of 2-10 letters, a dash, and an issue number. The word boundary keeps a
// longer run of letters (e.g. "VERYLONGPROJECT-123") from matching on its
// tail.
const DefaultPattern = `\b([a-zA-Z]{2,10}-\d+)`

// Rule is a compiled branch-name matching rule. The first capture group,
// uppercased, is the canonical ticket identifier.
type Rule struct {
	re *regexp.Regexp
}

// NewRule compiles a case-insensitive matching rule. A structurally invalid
// pattern fails here; Extract itself never fails.
func NewRule(pattern string) (Rule, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("compile ticket pattern %q: %w", pattern, err)
	}
	if re.NumSubexp() < 1 {
		return Rule{}, fmt.Errorf("ticket pattern %q has no capture group", pattern)
	}
	return Rule{re: re}, nil
}

// DefaultRule returns the rule for DefaultPattern.
func DefaultRule() Rule {
	r, err := NewRule(DefaultPattern)
	if err != nil {
		panic(err) // DefaultPattern is a constant, this cannot happen
	}
	return r
}

// Pattern returns the source pattern without the case-insensitivity prefix.
func (r Rule) Pattern() string {
	return strings.TrimPrefix(r.re.String(), "(?i)")
}

// Extract applies the rule to a branch name and returns the canonical
// (uppercase) ticket identifier. A branch with no embedded ticket reference
// is the expected case, not an error: ok is false and nothing else happens.
func (r Rule) Extract(branch string) (id string, ok bool) {
	m := r.re.FindStringSubmatch(branch)
	if m == nil {
		return "", false
	}
	return strings.ToUpper(m[1]), true
}

// ParseTicketID splits an identifier into project key and issue number,
// e.g. "QUIKS-674" -> ("QUIKS", "674").
func ParseTicketID(id string) (prefix, number string) {
	for i, c := range id {
		if c == '-' {
			return id[:i], id[i+1:]
		}
	}
	return id, ""
}
