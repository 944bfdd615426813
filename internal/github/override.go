package github

import (
	"fmt"
	"strings"
)

// Override markers recognized by release-please style changelog generators.
const (
	overrideBegin = "BEGIN_COMMIT_OVERRIDE"
	overrideEnd   = "END_COMMIT_OVERRIDE"
)

// CommitOverride builds the HTML-comment block that overrides the squash
// commit message a changelog generator picks up from the PR, carrying the
// PR title plus the ticket link.
func CommitOverride(prTitle, ticketLink string) string {
	return fmt.Sprintf(`<!--

%s
%s (%s)
%s

-->`, overrideBegin, prTitle, ticketLink, overrideEnd)
}

// HasCommitOverride reports whether a PR body already carries an override
// block. Appending a second one would confuse the generator, so callers skip
// the update in that case.
func HasCommitOverride(body string) bool {
	return strings.Contains(body, overrideBegin)
}

// AppendOverride appends an override block to a PR body, preserving existing
// content.
func AppendOverride(body, override string) string {
	if body == "" {
		return override
	}
	return body + "\n\n" + override
}
