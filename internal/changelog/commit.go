// Package changelog models the commit records exchanged with a host
// release-note pipeline.
package changelog

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Commit is one conventional-format change entry. The annotation engine
// mutates Message and BareMessage in place; everything else is read-only.
type Commit struct {
	Hash        string       `json:"hash"`
	Message     string       `json:"message"`
	BareMessage string       `json:"bareMessage"`
	PullRequest *PullRequest `json:"pullRequest,omitempty"`
}

// PullRequest is the pull request that introduced a commit. The association
// is optional: commits pushed directly to the release branch carry none.
type PullRequest struct {
	Number       int    `json:"number,omitempty"`
	Title        string `json:"title,omitempty"`
	SourceBranch string `json:"sourceBranch,omitempty"`
	Merged       bool   `json:"merged,omitempty"`
}

// ShortHash returns the abbreviated commit hash for display.
func (c *Commit) ShortHash() string {
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}

// Summary returns the first line of the commit message.
func (c *Commit) Summary() string {
	if i := strings.IndexByte(c.Message, '\n'); i >= 0 {
		return c.Message[:i]
	}
	return c.Message
}

// ReadCommits decodes a JSON commit list from the host pipeline.
func ReadCommits(r io.Reader) ([]*Commit, error) {
	var commits []*Commit
	if err := json.NewDecoder(r).Decode(&commits); err != nil {
		return nil, fmt.Errorf("decode commits: %w", err)
	}
	return commits, nil
}

// WriteCommits encodes a commit list back to the host pipeline.
func WriteCommits(w io.Writer, commits []*Commit) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(commits); err != nil {
		return fmt.Errorf("encode commits: %w", err)
	}
	return nil
}

// RenderMarkdown renders commits as a markdown changelog section, one bullet
// per commit in input order.
func RenderMarkdown(title string, commits []*Commit) string {
	var b strings.Builder
	b.WriteString("# " + title + "\n\n")
	for _, c := range commits {
		b.WriteString("- ")
		b.WriteString(c.Message)
		if c.Hash != "" {
			b.WriteString(" (" + c.ShortHash() + ")")
		}
		b.WriteString("\n")
	}
	return b.String()
}
