// Package annotate appends issue-tracker links to changelog commit messages.
//
// The engine is a single synchronous pass over an in-memory commit list: no
// I/O, no shared state between invocations, and no failure path of its own.
// Re-running it over already-annotated commits is a no-op.
package annotate

import (
	"strings"

	"github.com/releasetrain/tracelink/internal/changelog"
	"github.com/releasetrain/tracelink/internal/logging"
	"github.com/releasetrain/tracelink/internal/ticket"
)

// DefaultBaseURL is the placeholder tracker root used when the caller does
// not supply one.
const DefaultBaseURL = "https://yourcompany.atlassian.net"

// Options configures one annotation pass. Construct via NewOptions; the
// value is never mutated after construction.
type Options struct {
	BaseURL string
	Rule    ticket.Rule
	Style   ticket.Style
	Verbose bool
}

// NewOptions merges caller-supplied values over the defaults. Empty strings
// select the default; a malformed pattern or unknown style fails here so the
// engine itself never has to.
func NewOptions(baseURL, pattern, style string, verbose bool) (Options, error) {
	opts := Options{
		BaseURL: DefaultBaseURL,
		Rule:    ticket.DefaultRule(),
		Style:   ticket.StyleInline,
		Verbose: verbose,
	}
	if baseURL != "" {
		opts.BaseURL = baseURL
	}
	if pattern != "" {
		rule, err := ticket.NewRule(pattern)
		if err != nil {
			return Options{}, err
		}
		opts.Rule = rule
	}
	if style != "" {
		s, err := ticket.ParseStyle(style)
		if err != nil {
			return Options{}, err
		}
		opts.Style = s
	}
	return opts, nil
}

// Annotate walks commits in input order and appends a formatted ticket link
// to the message fields of each commit whose pull-request source branch
// carries a ticket reference. The slice is mutated in place and returned for
// chaining; length, order, and every other field are left untouched.
func Annotate(commits []*changelog.Commit, opts Options) []*changelog.Commit {
	for _, c := range commits {
		annotateCommit(c, opts)
	}
	return commits
}

func annotateCommit(c *changelog.Commit, opts Options) {
	id, skip := detect(c, opts.Rule)
	if skip != SkipNone {
		if opts.Verbose {
			logging.Debug("skipping commit", "hash", c.ShortHash(), "reason", string(skip))
		}
		return
	}

	link := ticket.FormatLink(id, opts.BaseURL, opts.Style)

	// The guards are plain substring checks, applied to each field
	// independently: a commit annotated in one field only still gets the
	// other one extended. Known limitation: an identifier quoted elsewhere
	// in the message also suppresses the append.
	if !strings.Contains(c.Message, id) {
		c.Message += link
	}
	if !strings.Contains(c.BareMessage, id) {
		c.BareMessage += link
	}

	if opts.Verbose {
		logging.Info("annotated commit", "hash", c.ShortHash(), "ticket", id)
	}
}

// SkipReason explains why a commit was left unannotated. These are expected
// outcomes, never errors.
type SkipReason string

const (
	SkipNone          SkipReason = ""
	SkipNoPullRequest SkipReason = "no pull request"
	SkipNoBranch      SkipReason = "no source branch"
	SkipNoMatch       SkipReason = "no ticket in branch"
)

// Outcome is the per-commit result of ticket detection, used for diagnostic
// reporting and the review UI. Inspect never mutates commits.
type Outcome struct {
	Hash   string
	Branch string
	Ticket string
	Skip   SkipReason
}

// Inspect reports what Annotate would detect for each commit, in input order.
func Inspect(commits []*changelog.Commit, opts Options) []Outcome {
	outcomes := make([]Outcome, 0, len(commits))
	for _, c := range commits {
		o := Outcome{Hash: c.Hash}
		if c.PullRequest != nil {
			o.Branch = c.PullRequest.SourceBranch
		}
		o.Ticket, o.Skip = detect(c, opts.Rule)
		outcomes = append(outcomes, o)
	}
	return outcomes
}

func detect(c *changelog.Commit, rule ticket.Rule) (string, SkipReason) {
	if c.PullRequest == nil {
		return "", SkipNoPullRequest
	}
	if c.PullRequest.SourceBranch == "" {
		return "", SkipNoBranch
	}
	id, ok := rule.Extract(c.PullRequest.SourceBranch)
	if !ok {
		return "", SkipNoMatch
	}
	return id, SkipNone
}
