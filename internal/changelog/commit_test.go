package changelog

import (
	"strings"
	"testing"
)

func TestReadCommits(t *testing.T) {
	input := `[
	  {
	    "hash": "a1b2c3d4e5f6a7b8",
	    "message": "feat: add feature",
	    "bareMessage": "feat: add feature",
	    "pullRequest": {"number": 42, "sourceBranch": "PLAYG-1008-test-feature"}
	  },
	  {
	    "hash": "0011223344556677",
	    "message": "chore: bump deps",
	    "bareMessage": "chore: bump deps"
	  }
	]`

	commits, err := ReadCommits(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCommits failed: %v", err)
	}
	if len(commits) != 2 {
		t.Fatalf("expected 2 commits, got %d", len(commits))
	}

	if commits[0].PullRequest == nil {
		t.Fatal("expected pull request on first commit")
	}
	if commits[0].PullRequest.SourceBranch != "PLAYG-1008-test-feature" {
		t.Errorf("unexpected source branch %q", commits[0].PullRequest.SourceBranch)
	}
	if commits[1].PullRequest != nil {
		t.Error("expected nil pull request on second commit")
	}
}

func TestReadCommitsRejectsMalformedInput(t *testing.T) {
	if _, err := ReadCommits(strings.NewReader(`{"not": "a list"}`)); err == nil {
		t.Fatal("expected error for non-array input")
	}
}

func TestWriteCommitsOmitsAbsentPullRequest(t *testing.T) {
	var out strings.Builder
	commits := []*Commit{{Hash: "abc", Message: "fix: typo", BareMessage: "fix: typo"}}
	if err := WriteCommits(&out, commits); err != nil {
		t.Fatalf("WriteCommits failed: %v", err)
	}
	if strings.Contains(out.String(), "pullRequest") {
		t.Errorf("absent pull request should be omitted, got %s", out.String())
	}
}

func TestSummaryAndShortHash(t *testing.T) {
	c := &Commit{
		Hash:    "a1b2c3d4e5f6a7b8",
		Message: "feat: add feature\n\nlonger body text",
	}
	if c.Summary() != "feat: add feature" {
		t.Errorf("Summary() = %q", c.Summary())
	}
	if c.ShortHash() != "a1b2c3d" {
		t.Errorf("ShortHash() = %q", c.ShortHash())
	}
}

func TestRenderMarkdown(t *testing.T) {
	commits := []*Commit{
		{Hash: "a1b2c3d4e5f6", Message: "feat: add feature"},
		{Message: "fix: typo"},
	}
	got := RenderMarkdown("Changelog", commits)

	if !strings.HasPrefix(got, "# Changelog\n\n") {
		t.Errorf("missing title: %q", got)
	}
	if !strings.Contains(got, "- feat: add feature (a1b2c3d)\n") {
		t.Errorf("missing first entry: %q", got)
	}
	if !strings.Contains(got, "- fix: typo\n") {
		t.Errorf("missing second entry: %q", got)
	}
}
