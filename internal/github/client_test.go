package github

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/releasetrain/tracelink/internal/config"
)

func TestParseRepo(t *testing.T) {
	tests := []struct {
		in    string
		owner string
		repo  string
		ok    bool
	}{
		{"acme/widgets", "acme", "widgets", true},
		{"git@github.com:acme/widgets.git", "acme", "widgets", true},
		{"https://github.com/acme/widgets.git", "acme", "widgets", true},
		{"https://github.com/acme/widgets", "acme", "widgets", true},
		{"", "", "", false},
		{"just-a-name", "", "", false},
		{"a/b/c", "", "", false},
	}

	for _, tt := range tests {
		owner, repo, err := ParseRepo(tt.in)
		if tt.ok && err != nil {
			t.Errorf("ParseRepo(%q) failed: %v", tt.in, err)
			continue
		}
		if !tt.ok {
			if err == nil {
				t.Errorf("ParseRepo(%q) expected error", tt.in)
			}
			continue
		}
		if owner != tt.owner || repo != tt.repo {
			t.Errorf("ParseRepo(%q) = (%q, %q), want (%q, %q)", tt.in, owner, repo, tt.owner, tt.repo)
		}
	}
}

func TestCommitOverride(t *testing.T) {
	got := CommitOverride("feat: add export", "[FOND-1598](https://example.atlassian.net/browse/FOND-1598)")

	want := `<!--

BEGIN_COMMIT_OVERRIDE
feat: add export ([FOND-1598](https://example.atlassian.net/browse/FOND-1598))
END_COMMIT_OVERRIDE

-->`
	if got != want {
		t.Errorf("CommitOverride = %q, want %q", got, want)
	}

	if !HasCommitOverride(got) {
		t.Error("HasCommitOverride should detect the block it built")
	}
	if HasCommitOverride("plain PR body") {
		t.Error("HasCommitOverride false positive")
	}
}

func TestAppendOverride(t *testing.T) {
	if got := AppendOverride("", "BLOCK"); got != "BLOCK" {
		t.Errorf("empty body: got %q", got)
	}
	if got := AppendOverride("existing", "BLOCK"); got != "existing\n\nBLOCK" {
		t.Errorf("non-empty body: got %q", got)
	}
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(config.GitHubConfig{
		Repository: "acme/widgets",
		Token:      "test-token",
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	client.apiBase = srv.URL
	return client, srv
}

func TestFindPRForCommitReturnsFirstMerged(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/acme/widgets/commits/abc123/pulls" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected auth header %q", got)
		}
		w.Write([]byte(`[
		  {"number": 1, "title": "draft", "merged_at": null, "head": {"ref": "spike"}},
		  {"number": 2, "title": "real", "merged_at": "2026-08-01T10:00:00Z", "head": {"ref": "QUIKS-674-fix"}}
		]`))
	}))

	pr, err := client.FindPRForCommit("abc123")
	if err != nil {
		t.Fatalf("FindPRForCommit failed: %v", err)
	}
	if pr == nil {
		t.Fatal("expected a merged PR")
	}
	if pr.Number != 2 || pr.HeadBranch() != "QUIKS-674-fix" {
		t.Errorf("unexpected PR %+v", pr)
	}
}

func TestFindPRForCommitNoMergedPR(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))

	pr, err := client.FindPRForCommit("abc123")
	if err != nil {
		t.Fatalf("FindPRForCommit failed: %v", err)
	}
	if pr != nil {
		t.Errorf("expected nil PR, got %+v", pr)
	}
}

func TestUpdatePRBody(t *testing.T) {
	var gotBody string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "PATCH" || r.URL.Path != "/repos/acme/widgets/pulls/7" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		b, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		gotBody = string(b)
		w.Write([]byte(`{}`))
	}))

	if err := client.UpdatePRBody(7, "updated body"); err != nil {
		t.Fatalf("UpdatePRBody failed: %v", err)
	}
	if !strings.Contains(gotBody, `"body":"updated body"`) {
		t.Errorf("unexpected request body %q", gotBody)
	}
}

func TestUpdatePRBodySurfacesAPIError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
	}))

	err := client.UpdatePRBody(7, "body")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error should carry the status code: %v", err)
	}
}

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient(config.GitHubConfig{Repository: "acme/widgets"}); err == nil {
		t.Fatal("expected error without credentials")
	}
}
