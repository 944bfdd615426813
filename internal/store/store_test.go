package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "tracelink-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	st, err := New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to create store: %v", err)
	}

	cleanup := func() {
		st.Close()
		os.RemoveAll(tmpDir)
	}
	return st, cleanup
}

func TestRecordAndListRuns(t *testing.T) {
	st, cleanup := setupTestStore(t)
	defer cleanup()

	runID := uuid.NewString()
	run := &Run{
		ID:             runID,
		BaseURL:        "https://example.atlassian.net",
		Style:          "inline",
		CommitCount:    3,
		AnnotatedCount: 2,
	}
	annotations := []*Annotation{
		{CommitHash: "a1b2c3d", Branch: "QUIKS-674-fix", Ticket: "QUIKS-674"},
		{CommitHash: "d4e5f6a", Branch: "playg-1008-feature", Ticket: "PLAYG-1008"},
	}

	if err := st.RecordRun(run, annotations); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}

	t.Run("ListRuns", func(t *testing.T) {
		runs, err := st.ListRuns(10)
		if err != nil {
			t.Fatalf("ListRuns failed: %v", err)
		}
		if len(runs) != 1 {
			t.Fatalf("expected 1 run, got %d", len(runs))
		}
		if runs[0].ID != runID {
			t.Errorf("run ID = %q, want %q", runs[0].ID, runID)
		}
		if runs[0].AnnotatedCount != 2 {
			t.Errorf("annotated count = %d, want 2", runs[0].AnnotatedCount)
		}
		if runs[0].CreatedAt.IsZero() {
			t.Error("expected created_at to be set")
		}
	})

	t.Run("ListAnnotations", func(t *testing.T) {
		got, err := st.ListAnnotations(runID)
		if err != nil {
			t.Fatalf("ListAnnotations failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 annotations, got %d", len(got))
		}
		if got[0].Ticket != "QUIKS-674" || got[1].Ticket != "PLAYG-1008" {
			t.Errorf("unexpected order: %q, %q", got[0].Ticket, got[1].Ticket)
		}
	})

	t.Run("FindByTicket", func(t *testing.T) {
		got, err := st.FindByTicket("PLAYG-1008")
		if err != nil {
			t.Fatalf("FindByTicket failed: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("expected 1 annotation, got %d", len(got))
		}
		if got[0].CommitHash != "d4e5f6a" {
			t.Errorf("commit hash = %q", got[0].CommitHash)
		}
	})
}

func TestRecordRunEmptyAnnotations(t *testing.T) {
	st, cleanup := setupTestStore(t)
	defer cleanup()

	run := &Run{ID: uuid.NewString(), BaseURL: "https://example.atlassian.net", Style: "newline", CommitCount: 1}
	if err := st.RecordRun(run, nil); err != nil {
		t.Fatalf("RecordRun with no annotations failed: %v", err)
	}

	runs, err := st.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 1 || runs[0].AnnotatedCount != 0 {
		t.Errorf("unexpected runs: %+v", runs)
	}
}
