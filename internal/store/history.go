package store

import "fmt"

// RecordRun inserts a run and its annotations in a single transaction.
func (s *Store) RecordRun(run *Run, annotations []*Annotation) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (id, base_url, style, commit_count, annotated_count) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.BaseURL, run.Style, run.CommitCount, run.AnnotatedCount,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, a := range annotations {
		_, err = tx.Exec(
			`INSERT INTO annotations (run_id, commit_hash, branch, ticket) VALUES (?, ?, ?, ?)`,
			run.ID, a.CommitHash, a.Branch, a.Ticket,
		)
		if err != nil {
			return fmt.Errorf("insert annotation: %w", err)
		}
	}

	return tx.Commit()
}

// ListRuns retrieves the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]*Run, error) {
	rows, err := s.db.Query(
		`SELECT id, base_url, style, commit_count, annotated_count, created_at FROM runs ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.BaseURL, &r.Style, &r.CommitCount, &r.AnnotatedCount, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, &r)
	}
	return runs, rows.Err()
}

// ListAnnotations retrieves the annotations recorded for a run.
func (s *Store) ListAnnotations(runID string) ([]*Annotation, error) {
	rows, err := s.db.Query(
		`SELECT run_id, commit_hash, branch, ticket, created_at FROM annotations WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var annotations []*Annotation
	for rows.Next() {
		var a Annotation
		if err := rows.Scan(&a.RunID, &a.CommitHash, &a.Branch, &a.Ticket, &a.CreatedAt); err != nil {
			return nil, err
		}
		annotations = append(annotations, &a)
	}
	return annotations, rows.Err()
}

// FindByTicket retrieves every annotation ever recorded for a ticket.
func (s *Store) FindByTicket(ticket string) ([]*Annotation, error) {
	rows, err := s.db.Query(
		`SELECT run_id, commit_hash, branch, ticket, created_at FROM annotations WHERE ticket = ? ORDER BY created_at DESC`,
		ticket,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var annotations []*Annotation
	for rows.Next() {
		var a Annotation
		if err := rows.Scan(&a.RunID, &a.CommitHash, &a.Branch, &a.Ticket, &a.CreatedAt); err != nil {
			return nil, err
		}
		annotations = append(annotations, &a)
	}
	return annotations, rows.Err()
}
