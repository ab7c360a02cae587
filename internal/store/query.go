// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/kgextract/pkg/types"
)

// Filter selects triples by exact field match. Empty fields match anything.
type Filter struct {
	Subject   string
	Predicate string
	Object    string

	// Limit bounds the result count. Zero uses the store default; negative
	// means no limit.
	Limit int
}

// IsEmpty reports whether the filter matches every triple.
func (f Filter) IsEmpty() bool {
	return f.Subject == "" && f.Predicate == "" && f.Object == ""
}

// Query returns the triples matching f ordered by subject, predicate, and
// object.
func (s *Store) Query(ctx context.Context, f Filter) ([]types.Triple, error) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT subject, predicate, object FROM triples WHERE 1=1`)
	if f.Subject != "" {
		qb.WriteString(` AND subject = ?`)
		args = append(args, f.Subject)
	}
	if f.Predicate != "" {
		qb.WriteString(` AND predicate = ?`)
		args = append(args, f.Predicate)
	}
	if f.Object != "" {
		qb.WriteString(` AND object = ?`)
		args = append(args, f.Object)
	}
	qb.WriteString(` ORDER BY subject, predicate, object`)

	limit := f.Limit
	if limit == 0 {
		limit = s.maxResults
	}
	if limit > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying triples: %w", err)
	}
	defer rows.Close()

	var out []types.Triple
	for rows.Next() {
		var t types.Triple
		if err := rows.Scan(&t.Subject, &t.Predicate, &t.Object); err != nil {
			return nil, fmt.Errorf("scanning triple: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// PredicateCount is one row of the predicate histogram.
type PredicateCount struct {
	Predicate string `json:"predicate" yaml:"predicate"`
	Count     int    `json:"count" yaml:"count"`
}

// Stats summarizes the store.
type Stats struct {
	Triples    int              `json:"triples" yaml:"triples"`
	Subjects   int              `json:"subjects" yaml:"subjects"`
	Runs       int              `json:"runs" yaml:"runs"`
	Documents  int              `json:"documents" yaml:"documents"`
	Predicates []PredicateCount `json:"predicates" yaml:"predicates"`
}

// Stats counts triples, distinct subjects, runs, and documents, and builds
// the predicate histogram (most frequent first).
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx,
		`SELECT (SELECT count(*) FROM triples),
		        (SELECT count(DISTINCT subject) FROM triples),
		        (SELECT count(*) FROM runs),
		        (SELECT count(*) FROM documents)`,
	).Scan(&st.Triples, &st.Subjects, &st.Runs, &st.Documents)
	if err != nil {
		return Stats{}, fmt.Errorf("counting store contents: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT predicate, count(*) AS n FROM triples GROUP BY predicate ORDER BY n DESC, predicate`)
	if err != nil {
		return Stats{}, fmt.Errorf("querying predicates: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pc PredicateCount
		if err := rows.Scan(&pc.Predicate, &pc.Count); err != nil {
			return Stats{}, fmt.Errorf("scanning predicate count: %w", err)
		}
		st.Predicates = append(st.Predicates, pc)
	}
	return st, rows.Err()
}

// RunRecord is a stored run.
type RunRecord struct {
	ID         string    `json:"id" yaml:"id"`
	Source     string    `json:"source" yaml:"source"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
	Extracted  int       `json:"extracted" yaml:"extracted"`
	Skipped    int       `json:"skipped" yaml:"skipped"`
	Failed     int       `json:"failed" yaml:"failed"`
	Added      int       `json:"added" yaml:"added"`
}

// Runs returns up to limit runs, most recent first.
func (s *Store) Runs(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = s.maxResults
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, started_at, finished_at, extracted, skipped, failed, added
		 FROM runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var (
			r                 RunRecord
			started, finished string
		)
		if err := rows.Scan(&r.ID, &r.Source, &started, &finished, &r.Extracted, &r.Skipped, &r.Failed, &r.Added); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, _ = time.Parse(timeFormat, started)
		r.FinishedAt, _ = time.Parse(timeFormat, finished)
		out = append(out, r)
	}
	return out, rows.Err()
}
