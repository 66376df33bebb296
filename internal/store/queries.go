package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rotisserie/eris"

	"github.com/a3tai/casecite/internal/citation"
	"github.com/a3tai/casecite/internal/metadata"
	"github.com/a3tai/casecite/internal/reporters"
)

// Counts summarizes table sizes.
type Counts struct {
	Judgments int `json:"judgments"`
	Citations int `json:"citations"`
	Reporters int `json:"reporters"`
}

// Judgment returns the stored judgment with the given neutral citation.
func (s *Store) Judgment(ctx context.Context, neutral string) (metadata.Judgment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		j      metadata.Judgment
		fields [9]sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT neutral_citation, name, jurisdiction, judge, judgment_date,
			reported_in, court, vlex_document_id, link
		FROM main_paper WHERE neutral_citation = ?`, neutral,
	).Scan(&fields[0], &fields[1], &fields[2], &fields[3], &fields[4],
		&fields[5], &fields[6], &fields[7], &fields[8])
	if errors.Is(err, sql.ErrNoRows) {
		return j, ErrNotFound
	}
	if err != nil {
		return j, eris.Wrapf(err, "failed to read judgment %q", neutral)
	}

	j.NeutralCitation = nullable(fields[0])
	j.Name = nullable(fields[1])
	j.Jurisdiction = nullable(fields[2])
	j.Judge = nullable(fields[3])
	j.JudgmentDate = nullable(fields[4])
	j.ReportedIn = nullable(fields[5])
	j.Court = nullable(fields[6])
	j.DocumentID = nullable(fields[7])
	j.Link = nullable(fields[8])
	return j, nil
}

// Citations returns the citations of a judgment in insertion order.
func (s *Store) Citations(ctx context.Context, neutral string) ([]citation.Citation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT neutral_citation, citation_name, citation, reporter, jurisdiction, year
		FROM citations WHERE neutral_citation = ? ORDER BY rowid`, neutral)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to query citations of %q", neutral)
	}
	defer rows.Close()

	var out []citation.Citation
	for rows.Next() {
		var (
			c                            citation.Citation
			name, reporter, jurisdiction sql.NullString
			year                         sql.NullInt64
		)
		if err := rows.Scan(&c.NeutralCitation, &name, &c.Code, &reporter, &jurisdiction, &year); err != nil {
			return nil, eris.Wrap(err, "failed to scan citation")
		}
		c.Name = name.String
		c.Reporter = reporter.String
		c.Jurisdiction = jurisdiction.String
		if year.Valid {
			y := int(year.Int64)
			c.Year = &y
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Counts returns the number of judgments, citations and reporter rows.
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var c Counts
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM main_paper),
			(SELECT COUNT(*) FROM citations),
			(SELECT COUNT(*) FROM `+s.reporterTable+`)`,
	).Scan(&c.Judgments, &c.Citations, &c.Reporters)
	if err != nil {
		return c, eris.Wrap(err, "failed to count rows")
	}
	return c, nil
}

// ReplaceReporters swaps the whole reporter reference table for records.
func (s *Store) ReplaceReporters(ctx context.Context, records []reporters.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM `+s.reporterTable); err != nil {
		return eris.Wrapf(err, "failed to clear %s", s.reporterTable)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO `+s.reporterTable+`
			(Reporter, Reporter_cleaned, Count, Jurisdiction, NeedToCheck)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "failed to prepare reporter insert")
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.Reporter, r.Cleaned, r.Count, r.Jurisdiction, r.NeedToCheck); err != nil {
			return eris.Wrapf(err, "failed to insert reporter %q", r.Reporter)
		}
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// ReporterRecords returns the reporter reference table in insertion order.
func (s *Store) ReporterRecords(ctx context.Context) ([]reporters.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT Reporter, Reporter_cleaned, Count, Jurisdiction, NeedToCheck
		FROM `+s.reporterTable+` ORDER BY rowid`)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to query %s", s.reporterTable)
	}
	defer rows.Close()

	var out []reporters.Record
	for rows.Next() {
		var (
			r       reporters.Record
			cleaned sql.NullString
			count   sql.NullInt64
		)
		if err := rows.Scan(&r.Reporter, &cleaned, &count, &r.Jurisdiction, &r.NeedToCheck); err != nil {
			return nil, eris.Wrap(err, "failed to scan reporter")
		}
		r.Cleaned = cleaned.String
		r.Count = int(count.Int64)
		out = append(out, r)
	}
	return out, rows.Err()
}

// LoadLookup builds a reporter lookup from the reference table.
func (s *Store) LoadLookup(ctx context.Context) (*reporters.Lookup, error) {
	records, err := s.ReporterRecords(ctx)
	if err != nil {
		return nil, err
	}
	return reporters.NewLookup(records), nil
}

func nullable(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
