/*
Package store persists judgments and their citations in SQLite.

TABLES:

	main_paper:       one row per judgment, keyed by neutral citation
	citations:        references from a judgment to other reports
	<reporter table>: reporter reference data, default jersey_reporters

UPSERT SEMANTICS:

	SaveDocument writes one judgment and all of its citations inside a single
	transaction. The judgment row is replaced on conflict. Citation rows are
	matched to existing rows by normalized citation code; a match is updated
	in place, anything else is inserted. Rows are never deleted, so running the
	same input twice leaves the tables unchanged.

CONCURRENCY:

	A sync.RWMutex serializes writers. The batch pipeline is sequential; the
	lock exists for the MCP server, whose tool handlers may run concurrently.
*/
package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rotisserie/eris"

	"github.com/a3tai/casecite/internal/citation"
	"github.com/a3tai/casecite/internal/metadata"
)

// DefaultReporterTable is the reporter reference table used when none is configured.
const DefaultReporterTable = "jersey_reporters"

var (
	// ErrMissingNeutralCitation is returned when a judgment has no neutral
	// citation and therefore no primary key.
	ErrMissingNeutralCitation = errors.New("judgment has no neutral citation")

	// ErrNotFound is returned by reads for an unknown neutral citation.
	ErrNotFound = errors.New("not found")

	identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Options tune Open.
type Options struct {
	// ReporterTable overrides DefaultReporterTable.
	ReporterTable string
}

// Store is a SQLite-backed judgment and reporter store.
type Store struct {
	db            *sql.DB
	mu            sync.RWMutex
	reporterTable string
}

// Open opens (creating if needed) the database at path and bootstraps the schema.
// Use ":memory:" for a throwaway database.
func Open(path string, opts Options) (*Store, error) {
	table := opts.ReporterTable
	if table == "" {
		table = DefaultReporterTable
	}
	if !identifier.MatchString(table) {
		return nil, eris.Errorf("invalid reporter table name %q", table)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, eris.Wrap(err, "failed to open database")
	}
	if path == ":memory:" {
		// Every new connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, reporterTable: table}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "failed to migrate database")
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ReporterTable returns the name of the reporter reference table.
func (s *Store) ReporterTable() string {
	return s.reporterTable
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS main_paper (
		neutral_citation TEXT PRIMARY KEY,
		name TEXT,
		jurisdiction TEXT,
		judge TEXT,
		judgment_date TEXT,
		reported_in TEXT,
		court TEXT,
		vlex_document_id TEXT,
		link TEXT
	);

	CREATE TABLE IF NOT EXISTS citations (
		neutral_citation TEXT NOT NULL REFERENCES main_paper(neutral_citation),
		citation_name TEXT,
		citation TEXT NOT NULL,
		reporter TEXT,
		jurisdiction TEXT,
		year INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_citations_neutral_citation
		ON citations(neutral_citation);

	CREATE TABLE IF NOT EXISTS ` + s.reporterTable + ` (
		Reporter TEXT NOT NULL,
		Reporter_cleaned TEXT,
		Count INTEGER,
		Jurisdiction TEXT NOT NULL,
		NeedToCheck TEXT NOT NULL,
		PRIMARY KEY (Reporter, Jurisdiction, NeedToCheck)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveResult counts what SaveDocument did with the citations it was given.
type SaveResult struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
}

// SaveDocument upserts a judgment and its citations in one transaction.
func (s *Store) SaveDocument(ctx context.Context, j metadata.Judgment, citations []citation.Citation) (SaveResult, error) {
	var result SaveResult
	if !j.HasNeutralCitation() {
		return result, ErrMissingNeutralCitation
	}
	neutral := j.Neutral()

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return result, eris.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO main_paper (
			neutral_citation, name, jurisdiction, judge, judgment_date,
			reported_in, court, vlex_document_id, link
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(neutral_citation) DO UPDATE SET
			name = excluded.name,
			jurisdiction = excluded.jurisdiction,
			judge = excluded.judge,
			judgment_date = excluded.judgment_date,
			reported_in = excluded.reported_in,
			court = excluded.court,
			vlex_document_id = excluded.vlex_document_id,
			link = excluded.link`,
		neutral, j.Name, j.Jurisdiction, j.Judge, j.JudgmentDate,
		j.ReportedIn, j.Court, j.DocumentID, j.Link,
	)
	if err != nil {
		return result, eris.Wrapf(err, "failed to upsert judgment %q", neutral)
	}

	existing, err := existingCodes(ctx, tx, neutral)
	if err != nil {
		return result, err
	}

	written := make(map[string]struct{}, len(citations))
	for _, c := range citations {
		key := citation.NormalizeCode(c.Code)
		if _, done := written[key]; done || key == "" {
			result.Skipped++
			continue
		}
		written[key] = struct{}{}

		if rowid, ok := existing[key]; ok {
			_, err = tx.ExecContext(ctx, `
				UPDATE citations
				SET citation_name = ?, citation = ?, reporter = ?, jurisdiction = ?, year = ?
				WHERE rowid = ?`,
				c.Name, c.Code, c.Reporter, c.Jurisdiction, c.Year, rowid,
			)
			if err != nil {
				return result, eris.Wrapf(err, "failed to update citation %q", c.Code)
			}
			result.Updated++
			continue
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO citations (neutral_citation, citation_name, citation, reporter, jurisdiction, year)
			VALUES (?, ?, ?, ?, ?, ?)`,
			neutral, c.Name, c.Code, c.Reporter, c.Jurisdiction, c.Year,
		)
		if err != nil {
			return result, eris.Wrapf(err, "failed to insert citation %q", c.Code)
		}
		result.Inserted++
	}

	if err := tx.Commit(); err != nil {
		return result, eris.Wrap(err, "failed to commit transaction")
	}
	return result, nil
}

// existingCodes maps the normalized code of each stored citation of a judgment
// to its rowid. The oldest row wins when legacy data holds duplicates.
func existingCodes(ctx context.Context, tx *sql.Tx, neutral string) (map[string]int64, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT rowid, citation FROM citations WHERE neutral_citation = ? ORDER BY rowid`, neutral)
	if err != nil {
		return nil, eris.Wrap(err, "failed to load existing citations")
	}
	defer rows.Close()

	codes := make(map[string]int64)
	for rows.Next() {
		var (
			rowid int64
			code  string
		)
		if err := rows.Scan(&rowid, &code); err != nil {
			return nil, eris.Wrap(err, "failed to scan citation")
		}
		key := citation.NormalizeCode(code)
		if _, ok := codes[key]; !ok {
			codes[key] = rowid
		}
	}
	return codes, rows.Err()
}
