// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus persists a local collection of paper metadata in
// SQLite and serves full-text search over it. The corpus acts as an
// offline bibliographic provider: papers imported once can be matched
// against sentences without spending any API budget.
package corpus

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/tweakr/citation-engine/pkg/types"
)

// Store manages the corpus SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Open opens or creates the corpus database at cfg.Path, creating the
// schema when absent.
func Open(cfg types.CorpusConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("corpus path not configured")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating corpus directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening corpus database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating corpus schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			dedup_key TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			authors TEXT NOT NULL,
			year INTEGER,
			venue TEXT,
			url TEXT,
			doi TEXT,
			citations INTEGER,
			abstract TEXT
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='papers_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE papers_fts USING fts5(title, abstract, content=papers, content_rowid=rowid)`,
			`CREATE TRIGGER papers_ai AFTER INSERT ON papers BEGIN
				INSERT INTO papers_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
			END`,
			`CREATE TRIGGER papers_ad AFTER DELETE ON papers BEGIN
				INSERT INTO papers_fts(papers_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
			END`,
			`CREATE TRIGGER papers_au AFTER UPDATE ON papers BEGIN
				INSERT INTO papers_fts(papers_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
				INSERT INTO papers_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// ImportSummary holds counts from a corpus import run.
type ImportSummary struct {
	Imported int
	Updated  int
	Skipped  int
}

// Total returns the number of records processed.
func (s ImportSummary) Total() int {
	return s.Imported + s.Updated + s.Skipped
}

// ImportFile reads a YAML list of paper records from path and upserts
// them into the corpus, reporting per-record progress on w. Records
// without a title or without at least one author are skipped.
func (s *Store) ImportFile(ctx context.Context, path string, w io.Writer) (ImportSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("reading import file: %w", err)
	}

	var papers []types.PaperRecord
	if err := yaml.Unmarshal(data, &papers); err != nil {
		return ImportSummary{}, fmt.Errorf("parsing import file %s: %w", path, err)
	}
	return s.Import(ctx, papers, w)
}

// Import upserts paper records into the corpus. Identity is the
// record's dedup key, so re-importing an updated file refreshes
// existing rows instead of duplicating them.
func (s *Store) Import(ctx context.Context, papers []types.PaperRecord, w io.Writer) (ImportSummary, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (dedup_key, title, authors, year, venue, url, doi, citations, abstract)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(dedup_key) DO UPDATE SET
			title=excluded.title, authors=excluded.authors, year=excluded.year,
			venue=excluded.venue, url=excluded.url, doi=excluded.doi,
			citations=excluded.citations, abstract=excluded.abstract`)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	var summary ImportSummary
	for _, p := range papers {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		if p.Title == "" || !p.HasAuthors() {
			fmt.Fprintf(w, "skipped %q: missing title or authors\n", p.Title)
			summary.Skipped++
			continue
		}

		var exists int
		if err := tx.QueryRowContext(ctx,
			`SELECT count(*) FROM papers WHERE dedup_key = ?`, p.DedupKey(),
		).Scan(&exists); err != nil {
			return summary, fmt.Errorf("checking %q: %w", p.Title, err)
		}

		authorsJSON, _ := json.Marshal(p.Authors)
		if _, err := stmt.ExecContext(ctx,
			p.DedupKey(), p.Title, string(authorsJSON), p.Year,
			p.Venue, p.URL, p.DOI, p.Citations, p.Abstract,
		); err != nil {
			return summary, fmt.Errorf("upserting %q: %w", p.Title, err)
		}

		if exists > 0 {
			fmt.Fprintf(w, "updated  %s\n", p.Title)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "imported %s\n", p.Title)
			summary.Imported++
		}
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing import: %w", err)
	}

	fmt.Fprintf(w, "\nimported: %d, updated: %d, skipped: %d\n",
		summary.Imported, summary.Updated, summary.Skipped)
	return summary, nil
}

// Search runs a full-text query over titles and abstracts, ranked by
// FTS5 relevance. Query tokens are quoted so raw sentence text cannot
// inject FTS5 syntax; tokens are OR-ed to favor recall.
func (s *Store) Search(ctx context.Context, query string, maxResults int) ([]types.PaperRecord, error) {
	match := buildMatchQuery(query)
	if match == "" {
		return nil, nil
	}
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT p.title, p.authors, p.year, p.venue, p.url, p.doi, p.citations, p.abstract
		FROM papers_fts
		JOIN papers p ON p.rowid = papers_fts.rowid
		WHERE papers_fts MATCH ?
		ORDER BY papers_fts.rank
		LIMIT ?`,
		match, maxResults,
	)
	if err != nil {
		return nil, fmt.Errorf("querying corpus: %w", err)
	}
	defer rows.Close()

	var results []types.PaperRecord
	for rows.Next() {
		var (
			r           types.PaperRecord
			authorsJSON string
			year        sql.NullInt64
			venue       sql.NullString
			urlStr      sql.NullString
			doi         sql.NullString
			citations   sql.NullInt64
			abstract    sql.NullString
		)
		if err := rows.Scan(&r.Title, &authorsJSON, &year, &venue, &urlStr, &doi, &citations, &abstract); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		json.Unmarshal([]byte(authorsJSON), &r.Authors)
		r.Year = int(year.Int64)
		r.Venue = venue.String
		r.URL = urlStr.String
		r.DOI = doi.String
		r.Citations = int(citations.Int64)
		r.Abstract = abstract.String
		r.Provider = "corpus"
		results = append(results, r)
	}
	return results, rows.Err()
}

// Count returns how many papers the corpus holds.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM papers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting papers: %w", err)
	}
	return n, nil
}

// buildMatchQuery turns free text into a safe FTS5 MATCH expression.
func buildMatchQuery(query string) string {
	fields := strings.Fields(query)
	quoted := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ReplaceAll(f, `"`, "")
		if f == "" {
			continue
		}
		quoted = append(quoted, `"`+f+`"`)
	}
	return strings.Join(quoted, " OR ")
}
