package dedup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"applypilot/internal/domain"
)

// Store owns the persisted ApplicationRecord set. It is the only component
// allowed to append to it. Every write is committed before the call returns,
// so a crash mid-run loses at most the in-flight attempt.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS applications (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  url TEXT NOT NULL,
  title TEXT NOT NULL DEFAULT '',
  company TEXT NOT NULL DEFAULT '',
  source TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL,
  date_applied TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_applications_applied_once
  ON applications(url) WHERE status = 'applied';
CREATE INDEX IF NOT EXISTS idx_applications_date ON applications(date_applied DESC);
`

// Open opens (or creates) the store at path.
func Open(path string) (*Store, error) {
	// modernc sqlite DSN: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open dedup store: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite wants 1 writer
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping dedup store: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate dedup store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// HasApplied reports whether url already has an applied record.
func (s *Store) HasApplied(ctx context.Context, url string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM applications WHERE url = ? AND status = ? LIMIT 1`,
		url, string(domain.StatusApplied),
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("dedup lookup %s: %w", url, err)
	}
	return true, nil
}

// RecordSuccess appends an applied record for the posting and commits it
// immediately. Idempotent: if an applied record already exists for the URL the
// unique index swallows the insert and the existing record stands.
func (s *Store) RecordSuccess(ctx context.Context, p domain.JobPosting) error {
	_, err := s.db.ExecContext(ctx, `
INSERT OR IGNORE INTO applications (url, title, company, source, status, date_applied)
VALUES (?, ?, ?, ?, ?, ?);`,
		p.URL, p.Title, p.Company, string(p.Source),
		string(domain.StatusApplied), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record success %s: %w", p.URL, err)
	}
	return nil
}

// RecordOutcome appends a failed/skipped record. These rows feed reporting
// only; dedup considers applied rows alone.
func (s *Store) RecordOutcome(ctx context.Context, p domain.JobPosting, status domain.ApplicationStatus) error {
	if status == domain.StatusApplied {
		return s.RecordSuccess(ctx, p)
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO applications (url, title, company, source, status, date_applied)
VALUES (?, ?, ?, ?, ?, ?);`,
		p.URL, p.Title, p.Company, string(p.Source),
		string(status), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record %s outcome %s: %w", status, p.URL, err)
	}
	return nil
}

// AppliedSince returns applied records on or after cutoff, oldest first.
func (s *Store) AppliedSince(ctx context.Context, cutoff time.Time) ([]domain.ApplicationRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT url, title, company, source, status, date_applied
FROM applications
WHERE status = ? AND date_applied >= ?
ORDER BY date_applied ASC;`,
		string(domain.StatusApplied), cutoff.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("list applied: %w", err)
	}
	defer rows.Close()

	var out []domain.ApplicationRecord
	for rows.Next() {
		var r domain.ApplicationRecord
		var src, dateStr string
		if err := rows.Scan(&r.URL, &r.Title, &r.Company, &src, &r.Status, &dateStr); err != nil {
			return nil, fmt.Errorf("scan applied row: %w", err)
		}
		r.Source = domain.Platform(src)
		r.DateApplied, _ = time.Parse(time.RFC3339, dateStr)
		out = append(out, r)
	}
	return out, rows.Err()
}
