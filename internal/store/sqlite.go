package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/napolitain/settlers-combat/internal/models"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS reports (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	name TEXT NOT NULL DEFAULT '',
	left_army TEXT NOT NULL,
	right_army TEXT NOT NULL,
	battles INTEGER NOT NULL,
	body TEXT NOT NULL
)`

// timeLayout is fixed width so that created_at sorts as text
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLite stores reports in a local SQLite file
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (and creates if needed) the database at path
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %s: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create reports table: %w", err)
	}
	if _, err := db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS reports_created_at ON reports (created_at)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create reports index: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Save inserts or replaces r
func (s *SQLite) Save(ctx context.Context, r *models.Report) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (id, created_at, name, left_army, right_army, battles, body)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   created_at = excluded.created_at, name = excluded.name,
		   left_army = excluded.left_army, right_army = excluded.right_army,
		   battles = excluded.battles, body = excluded.body`,
		r.ID, r.CreatedAt.UTC().Format(timeLayout), r.Name, r.Left, r.Right, len(r.Battles), string(body))
	if err != nil {
		return fmt.Errorf("failed to save report %s: %w", r.ID, err)
	}
	return nil
}

// Get loads the report with the given id
func (s *SQLite) Get(ctx context.Context, id string) (*models.Report, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM reports WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report %s: %w", id, err)
	}
	var r models.Report
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", id, err)
	}
	return &r, nil
}

// List returns the most recent reports first
func (s *SQLite) List(ctx context.Context, limit int) ([]models.ReportSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, name, left_army, right_army, battles
		 FROM reports ORDER BY created_at DESC, id LIMIT ?`, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var out []models.ReportSummary
	for rows.Next() {
		var (
			sum     models.ReportSummary
			created string
		)
		if err := rows.Scan(&sum.ID, &created, &sum.Name, &sum.Left, &sum.Right, &sum.Battles); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		if sum.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("report %s: bad timestamp %q: %w", sum.ID, created, err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Close closes the database
func (s *SQLite) Close() error {
	return s.db.Close()
}
