package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/napolitain/settlers-combat/internal/models"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS reports (
	id TEXT PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL,
	name TEXT NOT NULL DEFAULT '',
	left_army TEXT NOT NULL,
	right_army TEXT NOT NULL,
	battles INTEGER NOT NULL,
	body JSONB NOT NULL
)`

// Postgres stores reports in a shared Postgres database
type Postgres struct {
	Pool *pgxpool.Pool
}

// OpenPostgres connects to dsn and makes sure the reports table exists
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create reports table: %w", err)
	}
	return &Postgres{Pool: pool}, nil
}

// Save inserts or replaces r
func (s *Postgres) Save(ctx context.Context, r *models.Report) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	_, err = s.Pool.Exec(ctx,
		`INSERT INTO reports (id, created_at, name, left_army, right_army, battles, body)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET
		   created_at = EXCLUDED.created_at, name = EXCLUDED.name,
		   left_army = EXCLUDED.left_army, right_army = EXCLUDED.right_army,
		   battles = EXCLUDED.battles, body = EXCLUDED.body`,
		r.ID, r.CreatedAt, r.Name, r.Left, r.Right, len(r.Battles), body)
	if err != nil {
		return fmt.Errorf("failed to save report %s: %w", r.ID, err)
	}
	return nil
}

// Get loads the report with the given id
func (s *Postgres) Get(ctx context.Context, id string) (*models.Report, error) {
	var body []byte
	err := s.Pool.QueryRow(ctx, `SELECT body FROM reports WHERE id = $1`, id).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report %s: %w", id, err)
	}
	var r models.Report
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", id, err)
	}
	return &r, nil
}

// List returns the most recent reports first
func (s *Postgres) List(ctx context.Context, limit int) ([]models.ReportSummary, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT id, created_at, name, left_army, right_army, battles
		 FROM reports ORDER BY created_at DESC, id LIMIT $1`, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var out []models.ReportSummary
	for rows.Next() {
		var sum models.ReportSummary
		if err := rows.Scan(&sum.ID, &sum.CreatedAt, &sum.Name, &sum.Left, &sum.Right, &sum.Battles); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Close releases the pool
func (s *Postgres) Close() error {
	s.Pool.Close()
	return nil
}
