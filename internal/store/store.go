// Package store persists simulation reports.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/napolitain/settlers-combat/internal/models"
)

// ErrNotFound is returned when no report has the requested id
var ErrNotFound = errors.New("report not found")

// Store keeps simulation reports
type Store interface {
	Save(ctx context.Context, r *models.Report) error
	Get(ctx context.Context, id string) (*models.Report, error)
	List(ctx context.Context, limit int) ([]models.ReportSummary, error)
	Close() error
}

// DefaultLimit bounds List when the caller passes a non-positive limit
const DefaultLimit = 50

// Open picks the Postgres store when postgresURL is set and the SQLite
// store at sqlitePath otherwise.
func Open(ctx context.Context, sqlitePath, postgresURL string) (Store, error) {
	if postgresURL != "" {
		return OpenPostgres(ctx, postgresURL)
	}
	if strings.TrimSpace(sqlitePath) == "" {
		return nil, fmt.Errorf("no database configured")
	}
	return OpenSQLite(ctx, sqlitePath)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
