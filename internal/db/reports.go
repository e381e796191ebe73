package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a requested report does not exist.
var ErrNotFound = errors.New("report not found")

// Store provides report persistence operations
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new store
func NewStore(db *DB) *Store {
	return &Store{pool: db.Pool()}
}

// NewStoreWithPool creates a store over an existing pool, used by tests.
func NewStoreWithPool(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Ping verifies database connectivity
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Report is one stored extraction result.
type Report struct {
	ID        uuid.UUID       `json:"id"`
	Package   string          `json:"package"`
	Root      string          `json:"root"`
	CommitSHA *string         `json:"commit_sha,omitempty"`
	Surface   json.RawMessage `json:"surface"`
	CreatedAt time.Time       `json:"created_at"`
}

// EnsureSchema creates the reports table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS surface_reports (
		id UUID PRIMARY KEY,
		package TEXT NOT NULL,
		root TEXT NOT NULL,
		commit_sha TEXT,
		surface JSONB NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_surface_reports_package ON surface_reports(package);
	`
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// SaveReport stores a surface report and returns it with its assigned ID.
func (s *Store) SaveReport(ctx context.Context, pkg, root string, commitSHA *string, surface json.RawMessage) (*Report, error) {
	report := &Report{
		ID:        uuid.New(),
		Package:   pkg,
		Root:      root,
		CommitSHA: commitSHA,
		Surface:   surface,
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO surface_reports (id, package, root, commit_sha, surface)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		report.ID, report.Package, report.Root, report.CommitSHA, report.Surface,
	)
	if err := row.Scan(&report.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}
	return report, nil
}

// GetReport fetches a single report by ID.
func (s *Store) GetReport(ctx context.Context, id uuid.UUID) (*Report, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, package, root, commit_sha, surface, created_at
		FROM surface_reports WHERE id = $1`, id)

	var report Report
	err := row.Scan(&report.ID, &report.Package, &report.Root, &report.CommitSHA,
		&report.Surface, &report.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return &report, nil
}

// ListReports returns the most recent reports for a package, newest first.
// An empty package lists across all packages.
func (s *Store) ListReports(ctx context.Context, pkg string, limit int) ([]Report, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, package, root, commit_sha, surface, created_at
		FROM surface_reports
		WHERE ($1 = '' OR package = $1)
		ORDER BY created_at DESC
		LIMIT $2`, pkg, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var report Report
		if err := rows.Scan(&report.ID, &report.Package, &report.Root,
			&report.CommitSHA, &report.Surface, &report.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}
