package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/opscart/es3-estimator/pkg/models"
)

//go:embed migrations/*.sql
var postgresFS embed.FS

// PostgresStore implements Store interface using PostgreSQL
type PostgresStore struct {
	db  *sql.DB
	dsn string
}

// NewPostgresStore creates a new PostgreSQL store
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{
		db:  db,
		dsn: dsn,
	}

	// Run migrations
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// migrate runs database migrations
func (s *PostgresStore) migrate() error {
	schema, err := postgresFS.ReadFile("migrations/001_postgres_schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}

	if _, err := s.db.Exec(string(schema)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// SaveReport persists a cost report and returns its ID
func (s *PostgresStore) SaveReport(ctx context.Context, report *models.CostReport) (string, error) {
	id := uuid.New().String()

	payload, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	query := `
		INSERT INTO cost_reports (
			id, cluster_id, window_start, window_end,
			generated_at, total_monthly_cost_usd, workload_profile, report
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = s.db.ExecContext(ctx, query,
		id, report.ClusterID, report.Window.Start, report.Window.End,
		report.GeneratedAt, report.TotalMonthlyCost, report.WorkloadProfile, payload,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert report: %w", err)
	}

	return id, nil
}

// GetReport retrieves a report by ID
func (s *PostgresStore) GetReport(ctx context.Context, id string) (*models.CostReport, error) {
	query := `SELECT report FROM cost_reports WHERE id = $1`

	var payload []byte
	err := s.db.QueryRowContext(ctx, query, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("report not found: %s", id)
	}
	if err != nil {
		return nil, err
	}

	var report models.CostReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}

	return &report, nil
}

// ListReports returns the most recent reports, optionally filtered by cluster
func (s *PostgresStore) ListReports(ctx context.Context, clusterID string, limit int) ([]*StoredReport, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, cluster_id, generated_at, total_monthly_cost_usd, COALESCE(workload_profile, '')
		FROM cost_reports
		WHERE ($1 = '' OR cluster_id = $1)
		ORDER BY generated_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, clusterID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var reports []*StoredReport
	for rows.Next() {
		var r StoredReport
		var generatedAt time.Time
		if err := rows.Scan(&r.ID, &r.ClusterID, &generatedAt, &r.TotalMonthlyCost, &r.WorkloadProfile); err != nil {
			return nil, err
		}
		r.GeneratedAt = generatedAt.Format(time.RFC3339)
		reports = append(reports, &r)
	}

	return reports, rows.Err()
}

// Ping checks database connectivity
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
