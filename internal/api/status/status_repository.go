package status

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/FACorreiaa/go-tourism-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-tourism-planner/internal/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// listLimit caps GET /api/status.
const listLimit = 1000

var _ Repository = (*PostgresRepository)(nil)

type Repository interface {
	Save(ctx context.Context, check types.StatusCheck) error
	List(ctx context.Context) ([]types.StatusCheck, error)
}

// DB is the subset of *pgxpool.Pool the repository needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type PostgresRepository struct {
	logger *slog.Logger
	db     DB
}

func NewPostgresRepository(db DB, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		logger: logger,
		db:     db,
	}
}

func (r *PostgresRepository) observe(ctx context.Context, op string, start time.Time, err error) {
	m := metrics.Get()
	attrs := metric.WithAttributes(attribute.String("query", op))
	m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil {
		m.DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}

func (r *PostgresRepository) Save(ctx context.Context, check types.StatusCheck) (err error) {
	defer func(start time.Time) { r.observe(ctx, "status_checks.insert", start, err) }(time.Now())

	query := `
        INSERT INTO status_checks (id, client_name, timestamp)
        VALUES ($1, $2, $3)
    `
	if _, err = r.db.Exec(ctx, query, check.ID, check.ClientName, check.Timestamp); err != nil {
		return fmt.Errorf("failed to insert status check: %w", err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context) (checks []types.StatusCheck, err error) {
	defer func(start time.Time) { r.observe(ctx, "status_checks.list", start, err) }(time.Now())

	query := `
        SELECT id, client_name, timestamp
        FROM status_checks
        ORDER BY timestamp
        LIMIT $1
    `
	rows, err := r.db.Query(ctx, query, listLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query status checks: %w", err)
	}
	defer rows.Close()

	checks = []types.StatusCheck{}
	for rows.Next() {
		var c types.StatusCheck
		if err = rows.Scan(&c.ID, &c.ClientName, &c.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan status check: %w", err)
		}
		checks = append(checks, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate status checks: %w", err)
	}
	return checks, nil
}
