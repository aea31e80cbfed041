package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"coinrates/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

const createSnapshotsTable = `
CREATE TABLE IF NOT EXISTS rate_snapshots (
    id       BIGSERIAL   PRIMARY KEY,
    taken_at TIMESTAMPTZ NOT NULL,
    payload  JSONB       NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_rate_snapshots_taken_at
    ON rate_snapshots (taken_at DESC);
`

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// SnapshotRepository keeps a history of resolved snapshots, one row per
// successful resolution cycle.
type SnapshotRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewSnapshotRepository(pool PgxPool, tracer trace.Tracer) *SnapshotRepository {
	return &SnapshotRepository{pool: pool, tracer: tracer}
}

func (r *SnapshotRepository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "snapshot-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, createSnapshotsTable)
	return err
}

func (r *SnapshotRepository) Insert(ctx context.Context, snapshot *domain.RateSnapshot) error {
	_, span := r.tracer.Start(ctx, "snapshot-repo.insert")
	defer span.End()

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	takenAt := time.UnixMilli(snapshot.Timestamp).UTC()

	_, err = r.pool.Exec(ctx,
		`INSERT INTO rate_snapshots (taken_at, payload) VALUES ($1, $2)`,
		takenAt, payload,
	)
	return err
}

// Latest returns up to limit snapshots, newest first.
func (r *SnapshotRepository) Latest(ctx context.Context, limit int) ([]*domain.RateSnapshot, error) {
	_, span := r.tracer.Start(ctx, "snapshot-repo.latest")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT payload FROM rate_snapshots ORDER BY taken_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []*domain.RateSnapshot
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var snap domain.RateSnapshot
		if err := json.Unmarshal(payload, &snap); err != nil {
			return nil, fmt.Errorf("unmarshal snapshot row: %w", err)
		}
		snapshots = append(snapshots, &snap)
	}
	return snapshots, rows.Err()
}
