package db

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

var Pool *pgxpool.Pool

var openPool = pgxpool.New

// InitPostgres connects the process-wide pool. Snapshot history is an
// optional layer: with an empty DSN or a failed connection the pool stays
// nil and history writes are skipped.
func InitPostgres(ctx context.Context, dsn string) {
	if dsn == "" {
		log.Println("DATABASE_URL not set, snapshot history disabled")
		return
	}

	pool, err := openPool(ctx, dsn)
	if err != nil {
		log.Printf("postgres unreachable, snapshot history disabled: %v", err)
		return
	}
	if err := pool.Ping(ctx); err != nil {
		log.Printf("postgres ping failed, snapshot history disabled: %v", err)
		pool.Close()
		return
	}
	Pool = pool
	log.Println("Connected to Postgres")
}
