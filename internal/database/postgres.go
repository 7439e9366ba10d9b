package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/acme/faculty/internal/config"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// facultyTables are created by migrations 000001 and 000003.
var facultyTables = []string{"faculty", "dean", "course", "admins"}

// NewPostgresPool connects to the faculty database and refuses to start
// against a schema that has not been migrated.
func NewPostgresPool(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxDBConns

	connectCtx := ctx
	if cfg.DBConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.DBConnectTimeout
		var cancel context.CancelFunc
		connectCtx, cancel = context.WithTimeout(ctx, cfg.DBConnectTimeout)
		defer cancel()
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping %s: %w", poolCfg.ConnConfig.Host, err)
	}

	missing, err := missingTables(connectCtx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	if err := schemaError(missing); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info().
		Str("host", poolCfg.ConnConfig.Host).
		Str("database", poolCfg.ConnConfig.Database).
		Int32("max_conns", poolCfg.MaxConns).
		Strs("tables", facultyTables).
		Msg("PostgreSQL connected")

	return pool, nil
}

func missingTables(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	rows, err := pool.Query(ctx,
		`SELECT t FROM unnest($1::text[]) AS t WHERE to_regclass(t) IS NULL`, facultyTables)
	if err != nil {
		return nil, fmt.Errorf("inspect schema: %w", err)
	}
	missing, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("inspect schema: %w", err)
	}
	return missing, nil
}

func schemaError(missing []string) error {
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("schema not migrated, missing tables %s (run: migrate up)", strings.Join(missing, ", "))
}
