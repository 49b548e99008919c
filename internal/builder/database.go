package builder

import (
	"context"
	"fmt"
	"time"

	"github.com/EdnondDantes/golosStroyki/internal/config"
	"github.com/avast/retry-go/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	dbConnectAttempts = 5
	dbConnectDelay    = time.Second
)

// poolConfig applies the DB_* settings and tags connections with the
// process name so both binaries are told apart in pg_stat_activity.
func poolConfig(cfg *config.Config, app string) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	pc.MaxConns = int32(cfg.DBMaxConns)
	pc.MinConns = int32(cfg.DBMinConns)
	pc.MaxConnLifetime = cfg.DBMaxConnLifetime
	pc.MaxConnIdleTime = cfg.DBMaxConnIdleTime
	pc.HealthCheckPeriod = cfg.DBHealthCheckPeriod
	pc.ConnConfig.RuntimeParams["application_name"] = "golos-stroyki-" + app

	return pc, nil
}

// openDatabase connects and pings, retrying while Postgres is still starting.
func openDatabase(ctx context.Context, cfg *config.Config, app string, logger *zap.Logger) (*pgxpool.Pool, error) {
	pc, err := poolConfig(cfg, app)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	err = retry.Do(
		func() error { return pool.Ping(ctx) },
		retry.Context(ctx),
		retry.Attempts(dbConnectAttempts),
		retry.Delay(dbConnectDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("database not ready", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("database connection pool established",
		zap.String("application_name", pc.ConnConfig.RuntimeParams["application_name"]),
		zap.String("session_storage", cfg.SessionCfg.Storage),
		zap.Int32("max_conns", pc.MaxConns),
		zap.Int32("min_conns", pc.MinConns),
		zap.Duration("max_conn_lifetime", pc.MaxConnLifetime),
	)

	return pool, nil
}
