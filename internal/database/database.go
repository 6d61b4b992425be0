// Package database contains the logic for establishing
// connections to the PostgreSQL database and the gateway
// every repository goes through.
//
// It handles:
//   - creating a pgx connection pool (pgxpool) from config
//   - wiring query tracing/logging (pgx tracelog)
//   - optional New Relic instrumentation (nrpgx5)
//   - transactional writes and classified errors (gateway.go)
//   - schema migrations (migrator.go)
package database

import (
	"context"
	"fmt"
	"time"

	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"

	"github.com/deppfellow/student-results/internal/config"
	loggerConfig "github.com/deppfellow/student-results/internal/logger"
)

// Pool is the part of *pgxpool.Pool the application uses.
//
// Keeping it an interface lets tests hand in a pgxmock pool.
type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

var _ Pool = (*pgxpool.Pool)(nil)

// Database wraps the connection pool and a logger.
// It is the Persistence Gateway: repositories only talk to the
// database through Select, Get, Exec and WithTx.
type Database struct {
	Pool Pool
	log  *zerolog.Logger

	// slowQuery is the threshold above which gateway calls log a warning.
	slowQuery time.Duration
}

// multiTracer allows chaining multiple tracers.
//
// pgx supports a single Tracer in ConnConfig. This adapter runs the
// New Relic tracer and the local SQL tracelog side by side.
type multiTracer struct {
	tracers []any
}

// TraceQueryStart implements pgx tracer interface.
//
// The context is threaded through every tracer so each can stash
// values for its TraceQueryEnd.
func (mt *multiTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryStart(context.Context, *pgx.Conn, pgx.TraceQueryStartData) context.Context
		}); ok {
			ctx = t.TraceQueryStart(ctx, conn, data)
		}
	}
	return ctx
}

// TraceQueryEnd implements pgx tracer interface.
func (mt *multiTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryEnd(context.Context, *pgx.Conn, pgx.TraceQueryEndData)
		}); ok {
			t.TraceQueryEnd(ctx, conn, data)
		}
	}
}

// DatabasePingTimeout defines the number of seconds to wait for a ping
// before considering the database "unreachable".
const DatabasePingTimeout = 10

// New creates a PostgreSQL connection pool with instrumentation.
//
// Behavior:
//   - Parse the DSN built from config into a pgxpool config
//   - Apply pool sizing and connection lifetimes
//   - Attach New Relic tracer if available
//   - In local env: attach SQL tracelogger (and chain tracers if both exist)
//   - Create pool, ping it, and return Database
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	pgxPoolConfig, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	pgxPoolConfig.MaxConns = cfg.Database.MaxConns
	pgxPoolConfig.MinConns = cfg.Database.MinConns
	pgxPoolConfig.MaxConnLifetime = time.Duration(cfg.Database.ConnMaxLifetime) * time.Second
	pgxPoolConfig.MaxConnIdleTime = time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second

	if loggerService != nil && loggerService.GetApplication() != nil {
		pgxPoolConfig.ConnConfig.Tracer = nrpgx5.NewTracer()
	}

	// SQL logging is very noisy, which is why it's only in local.
	if cfg.Primary.Env == "local" {
		globalLevel := logger.GetLevel()
		pgxLogger := loggerConfig.NewPgxLogger(globalLevel)

		localTracer := &tracelog.TraceLog{
			// pgxzero adapts zerolog to the tracelog.Logger interface.
			Logger:   pgxzero.NewLogger(pgxLogger),
			LogLevel: loggerConfig.GetPgxTraceLogLevel(globalLevel),
		}

		if pgxPoolConfig.ConnConfig.Tracer != nil {
			pgxPoolConfig.ConnConfig.Tracer = &multiTracer{
				tracers: []any{pgxPoolConfig.ConnConfig.Tracer, localTracer},
			}
		} else {
			pgxPoolConfig.ConnConfig.Tracer = localTracer
		}
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), pgxPoolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	database := NewWithPool(pool, logger)
	if cfg.Observability != nil {
		database.slowQuery = cfg.Observability.Logging.SlowQueryThreshold
	}

	// Ping with a timeout so startup fails fast if the DB is down.
	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().
		Str("host", cfg.Database.Host).
		Str("database", cfg.Database.Name).
		Int32("max_conns", cfg.Database.MaxConns).
		Msg("connected to the database")

	return database, nil
}

// NewWithPool wraps an existing pool. Tests use it with pgxmock.
func NewWithPool(pool Pool, logger *zerolog.Logger) *Database {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Database{
		Pool: pool,
		log:  logger,
	}
}

// Ping checks connectivity, used by the health endpoint.
func (db *Database) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Close closes the database connection pool.
func (db *Database) Close() error {
	db.log.Info().Msg("closing database connection pool")
	db.Pool.Close()
	return nil
}
