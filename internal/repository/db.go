package repository

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	// database/sql drivers: pgx for postgres DSNs, modernc sqlite otherwise.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

func init() {
	// modernc registers as "sqlite", which sqlx does not know about.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

type Config struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	DialTimeout  time.Duration
}

// DriverForDSN picks the database/sql driver from the connection string.
func DriverForDSN(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "pgx"
	}
	return "sqlite"
}

// Open connects, pings, and applies the schema migration.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*sqlx.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	driver := DriverForDSN(cfg.DSN)
	logger.Info("connecting to database", "driver", driver, "dsn", cfg.DSN)

	db, err := sqlx.Open(driver, cfg.DSN)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	pingCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	if err := db.PingContext(pingCtx); err != nil {
		logger.Error("failed to ping database", "error", err)
		_ = db.Close()
		return nil, err
	}

	if err := Migrate(ctx, db); err != nil {
		logger.Error("failed to migrate database schema", "error", err)
		_ = db.Close()
		return nil, err
	}

	logger.Info("successfully connected to database")
	return db, nil
}

// Close closes the database connection gracefully
func Close(db *sqlx.DB, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Error("failed to close database", "error", err)
		return
	}
	logger.Info("database connection closed")
}
