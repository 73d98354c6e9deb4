package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"forum-reader/internal/infra/adapter/persistence/sqlstore"
)

// ConnectionConfig holds database connection pool configuration.
type ConnectionConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConnectionConfig returns the default connection pool configuration.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxOpenConns:    25,               // Maximum number of open connections
		MaxIdleConns:    10,               // Maximum number of idle connections
		ConnMaxLifetime: 1 * time.Hour,    // Maximum lifetime of a connection
		ConnMaxIdleTime: 30 * time.Minute, // Maximum idle time of a connection
	}
}

// Target is a resolved database/sql driver and data source.
type Target struct {
	Driver     string
	DataSource string
	Dialect    sqlstore.Dialect
}

// Resolve picks the driver for a DATABASE_URL. "sqlite:" and "file:" URLs
// open SQLite; anything else is handed to pgx.
func Resolve(dsn string) (Target, error) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case dsn == "":
		return Target{}, fmt.Errorf("DATABASE_URL not set")
	case strings.HasPrefix(dsn, "sqlite:"):
		path := strings.TrimPrefix(strings.TrimPrefix(dsn, "sqlite:"), "//")
		if path == "" {
			return Target{}, fmt.Errorf("sqlite DSN without a path: %q", dsn)
		}
		return Target{Driver: "sqlite3", DataSource: "file:" + path, Dialect: sqlstore.SQLite}, nil
	case strings.HasPrefix(dsn, "file:"):
		return Target{Driver: "sqlite3", DataSource: dsn, Dialect: sqlstore.SQLite}, nil
	default:
		return Target{Driver: "pgx", DataSource: dsn, Dialect: sqlstore.Postgres}, nil
	}
}

// Open creates and configures a new database connection pool for dsn and
// verifies it with a ping.
func Open(ctx context.Context, dsn string) (*sql.DB, sqlstore.Dialect, error) {
	target, err := Resolve(dsn)
	if err != nil {
		return nil, sqlstore.Dialect{}, err
	}

	db, err := sql.Open(target.Driver, target.DataSource)
	if err != nil {
		return nil, sqlstore.Dialect{}, fmt.Errorf("open %s: %w", target.Dialect.Name, err)
	}

	// Apply connection pool configuration
	cfg := getConnectionConfigFromEnv()
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	slog.Info("database connection pool configured",
		slog.String("dialect", target.Dialect.Name),
		slog.Int("max_open_conns", cfg.MaxOpenConns),
		slog.Int("max_idle_conns", cfg.MaxIdleConns),
		slog.Duration("conn_max_lifetime", cfg.ConnMaxLifetime),
		slog.Duration("conn_max_idle_time", cfg.ConnMaxIdleTime))

	// Verify connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, sqlstore.Dialect{}, fmt.Errorf("ping %s: %w", target.Dialect.Name, err)
	}

	slog.Info("database connection established successfully", slog.String("dialect", target.Dialect.Name))
	return db, target.Dialect, nil
}

// getConnectionConfigFromEnv reads connection pool configuration from environment variables.
// Falls back to default values if not set.
func getConnectionConfigFromEnv() ConnectionConfig {
	cfg := DefaultConnectionConfig()

	if maxOpen := os.Getenv("DB_MAX_OPEN_CONNS"); maxOpen != "" {
		if val, err := strconv.Atoi(maxOpen); err == nil && val > 0 {
			cfg.MaxOpenConns = val
		}
	}

	if maxIdle := os.Getenv("DB_MAX_IDLE_CONNS"); maxIdle != "" {
		if val, err := strconv.Atoi(maxIdle); err == nil && val > 0 {
			cfg.MaxIdleConns = val
		}
	}

	if lifetime := os.Getenv("DB_CONN_MAX_LIFETIME"); lifetime != "" {
		if val, err := time.ParseDuration(lifetime); err == nil && val > 0 {
			cfg.ConnMaxLifetime = val
		}
	}

	if idleTime := os.Getenv("DB_CONN_MAX_IDLE_TIME"); idleTime != "" {
		if val, err := time.ParseDuration(idleTime); err == nil && val > 0 {
			cfg.ConnMaxIdleTime = val
		}
	}

	return cfg
}
