package db

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/go-sql-driver/mysql" // mysql driver
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver

	"github.com/yigit/studentportal/internal/config"
)

// Database wraps the pooled connection handle shared by every repository.
type Database struct {
	Conn   *sqlx.DB
	Driver string
}

// driverName maps a configured driver onto the database/sql driver name.
func driverName(driver string) string {
	if driver == config.DriverPostgres {
		return "pgx"
	}
	return driver
}

// New wraps an already opened handle. Used by tests and by Open.
func New(conn *sqlx.DB, driver string) *Database {
	return &Database{Conn: conn, Driver: driver}
}

type poolSettings struct {
	maxOpen     int
	maxIdle     int
	maxLifetime time.Duration
}

// poolSettingsFor derives the pool shape from cfg. SQLite runs on exactly one
// connection that is never recycled, since closing it discards a :memory:
// database.
func poolSettingsFor(cfg *config.Config) (poolSettings, error) {
	if cfg.Database.Driver == config.DriverSQLite {
		return poolSettings{maxOpen: 1, maxIdle: 1}, nil
	}

	maxLifetime, err := time.ParseDuration(cfg.Database.ConnMaxLifetime)
	if err != nil {
		return poolSettings{}, fmt.Errorf("failed to parse connection max lifetime: %w", err)
	}
	return poolSettings{
		maxOpen:     cfg.Database.MaxOpenConns,
		maxIdle:     cfg.Database.MaxIdleConns,
		maxLifetime: maxLifetime,
	}, nil
}

// Open creates the connection pool described by cfg and verifies it with a ping.
func Open(cfg *config.Config) (*Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := sqlx.Open(driverName(cfg.Database.Driver), cfg.DataSourceName())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pool, err := poolSettingsFor(cfg)
	if err != nil {
		conn.Close()
		return nil, err
	}
	conn.SetMaxOpenConns(pool.maxOpen)
	conn.SetMaxIdleConns(pool.maxIdle)
	conn.SetConnMaxLifetime(pool.maxLifetime)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to establish database connection: %w", err)
	}

	return New(conn, cfg.Database.Driver), nil
}

// Builder returns a squirrel statement builder using the driver's placeholder style.
func (d *Database) Builder() squirrel.StatementBuilderType {
	if d.Driver == config.DriverPostgres {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	}
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}

// Ping checks that the pool can still reach the store.
func (d *Database) Ping(ctx context.Context) error {
	return d.Conn.PingContext(ctx)
}

// Close closing method
func (d *Database) Close() error {
	if d.Conn != nil {
		return d.Conn.Close()
	}
	return nil
}

// TransactionFn is a function that executes within a transaction
type TransactionFn func(ctx context.Context, tx *sqlx.Tx) error

// WithTransaction runs a function within a transaction
func (d *Database) WithTransaction(ctx context.Context, fn TransactionFn) error {
	_, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	tx, err := d.Conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
