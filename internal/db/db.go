// Package db opens the bounded connection pool and applies the schema.
//
// ────────────────────────────────────────────────────────────────────
// LEARNING NOTE: one pool, not one connection per request
// ────────────────────────────────────────────────────────────────────
// *sql.DB is not a connection, it is a pool. Every ExecContext or
// QueryRowContext borrows a connection and gives it back when the call
// (or rows.Close) finishes, on success and on error alike. Capping
// MaxOpenConns means a burst of requests queues for a free connection
// instead of opening an unbounded number of sockets against MySQL.
//
// Two drivers are registered:
//   - "mysql"  github.com/go-sql-driver/mysql, the production database
//   - "sqlite" modernc.org/sqlite, pure Go, used for local runs and tests
//
// Both use "?" placeholders, so handler SQL is shared between them.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/juegos-api/backend/internal/config"
)

// pingTimeout bounds the connectivity check performed by Open.
const pingTimeout = 5 * time.Second

// Open builds the DSN for cfg, opens the pool, verifies it with a ping and
// runs the schema migrations for the configured dialect.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	driver, dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := migrate(ctx, db, driver); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// DSN returns the driver name and data source name for cfg.
func DSN(cfg config.DatabaseConfig) (driver, dsn string, err error) {
	switch cfg.Driver {
	case config.DriverMySQL:
		mc := mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
		mc.DBName = cfg.Name
		// Report matched rows rather than changed rows, so an UPDATE that
		// writes identical values is not mistaken for a missing row.
		mc.ClientFoundRows = true
		return config.DriverMySQL, mc.FormatDSN(), nil
	case config.DriverSQLite:
		return config.DriverSQLite, cfg.Path, nil
	default:
		return "", "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// ServerMessage returns the message reported by the MySQL server for err,
// or "" when err did not come from the server.
func ServerMessage(err error) string {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Message
	}
	return ""
}

// migrate runs each DDL statement of the dialect's schema individually;
// neither driver executes more than the first statement of a batch.
func migrate(ctx context.Context, db *sql.DB, driver string) error {
	schema := sqliteSchema
	if driver == config.DriverMySQL {
		schema = mysqlSchema
	}
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration statement failed: %w\nstatement: %s", err, stmt)
		}
	}
	return nil
}

// juegos  the catalogue exposed by the CRUD endpoints.
// tec     written only by the form and multipart create endpoints.
const mysqlSchema = `
CREATE TABLE IF NOT EXISTS juegos (
    id     INT AUTO_INCREMENT PRIMARY KEY,
    nombre VARCHAR(255) NOT NULL,
    precio DECIMAL(10,2) NOT NULL
);

CREATE TABLE IF NOT EXISTS tec (
    id       INT PRIMARY KEY,
    nombre   VARCHAR(255) NOT NULL,
    apellido VARCHAR(255) NOT NULL
);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS juegos (
    id     INTEGER PRIMARY KEY AUTOINCREMENT,
    nombre TEXT NOT NULL,
    precio TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tec (
    id       INTEGER PRIMARY KEY,
    nombre   TEXT NOT NULL,
    apellido TEXT NOT NULL
);
`
