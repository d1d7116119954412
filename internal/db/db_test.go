package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-sql-driver/mysql"

	"github.com/juegos-api/backend/internal/config"
)

var testDBCounter uint64

// NewTestDB opens a uniquely named in-memory SQLite database with the
// schema applied. It is closed automatically when the test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	id := atomic.AddUint64(&testDBCounter, 1)
	d, err := Open(context.Background(), sqliteConfig(fmt.Sprintf("file:dbtest%d?mode=memory&cache=shared", id)))
	if err != nil {
		t.Fatalf("NewTestDB: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func sqliteConfig(path string) config.DatabaseConfig {
	return config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		Path:         path,
		MaxOpenConns: 4,
		MaxIdleConns: 2,
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	d, err := Open(context.Background(), sqliteConfig(path))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()

	for _, tbl := range []string{"juegos", "tec"} {
		var name string
		err := d.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, tbl).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found: %v", tbl, err)
		}
	}

	if got := d.Stats().MaxOpenConnections; got != 4 {
		t.Errorf("MaxOpenConnections: got %d, want 4", got)
	}

	// Migrations are IF NOT EXISTS, so reopening the same file must succeed.
	d2, err := Open(context.Background(), sqliteConfig(path))
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	d2.Close()
}

func TestSchema_RequiresNombreAndPrecio(t *testing.T) {
	d := NewTestDB(t)

	if _, err := d.Exec(`INSERT INTO juegos (nombre, precio) VALUES (?, ?)`, "Zelda", nil); err == nil {
		t.Error("expected NOT NULL violation for missing precio")
	}
	res, err := d.Exec(`INSERT INTO juegos (nombre, precio) VALUES (?, ?)`, "Zelda", "69.99")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id, _ := res.LastInsertId(); id <= 0 {
		t.Errorf("expected server-assigned id, got %d", id)
	}
}

func TestDSN_MySQL(t *testing.T) {
	driver, dsn, err := DSN(config.Default().Database)
	if err != nil {
		t.Fatalf("DSN: %v", err)
	}
	if driver != "mysql" {
		t.Errorf("driver: got %q", driver)
	}
	for _, part := range []string{"root:2701@tcp(localhost:3306)/nintendo", "clientFoundRows=true"} {
		if !strings.Contains(dsn, part) {
			t.Errorf("dsn %q missing %q", dsn, part)
		}
	}
}

func TestDSN_UnknownDriver(t *testing.T) {
	if _, _, err := DSN(config.DatabaseConfig{Driver: "postgres"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestServerMessage(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1048, Message: "Column 'precio' cannot be null"})
	if got := ServerMessage(wrapped); got != "Column 'precio' cannot be null" {
		t.Errorf("ServerMessage: got %q", got)
	}
	if got := ServerMessage(errors.New("dial tcp: refused")); got != "" {
		t.Errorf("ServerMessage for non-mysql error: got %q", got)
	}
}
