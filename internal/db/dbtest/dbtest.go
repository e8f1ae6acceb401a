// Package dbtest opens throwaway databases for tests.
package dbtest

import (
	"context"
	"errors"
	"os"
	"testing"

	"gorm.io/gorm"

	"github.com/Skotchmaster/staff_records/internal/db"
	"github.com/Skotchmaster/staff_records/internal/models"
)

const sqliteMemoryDSN = "file::memory:?_pragma=foreign_keys(1)"

// NewSQLite returns a migrated in-memory database private to t.
func NewSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	gdb, err := db.Open(context.Background(), db.DriverSQLite, sqliteMemoryDSN)
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}

// NewPostgres connects to STAFF_TEST_DATABASE_URL and truncates all tables
// after the test. It skips the test when the variable is unset.
func NewPostgres(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("STAFF_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("STAFF_TEST_DATABASE_URL is required for postgres tests")
	}

	gdb, err := db.Open(context.Background(), db.DriverPostgres, dsn)
	if err != nil {
		t.Fatalf("failed to open postgres: %v", err)
	}
	t.Cleanup(func() {
		gdb.Exec("TRUNCATE TABLE employee_details, employee_masters, password_resets, users RESTART IDENTITY CASCADE")
		_ = db.Close(gdb)
	})
	return gdb
}

var ErrInjected = errors.New("injected failure")

// FailCreatesOn makes every INSERT into table fail with ErrInjected until the
// returned function is called.
func FailCreatesOn(t testing.TB, gdb *gorm.DB, table string) (restore func()) {
	t.Helper()

	name := "dbtest:fail_" + table
	err := gdb.Callback().Create().Before("gorm:create").Register(name, func(tx *gorm.DB) {
		if tx.Statement.Schema != nil && tx.Statement.Schema.Table == table {
			_ = tx.AddError(ErrInjected)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	removed := false
	restore = func() {
		if removed {
			return
		}
		removed = true
		_ = gdb.Callback().Create().Remove(name)
	}
	t.Cleanup(restore)
	return restore
}

// Tables lists the migrated tables, handy for asserting the schema.
func Tables(t testing.TB, gdb *gorm.DB) []string {
	t.Helper()

	out := make([]string, 0, len(models.All()))
	for _, m := range models.All() {
		stmt := &gorm.Statement{DB: gdb}
		if err := stmt.Parse(m); err != nil {
			t.Fatalf("parse model: %v", err)
		}
		out = append(out, stmt.Schema.Table)
	}
	return out
}
