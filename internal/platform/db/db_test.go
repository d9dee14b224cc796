package db

import (
	"path/filepath"
	"testing"
)

func TestConnectAndMigrateSQLite(t *testing.T) {
	database, err := Connect(DriverSQLite, filepath.Join(t.TempDir(), "books.db"))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	first, err := database.Migrate()
	if err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	if !first.Changed || first.Version != 1 || first.Dirty {
		t.Fatalf("unexpected first result %+v", first)
	}
	if !database.DB.Migrator().HasTable("books") {
		t.Fatal("expected books table")
	}

	second, err := database.Migrate()
	if err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	if second.Changed || second.Version != 1 {
		t.Fatalf("expected no-op second run, got %+v", second)
	}
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	if _, err := Connect("oracle", "dsn"); err == nil {
		t.Fatal("expected unsupported driver error")
	}
	if _, err := Connect(DriverSQLite, " "); err == nil {
		t.Fatal("expected missing dsn error")
	}
}

func TestCloseNilDatabase(t *testing.T) {
	var database *Database
	if err := database.Close(); err != nil {
		t.Fatalf("expected nil close to succeed, got %v", err)
	}
}
