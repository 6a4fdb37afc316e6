// Copyright (c) 2026 Vault Team
// Vault - key pair issuance service
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func TestRunMigrationsSqlite(t *testing.T) {
	dsn := "file:test_migrations?mode=memory&cache=shared"
	dbConn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	defer func() { _ = dbConn.Close() }()

	if err := RunMigrations(dbConn, "sqlite"); err != nil {
		t.Fatalf("RunMigrations failed: %v", err)
	}

	rows, err := dbConn.Query("SELECT version FROM schema_migrations")
	if err != nil {
		t.Fatalf("query schema_migrations failed: %v", err)
	}
	defer func() { _ = rows.Close() }()

	var versions []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			t.Fatalf("scan version failed: %v", err)
		}
		versions = append(versions, v)
	}

	want := map[string]bool{
		"000001_create_initial_tables": true,
	}
	for _, v := range versions {
		delete(want, v)
	}
	if len(want) != 0 {
		t.Fatalf("missing expected migrations: %v", want)
	}
}

func TestRunMigrations_Idempotent(t *testing.T) {
	dsn := "file:test_migrations_idem?mode=memory&cache=shared"
	dbConn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	defer func() { _ = dbConn.Close() }()

	if err := RunMigrations(dbConn, "sqlite"); err != nil {
		t.Fatalf("first RunMigrations failed: %v", err)
	}
	if err := RunMigrations(dbConn, "sqlite"); err != nil {
		t.Fatalf("second RunMigrations failed: %v", err)
	}

	var n int
	if err := dbConn.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&n); err != nil {
		t.Fatalf("count schema_migrations failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected exactly one recorded migration after reruns, got %d", n)
	}
}

func TestRunDBMaintenanceSqlite_Smoke(t *testing.T) {
	dsn := "file:test_maint?mode=memory&cache=shared"
	// Keep a connection open so the shared in-memory database survives
	// between provisioning and maintenance.
	dbConn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	defer func() { _ = dbConn.Close() }()
	if err := RunMigrations(dbConn, "sqlite"); err != nil {
		t.Fatalf("RunMigrations failed: %v", err)
	}

	if err := RunDBMaintenance("sqlite", dsn); err != nil {
		t.Fatalf("RunDBMaintenance failed: %v", err)
	}
}
