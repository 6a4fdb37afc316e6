// Copyright (c) 2026 Vault Team
// Vault - key pair issuance service
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"os"
	"testing"
	"time"

	"github.com/ogarcia-dev/Vault/internal/model"
)

func crossBackendDSN(t *testing.T, env string) string {
	t.Helper()
	dsn := os.Getenv(env)
	if dsn == "" {
		t.Skipf("%s not set; skipping integration test", env)
	}
	return dsn
}

func TestExportImport_RoundTrip(t *testing.T) {
	src, err := NewStoreFromDSN("sqlite", "file:test_export_src?mode=memory&cache=shared", true)
	if err != nil {
		t.Fatalf("NewStoreFromDSN(src) failed: %v", err)
	}
	defer func() { _ = src.Close() }()

	base := time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)
	recs := []*model.KeyPairRecord{
		{SystemCode: "BILLING", KeyBundle: testBundle(1), CreatedAt: base},
		{SystemCode: "CRM", KeyBundle: testBundle(2), CreatedAt: base.Add(time.Hour)},
	}
	for i, r := range recs {
		if err := src.AppendKeyPair(r); err != nil {
			t.Fatalf("AppendKeyPair(%d) failed: %v", i, err)
		}
	}
	if err := src.LogAction("CUSTOM_EVENT", "before export"); err != nil {
		t.Fatalf("LogAction failed: %v", err)
	}

	backup, err := src.ExportDataForBackup()
	if err != nil {
		t.Fatalf("ExportDataForBackup failed: %v", err)
	}
	if backup.SchemaVersion != 1 {
		t.Fatalf("expected schema version 1, got %d", backup.SchemaVersion)
	}
	if len(backup.KeyPairs) != 2 {
		t.Fatalf("expected 2 key pairs in backup, got %d", len(backup.KeyPairs))
	}
	if backup.KeyPairs[0].ID > backup.KeyPairs[1].ID {
		t.Fatalf("expected backup key pairs ordered by id ascending")
	}
	if len(backup.AuditLogEntries) == 0 {
		t.Fatalf("expected audit entries in backup")
	}

	dst, err := NewStoreFromDSN("sqlite", "file:test_export_dst?mode=memory&cache=shared", true)
	if err != nil {
		t.Fatalf("NewStoreFromDSN(dst) failed: %v", err)
	}
	defer func() { _ = dst.Close() }()

	// Pre-existing data in the target must not survive an import.
	stale := &model.KeyPairRecord{SystemCode: "STALE", KeyBundle: testBundle(9)}
	if err := dst.AppendKeyPair(stale); err != nil {
		t.Fatalf("AppendKeyPair(stale) failed: %v", err)
	}

	if err := dst.ImportDataFromBackup(backup); err != nil {
		t.Fatalf("ImportDataFromBackup failed: %v", err)
	}

	n, err := dst.CountKeyPairs()
	if err != nil {
		t.Fatalf("CountKeyPairs failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected import to replace existing rows, got %d records", n)
	}
	if got, err := dst.LatestKeyPair("STALE"); err != nil || got != nil {
		t.Fatalf("expected stale record to be gone, got %v (err %v)", got, err)
	}

	for _, want := range recs {
		got, err := dst.LatestKeyPair(want.SystemCode)
		if err != nil {
			t.Fatalf("LatestKeyPair(%s) failed: %v", want.SystemCode, err)
		}
		if got == nil {
			t.Fatalf("expected record for %s after import", want.SystemCode)
		}
		if got.ID != want.ID {
			t.Fatalf("expected original id %d preserved, got %d", want.ID, got.ID)
		}
		if got.KeyBundle != want.KeyBundle {
			t.Fatalf("bundle mismatch for %s: got %+v", want.SystemCode, got.KeyBundle)
		}
		if !got.CreatedAt.Equal(want.CreatedAt) {
			t.Fatalf("created_at mismatch for %s: want %v, got %v",
				want.SystemCode, want.CreatedAt, got.CreatedAt)
		}
	}

	entries, err := dst.GetAllAuditLogEntries()
	if err != nil {
		t.Fatalf("GetAllAuditLogEntries failed: %v", err)
	}
	foundCustom := false
	for _, e := range entries {
		if e.Action == "CUSTOM_EVENT" && e.Details == "before export" {
			foundCustom = true
		}
	}
	if !foundCustom {
		t.Fatalf("expected imported audit trail to contain the exported entries")
	}
}

func TestImport_EmptyBackupEmptiesStore(t *testing.T) {
	s, err := NewStoreFromDSN("sqlite", "file:test_import_empty?mode=memory&cache=shared", true)
	if err != nil {
		t.Fatalf("NewStoreFromDSN failed: %v", err)
	}
	defer func() { _ = s.Close() }()

	rec := &model.KeyPairRecord{SystemCode: "BILLING", KeyBundle: testBundle(1)}
	if err := s.AppendKeyPair(rec); err != nil {
		t.Fatalf("AppendKeyPair failed: %v", err)
	}

	if err := s.ImportDataFromBackup(&model.BackupData{SchemaVersion: 1}); err != nil {
		t.Fatalf("ImportDataFromBackup failed: %v", err)
	}

	n, err := s.CountKeyPairs()
	if err != nil {
		t.Fatalf("CountKeyPairs failed: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected an empty backup to empty the store, got %d records", n)
	}
}

// Cross-backend checks run only when the corresponding DSN environment
// variable is set. They are skipped by default to keep local developer test
// runs fast.
func TestCrossBackend_Postgres(t *testing.T) {
	dsn := crossBackendDSN(t, "POSTGRES_DSN")
	s, err := NewStoreFromDSN("postgres", dsn, true)
	if err != nil {
		t.Fatalf("postgres NewStoreFromDSN failed: %v", err)
	}
	defer func() { _ = s.Close() }()
	crossBackendSmoke(t, s)
}

func TestCrossBackend_MySQL(t *testing.T) {
	dsn := crossBackendDSN(t, "MYSQL_DSN")
	s, err := NewStoreFromDSN("mysql", dsn, true)
	if err != nil {
		t.Fatalf("mysql NewStoreFromDSN failed: %v", err)
	}
	defer func() { _ = s.Close() }()
	crossBackendSmoke(t, s)
}

func crossBackendSmoke(t *testing.T, s Store) {
	t.Helper()
	rec := &model.KeyPairRecord{SystemCode: "SMOKE", KeyBundle: testBundle(1)}
	if err := s.AppendKeyPair(rec); err != nil {
		t.Fatalf("AppendKeyPair failed: %v", err)
	}
	got, err := s.LatestKeyPair("SMOKE")
	if err != nil {
		t.Fatalf("LatestKeyPair failed: %v", err)
	}
	if got == nil || got.PrivateKey != rec.PrivateKey {
		t.Fatalf("round trip mismatch: %v", got)
	}
}
