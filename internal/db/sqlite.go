// Copyright (c) 2026 Vault Team
// Vault - key pair issuance service
// This source code is licensed under the MIT license found in the LICENSE file.

// package db provides the data access layer for Vault.
// This file contains the SQLite implementation of the database store.
package db // import "github.com/ogarcia-dev/Vault/internal/db"

import (
	"fmt"

	"github.com/uptrace/bun"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ogarcia-dev/Vault/internal/model"
)

// SqliteStore is the SQLite implementation of the Store interface.
type SqliteStore struct {
	bun *bun.DB
}

// AppendKeyPair inserts a new key pair record. Existing rows are never
// updated or removed.
func (s *SqliteStore) AppendKeyPair(rec *model.KeyPairRecord) error {
	err := AppendKeyPairBun(s.bun, rec)
	if err == nil {
		_ = s.LogAction("APPEND_KEY_PAIR", fmt.Sprintf("system: %s, id: %d", rec.SystemCode, rec.ID))
	}
	return err
}

// LatestKeyPair returns the newest record for a system code, or (nil, nil)
// when the system has no records yet.
func (s *SqliteStore) LatestKeyPair(systemCode string) (*model.KeyPairRecord, error) {
	return LatestKeyPairBun(s.bun, systemCode)
}

// ListKeyPairs returns all records, newest first.
func (s *SqliteStore) ListKeyPairs() ([]model.KeyPairRecord, error) {
	return ListKeyPairsBun(s.bun)
}

// CountKeyPairs reports how many records are stored.
func (s *SqliteStore) CountKeyPairs() (int, error) {
	return CountKeyPairsBun(s.bun)
}

// LogAction writes an audit log entry.
func (s *SqliteStore) LogAction(action string, details string) error {
	return LogActionBun(s.bun, action, details)
}

// GetAllAuditLogEntries retrieves the audit trail, newest first.
func (s *SqliteStore) GetAllAuditLogEntries() ([]model.AuditLogEntry, error) {
	return GetAllAuditLogEntriesBun(s.bun)
}

// ExportDataForBackup exports all data for a backup.
func (s *SqliteStore) ExportDataForBackup() (*model.BackupData, error) {
	return ExportDataForBackupBun(s.bun)
}

// ImportDataFromBackup replaces all data with the backup's contents.
func (s *SqliteStore) ImportDataFromBackup(backup *model.BackupData) error {
	err := ImportDataFromBackupBun(s.bun, backup)
	if err == nil {
		_ = s.LogAction("IMPORT_BACKUP", fmt.Sprintf("records: %d", len(backup.KeyPairs)))
	}
	return err
}

// Close releases the underlying database handle.
func (s *SqliteStore) Close() error {
	return s.bun.Close()
}
