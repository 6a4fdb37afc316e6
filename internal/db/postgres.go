// Copyright (c) 2026 Vault Team
// Vault - key pair issuance service
// This source code is licensed under the MIT license found in the LICENSE file.

// This file contains the PostgreSQL implementation of the database store.
package db

import (
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/uptrace/bun"

	"github.com/ogarcia-dev/Vault/internal/model"
)

// PostgresStore is the PostgreSQL implementation of the Store interface.
type PostgresStore struct {
	bun *bun.DB
}

func (s *PostgresStore) AppendKeyPair(rec *model.KeyPairRecord) error {
	err := AppendKeyPairBun(s.bun, rec)
	if err == nil {
		_ = s.LogAction("APPEND_KEY_PAIR", fmt.Sprintf("system: %s, id: %d", rec.SystemCode, rec.ID))
	}
	return err
}

func (s *PostgresStore) LatestKeyPair(systemCode string) (*model.KeyPairRecord, error) {
	return LatestKeyPairBun(s.bun, systemCode)
}

func (s *PostgresStore) ListKeyPairs() ([]model.KeyPairRecord, error) {
	return ListKeyPairsBun(s.bun)
}

func (s *PostgresStore) CountKeyPairs() (int, error) {
	return CountKeyPairsBun(s.bun)
}

func (s *PostgresStore) LogAction(action string, details string) error {
	return LogActionBun(s.bun, action, details)
}

func (s *PostgresStore) GetAllAuditLogEntries() ([]model.AuditLogEntry, error) {
	return GetAllAuditLogEntriesBun(s.bun)
}

func (s *PostgresStore) ExportDataForBackup() (*model.BackupData, error) {
	return ExportDataForBackupBun(s.bun)
}

func (s *PostgresStore) ImportDataFromBackup(backup *model.BackupData) error {
	err := ImportDataFromBackupBun(s.bun, backup)
	if err == nil {
		_ = s.LogAction("IMPORT_BACKUP", fmt.Sprintf("records: %d", len(backup.KeyPairs)))
	}
	return err
}

func (s *PostgresStore) Close() error {
	return s.bun.Close()
}
