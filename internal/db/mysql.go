// Copyright (c) 2026 Vault Team
// Vault - key pair issuance service
// This source code is licensed under the MIT license found in the LICENSE file.

// This file contains the MySQL implementation of the database store.
package db

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/uptrace/bun"

	"github.com/ogarcia-dev/Vault/internal/model"
)

// MySQLStore is the MySQL implementation of the Store interface.
type MySQLStore struct {
	bun *bun.DB
}

func (s *MySQLStore) AppendKeyPair(rec *model.KeyPairRecord) error {
	err := AppendKeyPairBun(s.bun, rec)
	if err == nil {
		_ = s.LogAction("APPEND_KEY_PAIR", fmt.Sprintf("system: %s, id: %d", rec.SystemCode, rec.ID))
	}
	return err
}

func (s *MySQLStore) LatestKeyPair(systemCode string) (*model.KeyPairRecord, error) {
	return LatestKeyPairBun(s.bun, systemCode)
}

func (s *MySQLStore) ListKeyPairs() ([]model.KeyPairRecord, error) {
	return ListKeyPairsBun(s.bun)
}

func (s *MySQLStore) CountKeyPairs() (int, error) {
	return CountKeyPairsBun(s.bun)
}

func (s *MySQLStore) LogAction(action string, details string) error {
	return LogActionBun(s.bun, action, details)
}

func (s *MySQLStore) GetAllAuditLogEntries() ([]model.AuditLogEntry, error) {
	return GetAllAuditLogEntriesBun(s.bun)
}

func (s *MySQLStore) ExportDataForBackup() (*model.BackupData, error) {
	return ExportDataForBackupBun(s.bun)
}

func (s *MySQLStore) ImportDataFromBackup(backup *model.BackupData) error {
	err := ImportDataFromBackupBun(s.bun, backup)
	if err == nil {
		_ = s.LogAction("IMPORT_BACKUP", fmt.Sprintf("records: %d", len(backup.KeyPairs)))
	}
	return err
}

func (s *MySQLStore) Close() error {
	return s.bun.Close()
}
