// Copyright (c) 2026 Vault Team
// Vault - key pair issuance service
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"github.com/ogarcia-dev/Vault/internal/model"
)

// Store defines the interface for all database operations in Vault.
// This allows for multiple database backends to be implemented.
//
// The keys_pairs table is append-only: issuance inserts new rows and never
// mutates or deletes existing ones. Import is the one administrative
// exception and replaces the whole data set.
type Store interface {
	// Key pair methods
	AppendKeyPair(rec *model.KeyPairRecord) error
	LatestKeyPair(systemCode string) (*model.KeyPairRecord, error)
	ListKeyPairs() ([]model.KeyPairRecord, error)
	CountKeyPairs() (int, error)

	// Audit log methods
	LogAction(action string, details string) error
	GetAllAuditLogEntries() ([]model.AuditLogEntry, error)

	// Backup methods
	ExportDataForBackup() (*model.BackupData, error)
	ImportDataFromBackup(backup *model.BackupData) error

	Close() error
}
