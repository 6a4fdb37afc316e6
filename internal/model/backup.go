// Copyright (c) 2026 Vault Team
// Vault - key pair issuance service
// This source code is licensed under the MIT license found in the LICENSE file.
package model

import "time"

// BackupData is a container for all data exported from a store. It is what
// backup files, restores and store-to-store migrations carry.
type BackupData struct {
	// SchemaVersion helps in handling migrations during restore.
	SchemaVersion int `json:"schema_version"`

	// Data from each table.
	KeyPairs        []BackupKeyPair `json:"keys_pairs"`
	AuditLogEntries []AuditLogEntry `json:"audit_log_entries"`
}

// BackupKeyPair is the JSON shape of a KeyPairRecord inside a backup file.
// Key fields are flattened next to the record metadata so a backup stays
// readable after decompression.
type BackupKeyPair struct {
	ID                int64     `json:"id"`
	SystemCode        string    `json:"system_code"`
	PrivateKey        string    `json:"private_key"`
	PublicKey         string    `json:"public_key"`
	RefreshPrivateKey string    `json:"refresh_private_key"`
	RefreshPublicKey  string    `json:"refresh_public_key"`
	CreatedAt         time.Time `json:"created_at"`
}

// ToRecord converts the backup shape back into a KeyPairRecord.
func (b BackupKeyPair) ToRecord() KeyPairRecord {
	return KeyPairRecord{
		ID:         b.ID,
		SystemCode: b.SystemCode,
		KeyBundle: KeyBundle{
			PrivateKey:        b.PrivateKey,
			PublicKey:         b.PublicKey,
			RefreshPrivateKey: b.RefreshPrivateKey,
			RefreshPublicKey:  b.RefreshPublicKey,
		},
		CreatedAt: b.CreatedAt,
	}
}

// NewBackupKeyPair converts a KeyPairRecord into its backup shape.
func NewBackupKeyPair(r KeyPairRecord) BackupKeyPair {
	return BackupKeyPair{
		ID:                r.ID,
		SystemCode:        r.SystemCode,
		PrivateKey:        r.PrivateKey,
		PublicKey:         r.PublicKey,
		RefreshPrivateKey: r.RefreshPrivateKey,
		RefreshPublicKey:  r.RefreshPublicKey,
		CreatedAt:         r.CreatedAt,
	}
}
