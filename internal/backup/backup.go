// Copyright (c) 2026 Vault Team
// Vault - key pair issuance service
// This source code is licensed under the MIT license found in the LICENSE file.

// Package backup moves full store snapshots in and out of zstd-compressed
// JSON files, and between stores.
package backup

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/ogarcia-dev/Vault/internal/db"
	"github.com/ogarcia-dev/Vault/internal/model"
)

// schemaVersion is the newest backup layout this build understands.
const schemaVersion = 1

// Write exports everything in the store and writes it as compressed JSON.
func Write(st db.Store, w io.Writer) error {
	data, err := st.ExportDataForBackup()
	if err != nil {
		return fmt.Errorf("export backup: %w", err)
	}
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}
	defer func() { _ = zw.Close() }()
	enc := json.NewEncoder(zw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	return zw.Close()
}

// Restore reads a zstd-compressed JSON backup and replaces the store's
// contents with it.
func Restore(r io.Reader, st db.Store) error {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return fmt.Errorf("create zstd reader: %w", err)
	}
	defer zr.Close()
	var data model.BackupData
	if err := json.NewDecoder(zr).Decode(&data); err != nil {
		return fmt.Errorf("decode backup: %w", err)
	}
	if data.SchemaVersion > schemaVersion {
		return fmt.Errorf("backup schema version %d is newer than this build understands (%d)", data.SchemaVersion, schemaVersion)
	}
	if err := st.ImportDataFromBackup(&data); err != nil {
		return fmt.Errorf("import backup: %w", err)
	}
	return nil
}

// Migrate copies everything from the source store into a freshly provisioned
// target store, replacing whatever the target held.
func Migrate(st db.Store, targetType, targetDsn string) error {
	data, err := st.ExportDataForBackup()
	if err != nil {
		return fmt.Errorf("export backup: %w", err)
	}
	target, err := db.NewStoreFromDSN(targetType, targetDsn, true)
	if err != nil {
		return fmt.Errorf("init target store: %w", err)
	}
	defer func() { _ = target.Close() }()
	if err := target.ImportDataFromBackup(data); err != nil {
		return fmt.Errorf("import to target: %w", err)
	}
	return nil
}
