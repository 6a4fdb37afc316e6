// Copyright (c) 2026 Vault Team
// Vault - key pair issuance service
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"errors"
	"os/user"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/ogarcia-dev/Vault/internal/model"
)

// KeyPairModel is a local mapping used by Bun for queries against keys_pairs.
type KeyPairModel struct {
	bun.BaseModel     `bun:"table:keys_pairs"`
	ID                int64     `bun:"id,pk,autoincrement"`
	SystemCode        string    `bun:"system_code"`
	PrivateKey        string    `bun:"private_key"`
	PublicKey         string    `bun:"public_key"`
	RefreshPrivateKey string    `bun:"refresh_private_key"`
	RefreshPublicKey  string    `bun:"refresh_public_key"`
	CreatedAt         time.Time `bun:"created_at"`
}

// AuditLogModel maps the audit_log table.
type AuditLogModel struct {
	bun.BaseModel `bun:"table:audit_log"`
	ID            int64  `bun:"id,pk,autoincrement"`
	Timestamp     string `bun:"timestamp"`
	Username      string `bun:"username"`
	Action        string `bun:"action"`
	Details       string `bun:"details"`
}

func keyPairModelToModel(m KeyPairModel) model.KeyPairRecord {
	return model.KeyPairRecord{
		ID:         m.ID,
		SystemCode: m.SystemCode,
		KeyBundle: model.KeyBundle{
			PrivateKey:        m.PrivateKey,
			PublicKey:         m.PublicKey,
			RefreshPrivateKey: m.RefreshPrivateKey,
			RefreshPublicKey:  m.RefreshPublicKey,
		},
		CreatedAt: m.CreatedAt.UTC(),
	}
}

func keyPairRecordToModel(r model.KeyPairRecord) KeyPairModel {
	return KeyPairModel{
		ID:                r.ID,
		SystemCode:        r.SystemCode,
		PrivateKey:        r.PrivateKey,
		PublicKey:         r.PublicKey,
		RefreshPrivateKey: r.RefreshPrivateKey,
		RefreshPublicKey:  r.RefreshPublicKey,
		CreatedAt:         r.CreatedAt.UTC(),
	}
}

// AppendKeyPairBun inserts a key pair record inside a single transaction and
// fills in the assigned row id. Existing rows are never touched.
func AppendKeyPairBun(bdb *bun.DB, rec *model.KeyPairRecord) error {
	ctx := context.Background()

	m := keyPairRecordToModel(*rec)
	m.ID = 0 // the store assigns identifiers
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	err := WithTx(ctx, bdb, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&m).Exec(ctx)
		return err
	})
	if err != nil {
		return MapDBError(err)
	}

	rec.ID = m.ID
	rec.CreatedAt = m.CreatedAt
	return nil
}

// LatestKeyPairBun returns the newest record for a system code, preferring
// the higher id when two rows share a created_at. A missing record is not an
// error: callers get (nil, nil) and decide what absence means.
func LatestKeyPairBun(bdb *bun.DB, systemCode string) (*model.KeyPairRecord, error) {
	ctx := context.Background()

	var m KeyPairModel
	err := bdb.NewSelect().Model(&m).
		Where("system_code = ?", systemCode).
		OrderExpr("created_at DESC").
		OrderExpr("id DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	rec := keyPairModelToModel(m)
	return &rec, nil
}

// ListKeyPairsBun returns every stored record, newest first.
func ListKeyPairsBun(bdb *bun.DB) ([]model.KeyPairRecord, error) {
	ctx := context.Background()

	var ms []KeyPairModel
	if err := bdb.NewSelect().Model(&ms).
		OrderExpr("created_at DESC").
		OrderExpr("id DESC").
		Scan(ctx); err != nil {
		return nil, err
	}

	out := make([]model.KeyPairRecord, 0, len(ms))
	for _, m := range ms {
		out = append(out, keyPairModelToModel(m))
	}
	return out, nil
}

// CountKeyPairsBun reports the number of stored key pair records.
func CountKeyPairsBun(bdb *bun.DB) (int, error) {
	ctx := context.Background()
	return bdb.NewSelect().Model((*KeyPairModel)(nil)).Count(ctx)
}

// GetAllAuditLogEntriesBun returns the audit trail, newest first.
func GetAllAuditLogEntriesBun(bdb *bun.DB) ([]model.AuditLogEntry, error) {
	ctx := context.Background()
	var am []AuditLogModel
	if err := bdb.NewSelect().Model(&am).OrderExpr("timestamp DESC").OrderExpr("id DESC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.AuditLogEntry, 0, len(am))
	for _, a := range am {
		out = append(out, model.AuditLogEntry{ID: a.ID, Timestamp: a.Timestamp, Username: a.Username, Action: a.Action, Details: a.Details})
	}
	return out, nil
}

// LogActionBun inserts an audit log entry with the current OS user.
func LogActionBun(bdb *bun.DB, action string, details string) error {
	ctx := context.Background()
	curUser, err := user.Current()
	username := "unknown"
	if err == nil {
		if parts := strings.Split(curUser.Username, `\`); len(parts) > 1 {
			username = parts[1]
		} else {
			username = curUser.Username
		}
	}
	_, err = ExecRaw(ctx, bdb, "INSERT INTO audit_log (timestamp, username, action, details) VALUES (?, ?, ?, ?)",
		time.Now().UTC(), username, action, details)
	return MapDBError(err)
}

// ExportDataForBackupBun exports all tables' data into a model.BackupData
// using a Bun transaction so the snapshot is consistent.
func ExportDataForBackupBun(bdb *bun.DB) (*model.BackupData, error) {
	ctx := context.Background()
	var backup *model.BackupData
	err := WithTx(ctx, bdb, func(ctx context.Context, tx bun.Tx) error {
		backup = &model.BackupData{SchemaVersion: 1}

		var pairs []KeyPairModel
		if err := tx.NewSelect().Model(&pairs).OrderExpr("id ASC").Scan(ctx); err != nil {
			return err
		}
		for _, p := range pairs {
			backup.KeyPairs = append(backup.KeyPairs, model.NewBackupKeyPair(keyPairModelToModel(p)))
		}

		var entries []AuditLogModel
		if err := tx.NewSelect().Model(&entries).OrderExpr("id ASC").Scan(ctx); err != nil {
			return err
		}
		for _, e := range entries {
			backup.AuditLogEntries = append(backup.AuditLogEntries, model.AuditLogEntry{ID: e.ID, Timestamp: e.Timestamp, Username: e.Username, Action: e.Action, Details: e.Details})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return backup, nil
}

// ImportDataFromBackupBun performs a full wipe-and-replace using a Bun transaction.
func ImportDataFromBackupBun(bdb *bun.DB, backup *model.BackupData) error {
	ctx := context.Background()
	return WithTx(ctx, bdb, func(ctx context.Context, tx bun.Tx) error {
		// Wipe tables
		for _, t := range []string{"audit_log", "keys_pairs"} {
			if _, err := ExecRaw(ctx, tx, "DELETE FROM "+t); err != nil {
				return err
			}
		}

		// Key pairs keep their original ids and timestamps.
		for _, p := range backup.KeyPairs {
			if _, err := ExecRaw(ctx, tx,
				"INSERT INTO keys_pairs (id, system_code, private_key, public_key, refresh_private_key, refresh_public_key, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
				p.ID, p.SystemCode, p.PrivateKey, p.PublicKey, p.RefreshPrivateKey, p.RefreshPublicKey, p.CreatedAt.UTC()); err != nil {
				return MapDBError(err)
			}
		}

		// Audit log: convert RFC3339 timestamps to time.Time when possible so MySQL accepts them.
		for _, e := range backup.AuditLogEntries {
			var ts interface{} = e.Timestamp
			if e.Timestamp != "" {
				if parsed, err := time.Parse(time.RFC3339, e.Timestamp); err == nil {
					ts = parsed
				} else {
					// Fallback: convert 'T' separator to space and strip trailing 'Z' if present.
					s := strings.Replace(e.Timestamp, "T", " ", 1)
					ts = strings.TrimSuffix(s, "Z")
				}
			}
			if _, err := ExecRaw(ctx, tx,
				"INSERT INTO audit_log (id, timestamp, username, action, details) VALUES (?, ?, ?, ?, ?)",
				e.ID, ts, e.Username, e.Action, e.Details); err != nil {
				return MapDBError(err)
			}
		}
		return nil
	})
}
