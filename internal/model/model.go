// Copyright (c) 2026 Vault Team
// Vault - key pair issuance service
// This source code is licensed under the MIT license found in the LICENSE file.

// package model defines the core data structures shared across Vault.
package model // import "github.com/ogarcia-dev/Vault/internal/model"

import (
	"fmt"
	"time"
)

// KeyBundle holds the four key strings issued to a client system. Each field
// is the base64 encoding of a PEM document: PKCS#8 for private keys,
// SubjectPublicKeyInfo for public keys. The JSON field order below is the
// canonical plaintext layout consumed by the cipher.
type KeyBundle struct {
	PrivateKey        string `json:"private_key"`
	PublicKey         string `json:"public_key"`
	RefreshPrivateKey string `json:"refresh_private_key"`
	RefreshPublicKey  string `json:"refresh_public_key"`
}

// KeyPairRecord is one row of the keys_pairs table: a bundle bound to the
// system that requested it. Records are append-only; issuance never mutates
// or deletes them, so the full key history of a system stays queryable.
type KeyPairRecord struct {
	ID         int64
	SystemCode string
	KeyBundle
	CreatedAt time.Time
}

// Age reports how long ago the record was created relative to now.
func (r KeyPairRecord) Age(now time.Time) time.Duration {
	return now.UTC().Sub(r.CreatedAt.UTC())
}

// String returns a log-safe description. Key material is never included.
func (r KeyPairRecord) String() string {
	return fmt.Sprintf("%s#%d", r.SystemCode, r.ID)
}

// AuditLogEntry records an administrative or issuance event.
type AuditLogEntry struct {
	ID        int64  `json:"id"`
	Timestamp string `json:"timestamp"`
	Username  string `json:"username"`
	Action    string `json:"action"`
	Details   string `json:"details"`
}
