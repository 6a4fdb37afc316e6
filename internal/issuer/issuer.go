// Copyright (c) 2026 Vault Team
// Vault - key pair issuance service
// This source code is licensed under the MIT license found in the LICENSE file.

// Package issuer decides when a system gets a fresh key pair and when it
// keeps the one it already has. It owns the 24 hour validity window and is
// the only writer of key pair records.
package issuer

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/singleflight"

	"github.com/ogarcia-dev/Vault/internal/cipher"
	"github.com/ogarcia-dev/Vault/internal/db"
	"github.com/ogarcia-dev/Vault/internal/keygen"
	"github.com/ogarcia-dev/Vault/internal/logging"
	"github.com/ogarcia-dev/Vault/internal/model"
)

// KeyValidity is how long an issued bundle stays live. A bundle exactly this
// old is still served; anything older is replaced on the next request.
const KeyValidity = 24 * time.Hour

// maxSystemCodeLen matches the storage width of keys_pairs.system_code.
const maxSystemCodeLen = 10

// ErrInvalidSystemCode reports a missing or oversized system code.
var ErrInvalidSystemCode = errors.New("system code must be 1 to 10 characters")

// Clock provides an abstraction over time.Now for testability.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Manager hands out encrypted key bundles, generating and persisting a new
// pair when a system has none or its newest one has aged out.
type Manager struct {
	store db.Store
	ciph  *cipher.Cipher
	gen   keygen.Generator
	clock Clock

	group singleflight.Group
}

// New returns a Manager using the default generator and the system clock.
func New(store db.Store, c *cipher.Cipher) *Manager {
	return &Manager{store: store, ciph: c, gen: keygen.Generate, clock: systemClock{}}
}

// ValidateSystemCode checks the issuance precondition on a system code:
// non-empty and at most 10 characters, the width of the storage column.
func ValidateSystemCode(code string) error {
	if code == "" || utf8.RuneCountInString(code) > maxSystemCodeLen {
		return ErrInvalidSystemCode
	}
	return nil
}

// Issue returns the encrypted key bundle for systemCode, minting and
// persisting a fresh pair if the system has none or its newest one is older
// than KeyValidity. Concurrent calls for the same code share one generation;
// different codes proceed independently.
func (m *Manager) Issue(ctx context.Context, systemCode string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := ValidateSystemCode(systemCode); err != nil {
		return "", err
	}

	v, err, _ := m.group.Do(systemCode, func() (interface{}, error) {
		return m.issue(systemCode)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (m *Manager) issue(systemCode string) (string, error) {
	latest, err := m.store.LatestKeyPair(systemCode)
	if err != nil {
		return "", fmt.Errorf("load latest key pair: %w", err)
	}

	now := m.clock.Now().UTC()
	if latest != nil && latest.Age(now) <= KeyValidity {
		logging.Debugf("issuer: reusing %s (age %s)", latest, latest.Age(now).Round(time.Second))
		return m.ciph.Encrypt(latest.KeyBundle)
	}

	// No record yet, or the newest one aged out. Old rows are never touched;
	// the new pair simply becomes the latest.
	bundle, err := m.gen()
	if err != nil {
		return "", fmt.Errorf("generate key bundle: %w", err)
	}
	rec := &model.KeyPairRecord{SystemCode: systemCode, KeyBundle: bundle, CreatedAt: now}
	if err := m.store.AppendKeyPair(rec); err != nil {
		return "", fmt.Errorf("persist key pair: %w", err)
	}
	logging.Infof("issuer: generated key pair %s", rec)

	return m.ciph.Encrypt(bundle)
}
