// Copyright (c) 2026 Vault Team
// Vault - key pair issuance service
// This source code is licensed under the MIT license found in the LICENSE file.

// package cipher seals key bundles into fernet tokens. Fernet gives
// authenticated symmetric encryption (AES-128-CBC plus HMAC-SHA256) with a
// random IV and URL-safe base64 framing, so a token is a single opaque
// string the transport can carry as-is.
package cipher

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fernet/fernet-go"

	"github.com/ogarcia-dev/Vault/internal/model"
	"github.com/ogarcia-dev/Vault/internal/security"
	"github.com/ogarcia-dev/Vault/util/slicest"
)

var (
	// ErrAuthentication is returned when a token is forged, tampered with,
	// or sealed under a key this cipher does not hold. No plaintext is ever
	// released alongside it.
	ErrAuthentication = errors.New("bundle token failed authentication")

	// ErrFormat is returned when a token authenticates but its payload is
	// not a well-formed key bundle.
	ErrFormat = errors.New("bundle payload is malformed")
)

// Cipher seals and opens key bundles. The first key is used for sealing;
// every key is tried when opening, so rotating means prepending a fresh key
// while tokens sealed under older keys stay readable.
type Cipher struct {
	keys []*fernet.Key
}

// New builds a Cipher from one or more base64 fernet keys. An absent or
// malformed key is a configuration fault and fails construction; it is never
// surfaced as a per-request error.
func New(keys ...security.Secret) (*Cipher, error) {
	if len(keys) == 0 {
		return nil, errors.New("cipher: at least one secret key is required")
	}
	parsed, err := slicest.MapXI(keys, func(i int, k security.Secret) (*fernet.Key, error) {
		fk, err := fernet.DecodeKey(k.Reveal())
		if err != nil {
			return nil, fmt.Errorf("cipher: key %d is not a valid fernet key: %w", i+1, err)
		}
		return fk, nil
	})
	if err != nil {
		return nil, err
	}
	return &Cipher{keys: parsed}, nil
}

// Encrypt seals a bundle into a fernet token. The canonical plaintext is the
// bundle's JSON encoding with its fixed field order. Tokens are
// non-deterministic: sealing the same bundle twice yields different tokens
// that both open to the same bundle.
func (c *Cipher) Encrypt(bundle model.KeyBundle) (string, error) {
	plaintext, err := json.Marshal(bundle)
	if err != nil {
		return "", fmt.Errorf("cipher: encode bundle: %w", err)
	}
	token, err := fernet.EncryptAndSign(plaintext, c.keys[0])
	if err != nil {
		return "", fmt.Errorf("cipher: seal bundle: %w", err)
	}
	return string(token), nil
}

// Decrypt opens a token and returns the bundle it carries. Every configured
// key is tried. A token that fails verification under all keys yields
// ErrAuthentication; a verified token that does not decode into a complete
// bundle yields ErrFormat.
func (c *Cipher) Decrypt(token string) (model.KeyBundle, error) {
	var bundle model.KeyBundle

	plaintext := fernet.VerifyAndDecrypt([]byte(token), 0, c.keys)
	if plaintext == nil {
		return bundle, ErrAuthentication
	}
	if err := json.Unmarshal(plaintext, &bundle); err != nil {
		return model.KeyBundle{}, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if bundle.PrivateKey == "" || bundle.PublicKey == "" ||
		bundle.RefreshPrivateKey == "" || bundle.RefreshPublicKey == "" {
		return model.KeyBundle{}, fmt.Errorf("%w: missing bundle fields", ErrFormat)
	}
	return bundle, nil
}

// GenerateKey returns a fresh random fernet key in its base64 encoding,
// suitable for the secret_keys configuration list.
func GenerateKey() (string, error) {
	var k fernet.Key
	if err := k.Generate(); err != nil {
		return "", fmt.Errorf("cipher: generate key: %w", err)
	}
	return k.Encode(), nil
}
