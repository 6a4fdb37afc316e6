// Copyright (c) 2026 Vault Team
// Vault - key pair issuance service
// This source code is licensed under the MIT license found in the LICENSE file.

// package keygen produces the asymmetric key pairs Vault hands out.
// Every bundle carries a primary pair and a refresh pair on NIST P-256.
// Private keys are serialized as PKCS#8 PEM, public keys as
// SubjectPublicKeyInfo PEM, and both are base64 wrapped for transport.
package keygen

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"

	"github.com/ogarcia-dev/Vault/internal/model"
)

// Generator is the signature of a bundle producer. The lifecycle manager
// takes one so tests can substitute deterministic or failing generators.
type Generator func() (model.KeyBundle, error)

// Generate creates a fresh bundle: two independent P-256 key pairs, each
// public key derived from its own private key.
func Generate() (model.KeyBundle, error) {
	var bundle model.KeyBundle

	primary, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return bundle, fmt.Errorf("generate primary key pair: %w", err)
	}
	refresh, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return bundle, fmt.Errorf("generate refresh key pair: %w", err)
	}

	if bundle.PrivateKey, err = encodePrivateKey(primary); err != nil {
		return model.KeyBundle{}, fmt.Errorf("encode primary private key: %w", err)
	}
	if bundle.PublicKey, err = encodePublicKey(&primary.PublicKey); err != nil {
		return model.KeyBundle{}, fmt.Errorf("encode primary public key: %w", err)
	}
	if bundle.RefreshPrivateKey, err = encodePrivateKey(refresh); err != nil {
		return model.KeyBundle{}, fmt.Errorf("encode refresh private key: %w", err)
	}
	if bundle.RefreshPublicKey, err = encodePublicKey(&refresh.PublicKey); err != nil {
		return model.KeyBundle{}, fmt.Errorf("encode refresh public key: %w", err)
	}

	return bundle, nil
}

// encodePrivateKey renders a private key as base64 over PKCS#8 PEM.
func encodePrivateKey(key *ecdsa.PrivateKey) (string, error) {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return "", err
	}
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
	return base64.StdEncoding.EncodeToString(pemBytes), nil
}

// encodePublicKey renders a public key as base64 over SubjectPublicKeyInfo PEM.
func encodePublicKey(key *ecdsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return "", err
	}
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return base64.StdEncoding.EncodeToString(pemBytes), nil
}
