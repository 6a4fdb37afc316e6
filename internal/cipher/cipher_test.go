// Copyright (c) 2026 Vault Team
// Vault - key pair issuance service
// This source code is licensed under the MIT license found in the LICENSE file.
package cipher

import (
	"errors"
	"strings"
	"testing"

	"github.com/fernet/fernet-go"

	"github.com/ogarcia-dev/Vault/internal/model"
	"github.com/ogarcia-dev/Vault/internal/security"
)

func testBundle() model.KeyBundle {
	return model.KeyBundle{
		PrivateKey:        "cHJpdmF0ZQ==",
		PublicKey:         "cHVibGlj",
		RefreshPrivateKey: "cmVmcmVzaC1wcml2YXRl",
		RefreshPublicKey:  "cmVmcmVzaC1wdWJsaWM=",
	}
}

func newTestCipher(t *testing.T) (*Cipher, security.Secret) {
	t.Helper()
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}
	c, err := New(security.FromString(key))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c, security.FromString(key)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c, _ := newTestCipher(t)
	bundle := testBundle()

	token, err := c.Encrypt(bundle)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if token == "" {
		t.Fatal("Encrypt returned empty token")
	}

	got, err := c.Decrypt(token)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if got != bundle {
		t.Errorf("round trip changed bundle: got %+v want %+v", got, bundle)
	}
}

func TestEncryptIsNotDeterministic(t *testing.T) {
	c, _ := newTestCipher(t)
	bundle := testBundle()

	first, err := c.Encrypt(bundle)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	second, err := c.Encrypt(bundle)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if first == second {
		t.Error("two encryptions produced identical tokens")
	}

	for _, token := range []string{first, second} {
		got, err := c.Decrypt(token)
		if err != nil {
			t.Fatalf("Decrypt failed: %v", err)
		}
		if got != bundle {
			t.Errorf("token did not open to original bundle")
		}
	}
}

func TestDecryptRejectsTamperedToken(t *testing.T) {
	c, _ := newTestCipher(t)

	token, err := c.Encrypt(testBundle())
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	// Flip one character in the middle of the token.
	mid := len(token) / 2
	flipped := byte('A')
	if token[mid] == 'A' {
		flipped = 'B'
	}
	tampered := token[:mid] + string(flipped) + token[mid+1:]

	if _, err := c.Decrypt(tampered); !errors.Is(err, ErrAuthentication) {
		t.Errorf("tampered token: got %v, want ErrAuthentication", err)
	}
}

func TestDecryptRejectsForeignKey(t *testing.T) {
	sealer, _ := newTestCipher(t)
	other, _ := newTestCipher(t)

	token, err := sealer.Encrypt(testBundle())
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if _, err := other.Decrypt(token); !errors.Is(err, ErrAuthentication) {
		t.Errorf("foreign key: got %v, want ErrAuthentication", err)
	}
}

func TestRotatedCipherStillOpensOldTokens(t *testing.T) {
	oldCipher, oldKey := newTestCipher(t)

	oldToken, err := oldCipher.Encrypt(testBundle())
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	freshKey, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}
	rotated, err := New(security.FromString(freshKey), oldKey)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// Old tokens remain readable under the rotated key list.
	if _, err := rotated.Decrypt(oldToken); err != nil {
		t.Errorf("rotated cipher rejected old token: %v", err)
	}

	// New tokens are sealed with the fresh key only.
	newToken, err := rotated.Encrypt(testBundle())
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if _, err := oldCipher.Decrypt(newToken); !errors.Is(err, ErrAuthentication) {
		t.Errorf("old cipher opened a token sealed by the rotated key: %v", err)
	}
}

func TestDecryptRejectsMalformedPayload(t *testing.T) {
	c, key := newTestCipher(t)

	fk, err := fernet.DecodeKey(key.Reveal())
	if err != nil {
		t.Fatalf("DecodeKey failed: %v", err)
	}

	cases := map[string][]byte{
		"not json":       []byte("not a bundle at all"),
		"missing fields": []byte(`{"private_key":"only-one"}`),
	}
	for name, payload := range cases {
		token, err := fernet.EncryptAndSign(payload, fk)
		if err != nil {
			t.Fatalf("EncryptAndSign failed: %v", err)
		}
		if _, err := c.Decrypt(string(token)); !errors.Is(err, ErrFormat) {
			t.Errorf("%s: got %v, want ErrFormat", name, err)
		}
	}
}

func TestNewRejectsInvalidKeys(t *testing.T) {
	if _, err := New(); err == nil {
		t.Error("New() with no keys should fail")
	}
	if _, err := New(security.FromString("definitely-not-a-key")); err == nil {
		t.Error("New() with a malformed key should fail")
	} else if !strings.Contains(err.Error(), "key 1") {
		t.Errorf("error should name the offending key position: %v", err)
	}
}
