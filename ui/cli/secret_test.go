// Copyright (c) 2026 Vault Team
// Vault - key pair issuance service
// This source code is licensed under the MIT license found in the LICENSE file.
package cli

import (
	"os"
	"strings"
	"testing"

	"github.com/ogarcia-dev/Vault/internal/cipher"
	"github.com/ogarcia-dev/Vault/internal/config"
)

func TestSecretRotateCmd(t *testing.T) {
	setupTestCLI(t)

	out, err := executeCommand(t, "secret", "rotate")
	if err != nil {
		t.Fatalf("secret rotate failed: %v", err)
	}
	if !strings.Contains(out, "New secret key installed. 1 key(s)") {
		t.Fatalf("expected one key in the ring, got:\n%s", out)
	}

	// The key must be persisted so the next run keeps it in the ring.
	path, err := config.Path(false)
	if err != nil {
		t.Fatalf("config.Path failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected a written config file: %v", err)
	}
	if !strings.Contains(string(data), "secret_keys") {
		t.Fatalf("expected secret_keys in config file, got:\n%s", data)
	}

	out, err = executeCommand(t, "secret", "rotate")
	if err != nil {
		t.Fatalf("second secret rotate failed: %v", err)
	}
	if !strings.Contains(out, "New secret key installed. 2 key(s)") {
		t.Fatalf("expected two keys in the ring, got:\n%s", out)
	}
}

func TestSecretImportCmd(t *testing.T) {
	setupTestCLI(t)

	key, err := cipher.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}

	out, err := executeCommand(t, "secret", "import", "--key", key)
	if err != nil {
		t.Fatalf("secret import failed: %v", err)
	}
	if !strings.Contains(out, "Secret key imported. 1 key(s)") {
		t.Fatalf("expected import confirmation, got:\n%s", out)
	}
}

func TestSecretImportCmd_RejectsGarbage(t *testing.T) {
	setupTestCLI(t)

	_, err := executeCommand(t, "secret", "import", "--key", "not-a-fernet-key")
	if err == nil {
		t.Fatalf("expected an error for an invalid key")
	}
	if !strings.Contains(err.Error(), "Not a valid secret key") {
		t.Fatalf("unexpected error: %v", err)
	}
}
