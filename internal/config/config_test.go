// Copyright (c) 2026 Vault Team
// Vault - key pair issuance service
// This source code is licensed under the MIT license found in the LICENSE file.
package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cfg "github.com/ogarcia-dev/Vault/internal/config"
)

// chdir moves into dir for the duration of the test and restores the previous
// working directory on cleanup. testing.T.Chdir needs Go 1.24+, which the
// build toolchain does not guarantee.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}

// loadConfig runs LoadConfig and fails the test on anything other than the
// missing-file report, which is expected in isolated test directories.
func loadConfig(t *testing.T, cmd *cobra.Command, path *string) cfg.Config {
	t.Helper()
	c, err := cfg.LoadConfig[cfg.Config](cmd, cfg.Defaults(), path)
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	return c
}

func TestLoadConfigDefaults(t *testing.T) {
	// Run from an empty directory so no stray vault.yaml is picked up.
	chdir(t, t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c := loadConfig(t, &cobra.Command{}, nil)
	if c.Database.Type != "sqlite" {
		t.Errorf("unexpected default database type: %q", c.Database.Type)
	}
	if c.Database.Dsn != "file:vault.db" {
		t.Errorf("unexpected default dsn: %q", c.Database.Dsn)
	}
	if !c.Database.Provision {
		t.Errorf("expected provisioning enabled by default")
	}
	if c.Server.Listen != ":50051" {
		t.Errorf("unexpected default listen address: %q", c.Server.Listen)
	}
	if c.Server.MaxConcurrent != 4 {
		t.Errorf("unexpected default max_concurrent: %d", c.Server.MaxConcurrent)
	}
	if len(c.SecretKeys) != 0 {
		t.Errorf("expected no default secret keys, got %v", c.SecretKeys)
	}
}

func TestLoadConfigReportsMissingFile(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), nil)
	if err == nil {
		t.Fatalf("expected a missing-file report when no config file exists")
	}
	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ConfigFileNotFoundError, got: %T %v", err, err)
	}
	// The returned config is still usable, merged from the other sources.
	if c.Database.Type != "sqlite" {
		t.Errorf("config not merged alongside the report: %+v", c.Database)
	}
}

func TestLoadConfigEnvOverridesDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("VAULT_DATABASE_TYPE", "postgres")
	t.Setenv("VAULT_SECRET_KEYS", "keyA,keyB")

	c := loadConfig(t, &cobra.Command{}, nil)
	if c.Database.Type != "postgres" {
		t.Errorf("env override ignored, got %q", c.Database.Type)
	}
	if len(c.SecretKeys) != 2 || c.SecretKeys[0] != "keyA" || c.SecretKeys[1] != "keyB" {
		t.Errorf("comma-separated VAULT_SECRET_KEYS not split, got %v", c.SecretKeys)
	}
}

func TestLoadConfigFlagsWinOverEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("VAULT_DATABASE_DSN", "file:env.db")

	cmd := &cobra.Command{}
	cmd.Flags().String("database.dsn", "", "")
	if err := cmd.Flags().Set("database.dsn", "file:flag.db"); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	c := loadConfig(t, cmd, nil)
	if c.Database.Dsn != "file:flag.db" {
		t.Errorf("flag should win over env, got %q", c.Database.Dsn)
	}
}

func TestLoadConfigExplicitFile(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "custom.yaml")
	body := "database:\n  type: mysql\n  dsn: user:pass@/vault\nserver:\n  listen: \":6000\"\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	c, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), &path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if c.Database.Type != "mysql" || c.Database.Dsn != "user:pass@/vault" {
		t.Errorf("config file values not applied: %+v", c.Database)
	}
	if c.Server.Listen != ":6000" {
		t.Errorf("config file listen not applied: %q", c.Server.Listen)
	}
	// Values absent from the file keep their defaults.
	if c.Server.MaxConcurrent != 4 {
		t.Errorf("default max_concurrent lost: %d", c.Server.MaxConcurrent)
	}
}

func TestWriteConfigFileCreatesFileWithTightPerms(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	c := cfg.Config{}
	c.Database.Type = "sqlite"
	c.Database.Dsn = "file:vault.db"
	c.SecretKeys = []string{"abc"}

	if err := cfg.WriteConfigFile(&c, false); err != nil {
		t.Fatalf("WriteConfigFile failed: %v", err)
	}

	path, err := cfg.Path(false)
	if err != nil {
		t.Fatalf("Path failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file missing: %v", err)
	}
	if got := info.Mode().Perm(); got != 0o600 {
		t.Errorf("config file perms = %o, want 600", got)
	}
}
