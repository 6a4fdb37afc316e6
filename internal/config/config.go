// Copyright (c) 2026 Vault Team
// Vault - key pair issuance service
// This source code is licensed under the MIT license found in the LICENSE file.

// package config loads and writes Vault's configuration. Values are merged
// from defaults, a vault.yaml config file, VAULT_* environment variables and
// command line flags, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// DatabaseConfig selects the storage backend holding the keys_pairs table.
type DatabaseConfig struct {
	// Type is one of "sqlite", "postgres" or "mysql".
	Type string `mapstructure:"type" yaml:"type"`
	// Dsn is the driver-specific data source name.
	Dsn string `mapstructure:"dsn" yaml:"dsn"`
	// Provision runs the embedded schema migrations at startup when true.
	// Disable it when the schema is managed out of band.
	Provision bool `mapstructure:"provision" yaml:"provision"`
}

// ServerConfig tunes the gRPC listener.
type ServerConfig struct {
	// Listen is the host:port the issuance service binds to.
	Listen string `mapstructure:"listen" yaml:"listen"`
	// MaxConcurrent bounds the number of requests served at once.
	MaxConcurrent int `mapstructure:"max_concurrent" yaml:"max_concurrent"`
}

// Config is the root configuration for Vault.
type Config struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	// SecretKeys holds the base64 fernet keys protecting issued bundles.
	// The first key encrypts; every listed key may decrypt, so rotation is
	// done by prepending a fresh key. VAULT_SECRET_KEYS accepts a
	// comma-separated list.
	SecretKeys []string `mapstructure:"secret_keys" yaml:"secret_keys"`
	Language   string   `mapstructure:"language" yaml:"language"`
	Debug      bool     `mapstructure:"debug" yaml:"debug"`
}

// Defaults returns the baseline settings applied before any config file,
// environment variable or flag is read.
func Defaults() map[string]any {
	return map[string]any{
		"database.type":         "sqlite",
		"database.dsn":          "file:vault.db",
		"database.provision":    true,
		"server.listen":         ":50051",
		"server.max_concurrent": 4,
		"secret_keys":           []string{},
		"language":              "en",
		"debug":                 false,
	}
}

// Path returns the full path for the configuration file.
func Path(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		// System-wide configuration paths
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Vault")
		default: // Linux, macOS, etc.
			configDir = "/etc/vault"
		}
	} else {
		// User-specific configuration paths
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "vault")
	}

	return filepath.Join(configDir, "vault.yaml"), nil
}

// LoadConfig merges configuration for the given command into a T.
// Precedence, lowest to highest: defaults, vault.yaml, VAULT_* environment
// variables, command line flags.
//
// A missing config file is not fatal: the returned T is still fully merged
// from the remaining sources, and the viper.ConfigFileNotFoundError is
// passed back so callers can decide to persist a default file.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, additional_config_file_path *string) (T, error) {
	var c T
	v := viper.New()

	// 1. Set defaults
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// 2. Set up file search paths
	v.SetConfigName("vault")
	v.SetConfigType("yaml")

	// 3. Add explicit config file path if provided via --config flag.
	// This has the highest precedence for file-based configuration.
	if additional_config_file_path != nil {
		v.SetConfigFile(*additional_config_file_path)
	}

	// 4. Add standard config locations
	if userConfigPath, err := Path(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := Path(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".") // Look for vault.yaml in current dir

	// 5. Read in the primary config file.
	var notFound error
	if err := v.ReadInConfig(); err != nil {
		// A missing file is reported after the merge; other errors are fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
		notFound = err
	}

	// 6. Read from environment variables
	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("vault")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 7. Command line flags win over everything else.
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return c, err
	}

	// parse config
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, notFound
}

// WriteConfigFile persists the given configuration as YAML. The file is
// created with 0600 permissions because it may contain secret keys.
func WriteConfigFile[T any](c *T, system bool) error {
	path, err := Path(system)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// Create directory if it doesn't exist
	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		return err
	}

	return nil
}
