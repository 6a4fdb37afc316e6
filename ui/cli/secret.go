// Copyright (c) 2026 Vault Team
// Vault - key pair issuance service
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ogarcia-dev/Vault/internal/cipher"
	"github.com/ogarcia-dev/Vault/internal/config"
	"github.com/ogarcia-dev/Vault/internal/i18n"
	"github.com/ogarcia-dev/Vault/internal/security"
)

var secretKeyFlag string // Flag for 'secret import'

// secretCmd groups the secret key management subcommands.
var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage the secret keys protecting issued tokens",
	Long: `Manages the fernet secret keys used to encrypt issued key bundles.
The first configured key encrypts new tokens; every configured key may
still decrypt, so rotation keeps old tokens readable.`,
}

// rotateSecretCmd represents the 'secret rotate' command.
// It generates a fresh fernet key and makes it the encrypting key while
// keeping the previous keys in the decryption ring.
var rotateSecretCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Generate a new secret key and make it primary",
	Long: `Generates a new random fernet key, prepends it to secret_keys in
vault.yaml and persists the config. Existing keys stay in the list so
previously issued tokens remain decryptable.`,
	PreRunE: setupDefaultServices,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(i18n.T("secret.rotating"))
		key, err := cipher.GenerateKey()
		if err != nil {
			return errors.New(i18n.T("secret.error_generate", err))
		}
		appConfig.SecretKeys = append([]string{key}, appConfig.SecretKeys...)
		if err := config.WriteConfigFile(&appConfig, false); err != nil {
			return errors.New(i18n.T("secret.error_save", err))
		}
		fmt.Println(i18n.T("secret.rotated", len(appConfig.SecretKeys)))
		return nil
	},
}

// importSecretCmd represents the 'secret import' command.
// It adds an externally supplied fernet key as the new primary key.
var importSecretCmd = &cobra.Command{
	Use:   "import",
	Short: "Import an existing secret key and make it primary",
	Long: `Adds a secret key supplied via --key, an interactive hidden prompt or
stdin to the front of secret_keys in vault.yaml. Use this to share one
encrypting key between several Vault instances.`,
	PreRunE: setupDefaultServices,
	RunE: func(cmd *cobra.Command, args []string) error {
		key := secretKeyFlag
		if key == "" {
			if term.IsTerminal(int(os.Stdin.Fd())) {
				fmt.Print(i18n.T("secret.prompt"))
				byteKey, err := term.ReadPassword(int(os.Stdin.Fd()))
				if err != nil {
					return errors.New(i18n.T("secret.error_read_password", err))
				}
				fmt.Println()
				key = string(byteKey)
			} else {
				reader := bufio.NewReader(os.Stdin)
				line, err := reader.ReadString('\n')
				if err != nil && line == "" {
					return errors.New(i18n.T("secret.error_read_password", err))
				}
				key = line
			}
		}
		key = strings.TrimSpace(key)

		// Reject keys fernet cannot parse before persisting them.
		if _, err := cipher.New(security.FromString(key)); err != nil {
			return errors.New(i18n.T("secret.error_invalid", err))
		}

		appConfig.SecretKeys = append([]string{key}, appConfig.SecretKeys...)
		if err := config.WriteConfigFile(&appConfig, false); err != nil {
			return errors.New(i18n.T("secret.error_save", err))
		}
		fmt.Println(i18n.T("secret.imported", len(appConfig.SecretKeys)))
		return nil
	},
}
