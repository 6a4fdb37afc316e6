// Copyright (c) 2026 Vault Team
// Vault - key pair issuance service
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ogarcia-dev/Vault/internal/i18n"
	"github.com/ogarcia-dev/Vault/internal/issuer"
	"github.com/ogarcia-dev/Vault/internal/keyspairs"
)

var issueRemote string // Flag for the issue command: remote server address
var issueDecrypt bool  // Flag for the issue command: print the decrypted bundle

// issueCmd represents the 'issue' command.
// It requests a key pair token for a system code, either from the local
// store or from a remote Vault server.
var issueCmd = &cobra.Command{
	Use:   "issue <system-code>",
	Short: "Issue a key pair token for a system",
	Long: `Issues a key pair for the given system code and prints the encrypted
token to stdout. Within 24 hours of the last generation the same pair is
returned again; afterwards a fresh pair is generated and stored.

With --remote, the request is sent to a running Vault server instead of
touching the local store. With --decrypt, the token is opened with the
configured secret keys and the key bundle is printed as JSON.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: setupDefaultServices,
	RunE: func(cmd *cobra.Command, args []string) error {
		systemCode := args[0]

		var token string
		if issueRemote != "" {
			c, err := keyspairs.Dial(issueRemote, keyspairs.DialOptions{Timeout: 10 * time.Second})
			if err != nil {
				return errors.New(i18n.T("issue.error_connect", issueRemote, err))
			}
			defer func() { _ = c.Close() }()
			token, err = c.Issue(systemCode)
			if err != nil {
				return errors.New(i18n.T("issue.error_issue", err))
			}
		} else {
			ciph, err := cipherFromConfig()
			if err != nil {
				return err
			}
			token, err = issuer.New(store, ciph).Issue(cmd.Context(), systemCode)
			if err != nil {
				return errors.New(i18n.T("issue.error_issue", err))
			}
		}

		if !issueDecrypt {
			fmt.Println(token)
			return nil
		}

		ciph, err := cipherFromConfig()
		if err != nil {
			return err
		}
		bundle, err := ciph.Decrypt(token)
		if err != nil {
			return errors.New(i18n.T("issue.error_decrypt", err))
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(bundle)
	},
}

// keysCmd represents the 'keys' command.
// It lists the stored key pair records, newest first.
var keysCmd = &cobra.Command{
	Use:     "keys",
	Short:   "List stored key pairs",
	Long:    `Lists every key pair record in the store, newest first, with its issuance state.`,
	PreRunE: setupDefaultServices,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := store.ListKeyPairs()
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println(i18n.T("records.empty"))
			return nil
		}

		now := time.Now().UTC()
		fmt.Printf("%-6s %-12s %-20s %-8s %s\n", "ID", "SYSTEM", "CREATED (UTC)", "STATE", "PUBLIC KEY")
		for _, rec := range records {
			state := i18n.T("records.state.expired")
			if rec.Age(now) <= issuer.KeyValidity {
				state = i18n.T("records.state.active")
			}
			fmt.Printf("%-6d %-12s %-20s %-8s %s\n",
				rec.ID,
				rec.SystemCode,
				rec.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
				state,
				rec.PublicKey,
			)
		}
		return nil
	},
}
