// Copyright (c) 2026 Vault Team
// Vault - key pair issuance service
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface (CLI) for the Vault
// application using the Cobra library. It defines the root command,
// subcommands (like serve, issue, backup), flags, and the main
// entry point for execution.

package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ogarcia-dev/Vault/buildvars"
	"github.com/ogarcia-dev/Vault/internal/cipher"
	"github.com/ogarcia-dev/Vault/internal/config"
	"github.com/ogarcia-dev/Vault/internal/db"
	"github.com/ogarcia-dev/Vault/internal/i18n"
	"github.com/ogarcia-dev/Vault/internal/logging"
	"github.com/ogarcia-dev/Vault/internal/security"
	"github.com/ogarcia-dev/Vault/internal/tui"
	"github.com/ogarcia-dev/Vault/util/slicest"
)

var version = "dev"   // this will be set by the linker
var gitCommit = "dev" // set at build time with the short commit SHA
var buildDate = ""    // set at build time (RFC3339)
var cfgFile string
var verbose bool
var showVersionFlag bool

var appConfig config.Config

// store is the open database handle shared by all commands. It is set by
// setupDefaultServices and closed by Execute. Tests may assign it directly
// to run commands against an in-memory store.
var store db.Store

func setupDefaultServices(cmd *cobra.Command, args []string) error {
	// Load optional config file argument from cli
	optionalConfigPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	appConfig, err = config.LoadConfig[config.Config](cmd, config.Defaults(), optionalConfigPath)
	// A "file not found" error is expected on first run, so we handle it specifically.
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		// This is the first run, or the config file was deleted. Create a default one.
		if writeErr := config.WriteConfigFile(&appConfig, false); writeErr != nil {
			// Log a warning but don't fail, as the app can run on defaults.
			logging.Warnf("Warning: could not write default config file: %v", writeErr)
		}
	} else if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	// Post-process config to ensure critical values are not empty, falling
	// back to defaults. This handles cases where the user's config file has
	// empty values for these fields.
	defaults := config.Defaults()
	if appConfig.Database.Type == "" {
		appConfig.Database.Type = defaults["database.type"].(string)
	}
	if appConfig.Database.Dsn == "" {
		appConfig.Database.Dsn = defaults["database.dsn"].(string)
	}
	if appConfig.Language == "" {
		appConfig.Language = defaults["language"].(string)
	}
	if appConfig.Server.Listen == "" {
		appConfig.Server.Listen = defaults["server.listen"].(string)
	}
	if appConfig.Server.MaxConcurrent <= 0 {
		appConfig.Server.MaxConcurrent = defaults["server.max_concurrent"].(int)
	}

	// Initialize i18n
	i18n.Init(appConfig.Language)

	if appConfig.Debug || verbose {
		logging.SetDebug(true)
		db.SetDebug(true)
	}

	// Open the store if nothing opened one earlier (tests inject their own).
	if store == nil {
		st, err := db.NewStoreFromDSN(appConfig.Database.Type, appConfig.Database.Dsn, appConfig.Database.Provision)
		if err != nil {
			return errors.New(i18n.T("config.error_init_db", err))
		}
		store = st
	}

	return nil
}

// cipherFromConfig builds the token cipher from the configured secret keys.
// The first key encrypts; all keys may decrypt.
func cipherFromConfig() (*cipher.Cipher, error) {
	if len(appConfig.SecretKeys) == 0 {
		return nil, errors.New(i18n.T("serve.error_no_secret"))
	}
	secrets := slicest.Map(appConfig.SecretKeys, security.FromString)
	return cipher.New(secrets...)
}

// saveLanguage persists a language choice picked in the TUI.
func saveLanguage(code string) error {
	appConfig.Language = code
	return config.WriteConfigFile(&appConfig, false)
}

// closeStore closes the shared store handle, if any.
func closeStore() {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		logging.Errorf("Error closing store: %v", err)
	}
	store = nil
}

// Execute runs the CLI entrypoint. The root main package should call this
// function and handle process exit.
func Execute() error {
	defer closeStore()

	rootCmd := NewRootCmd()

	if err := rootCmd.Execute(); err != nil {
		return err
	}

	return nil
}

func applyDefaultFlags(cmd *cobra.Command) {
	// Avoid redefining flags if they already exist (NewRootCmd may be called
	// multiple times in tests which creates a new root but uses package-level
	// subcommands). pflag will panic on duplicate flag definitions, so check
	// first.
	if cmd.Flags().Lookup("database.type") == nil {
		cmd.Flags().String("database.type", "sqlite", "Database type (e.g., sqlite, postgres)")
	}
	if cmd.Flags().Lookup("database.dsn") == nil {
		cmd.Flags().String("database.dsn", "file:vault.db", "Database connection string (DSN)")
	}
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	// Only proceed if the user has explicitly set the --config flag.
	if cmd.Flags().Changed("config") {
		path, err := cmd.Flags().GetString("config")
		if err != nil {
			// This is unlikely if Changed() is true, but good practice.
			return nil, fmt.Errorf("could not read --config flag: %w", err)
		}

		// If the flag is set but the value is empty, do nothing.
		if path == "" {
			return nil, nil
		}

		// Make sure the user-provided file exists to avoid unwanted behavior.
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
		}
		return &path, nil // Return the valid path
	}
	return nil, nil
}

// NewRootCmd creates and configures a new root cobra command.
// This function is used to create the main application command as well as
// fresh instances for isolated testing.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vault",
		Short: "Vault issues and protects per-system cryptographic key pairs.",
		Long: `Vault hands out signing and refresh key pairs to client systems.
Each system, identified by a short code, gets a fresh NIST P-256 pair
once every 24 hours; repeat requests inside that window receive the
same pair. Issued keys travel as encrypted tokens and every issuance
is recorded in an append-only store.

Running without a subcommand will launch the interactive TUI.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if showVersionFlag {
				v, c, d := resolveBuildVersion(nil)
				compositeVersion := v
				if c != "" && c != "dev" {
					compositeVersion = compositeVersion + " (" + c + ")"
				}
				if d != "" {
					compositeVersion = compositeVersion + " built: " + d
				}
				fmt.Printf("%s\n", compositeVersion)
				os.Exit(0)
			}
			return setupDefaultServices(cmd, args)
		},
		Run: func(cmd *cobra.Command, args []string) {
			// The store is already opened by PersistentPreRunE.
			// i18n is also initialized, so we can just run the TUI.
			tui.Run(store, saveLanguage)
		},
	}

	v, c, d := resolveBuildVersion(nil)
	compositeVersion := v
	if c != "" && c != "dev" {
		compositeVersion = compositeVersion + " (" + c + ")"
	}
	if d != "" {
		compositeVersion = compositeVersion + " built: " + d
	}
	cmd.Version = compositeVersion

	// Define flags
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (sets -v for DB logs)")
	cmd.PersistentFlags().BoolVarP(&showVersionFlag, "version", "V", false, "Print version and exit")
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	cmd.PersistentFlags().String("language", "en", `UI language ("en", "es")`)
	applyDefaultFlags(cmd)

	// Add subcommand flags
	applyDefaultFlags(serveCmd)
	if serveCmd.Flags().Lookup("listen") == nil {
		serveCmd.Flags().String("listen", "", "Listen address (overrides server.listen)")
	}

	applyDefaultFlags(issueCmd)
	if issueCmd.Flags().Lookup("remote") == nil {
		issueCmd.Flags().StringVar(&issueRemote, "remote", "", "Issue against a remote Vault server (host:port) instead of the local store")
	}
	if issueCmd.Flags().Lookup("decrypt") == nil {
		issueCmd.Flags().BoolVar(&issueDecrypt, "decrypt", false, "Decrypt the issued token and print the key bundle JSON")
	}

	applyDefaultFlags(keysCmd)
	applyDefaultFlags(dbMaintainCmd)
	if dbMaintainCmd.Flags().Lookup("timeout") == nil {
		dbMaintainCmd.Flags().Int("timeout", 0, "Timeout in seconds for maintenance (0 means no timeout)")
	}
	applyDefaultFlags(backupCmd)
	applyDefaultFlags(restoreCmd)

	if migrateCmd.Flags().Lookup("target-type") == nil {
		migrateCmd.Flags().String("target-type", "", "Target database type (sqlite, postgres, mysql)")
	}
	if migrateCmd.Flags().Lookup("target-dsn") == nil {
		migrateCmd.Flags().String("target-dsn", "", "Target database connection string (DSN)")
	}
	applyDefaultFlags(migrateCmd)

	if importSecretCmd.Flags().Lookup("key") == nil {
		importSecretCmd.Flags().StringVarP(&secretKeyFlag, "key", "k", "", "Secret key to import (prompts when omitted)")
	}
	secretCmd.AddCommand(rotateSecretCmd, importSecretCmd)

	// Add a lightweight `version` subcommand so users and CI can run `vault version`.
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			// Re-resolve build info so the subcommand shows the same values
			v, c, d := resolveBuildVersion(nil)
			fmt.Printf("version: %s\n", v)
			fmt.Printf("commit: %s\n", c)
			if d != "" {
				fmt.Printf("built: %s\n", d)
			}
		},
	}

	// Add subcommands to the newly created root command.
	cmd.AddCommand(
		serveCmd,
		issueCmd,
		keysCmd,
		secretCmd,
		backupCmd,
		restoreCmd,
		migrateCmd,
		dbMaintainCmd,
		versionCmd,
	)

	return cmd
}

// resolveBuildVersion computes the best-available version, commit and build
// date for the running binary. If `info` is nil, it reads build info from
// the runtime. This helper is separated to make unit testing straightforward.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := buildvars.VersionOrDefault(version)
	resolvedCommit := gitCommit
	resolvedDate := buildDate

	var ok bool
	if info == nil {
		if infoLocal, found := debug.ReadBuildInfo(); found {
			info = infoLocal
			ok = true
		}
	} else {
		ok = true
	}

	if ok && info != nil {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		// If Main doesn't contain the version (some build paths), try to
		// find our module in the dependencies and use that version.
		if (resolvedVersion == "dev" || resolvedVersion == "(devel)") && info.Deps != nil {
			for _, dep := range info.Deps {
				if dep.Path == "github.com/ogarcia-dev/Vault" && dep.Version != "" {
					resolvedVersion = dep.Version
					break
				}
			}
		}

		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	// As a last resort, if no version was discovered, but a gitCommit was
	// provided via ldflags, show that to aid support.
	if resolvedVersion == "dev" && gitCommit != "dev" && gitCommit != "" {
		resolvedVersion = gitCommit
	}

	return resolvedVersion, resolvedCommit, resolvedDate
}
