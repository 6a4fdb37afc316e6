// Copyright (c) 2026 Vault Team
// Vault - key pair issuance service
// This source code is licensed under the MIT license found in the LICENSE file.

// package i18n provides internationalization and localization support for Vault.
// It uses the go-i18n library to load and manage translation files, allowing the
// command line and terminal UI to be displayed in multiple languages.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// localeFS embeds the YAML translation files from the 'locales' directory
// into the application binary.
//
//go:embed locales/*.yaml
var localeFS embed.FS

// bundle stores all the loaded translation messages from the locale files.
var bundle *i18n.Bundle

// localizer is used to translate messages into a specific language.
var localizer *i18n.Localizer

// activeLang is the language tag most recently passed to Init.
var activeLang = "en"

// Init initializes the i18n bundle and sets up the localizer for a specific language.
// It parses all embedded YAML files from the 'locales' directory.
func Init(lang string) {
	bundle = i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	files, _ := fs.ReadDir(localeFS, "locales")
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		data, _ := localeFS.ReadFile("locales/" + f.Name())
		bundle.ParseMessageFileBytes(data, f.Name())
	}

	activeLang = lang
	localizer = i18n.NewLocalizer(bundle, lang)
}

// GetLang returns the language tag the localizer was initialized with.
func GetLang() string { return activeLang }

// T translates a message by its ID. Extra arguments are applied with
// fmt.Sprintf so translations may carry printf verbs.
// If the i18n system has not been initialized, it defaults to English.
// If a translation for the given ID is not found, the ID itself is returned.
func T(messageID string, args ...interface{}) string {
	if localizer == nil {
		Init("en")
	}
	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: messageID})
	if err != nil {
		// If the message ID is not found, go-i18n returns an error.
		// In this case, we return the message ID itself as a fallback.
		return messageID
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// SetLang changes the active language of the localizer.
func SetLang(lang string) {
	Init(lang)
}

// displayNames maps locale codes to their native display names.
var displayNames = map[string]string{
	"en": "English",
	"es": "Español",
}

// GetAvailableLocales returns the locale codes embedded in the binary mapped
// to a human-readable display name. Codes without a known display name map
// to themselves.
func GetAvailableLocales() map[string]string {
	locales := make(map[string]string)
	files, _ := fs.ReadDir(localeFS, "locales")
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		code := strings.TrimSuffix(f.Name(), ".yaml")
		if name, ok := displayNames[code]; ok {
			locales[code] = name
		} else {
			locales[code] = code
		}
	}
	return locales
}
