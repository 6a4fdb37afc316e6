// Copyright (c) 2026 Vault Team
// Vault - key pair issuance service
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-linter checks the locale catalogs against the source tree. It scans
// Go sources for i18n.T() calls, reports keys that are orphaned in the
// primary catalog or missing from secondary ones, and flags string literals
// that look like untranslated user-facing text.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// location stores the file and line number of a found string.
type location struct {
	path string
	line int
}

const (
	localesDir    = "internal/i18n/locales"
	primaryLocale = "en.yaml"
	projectRoot   = "."
)

func main() {
	fmt.Println("🔍 Running i18n linter...")

	// 1. Find all keys used in the Go source code.
	usedKeys, err := findUsedKeys(projectRoot)
	if err != nil {
		fmt.Printf("❌ Error finding used keys: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Found %d unique translation keys used in source code.\n", len(usedKeys))

	// 2. Load the primary catalog as the source of truth.
	primaryKeys, err := loadKeysFromLocale(filepath.Join(localesDir, primaryLocale))
	if err != nil {
		fmt.Printf("❌ Error loading primary locale '%s': %v\n", primaryLocale, err)
		os.Exit(1)
	}
	fmt.Printf("✅ Loaded %d keys from primary locale (%s).\n\n", len(primaryKeys), primaryLocale)

	localeFiles, err := filepath.Glob(filepath.Join(localesDir, "*.yaml"))
	if err != nil {
		fmt.Printf("❌ Error finding locale files: %v\n", err)
		os.Exit(1)
	}

	hasMissingKeys := false
	hasOrphanedKeys := false

	// 3. Check for keys the primary catalog carries but no code references.
	fmt.Println("--- Checking for Orphaned Keys (in primary locale but not used in code) ---")
	var orphanedKeys []string
	for key := range primaryKeys {
		if _, exists := usedKeys[key]; !exists {
			orphanedKeys = append(orphanedKeys, key)
		}
	}
	sort.Strings(orphanedKeys)
	for _, key := range orphanedKeys {
		fmt.Printf("  - Orphaned: %s\n", key)
		hasOrphanedKeys = true
	}
	if !hasOrphanedKeys {
		fmt.Println("  ✨ None found.")
	}
	fmt.Println()

	// 4. Check secondary catalogs against the primary one.
	fmt.Println("--- Checking for Missing Keys (in primary locale but not in others) ---")
	for _, file := range localeFiles {
		if filepath.Base(file) == primaryLocale {
			continue
		}

		fmt.Printf("Checking %s:\n", file)
		secondaryKeys, err := loadKeysFromLocale(file)
		if err != nil {
			fmt.Printf("  - ❌ Error loading %s: %v\n", file, err)
			hasMissingKeys = true
			continue
		}

		var missingKeys []string
		for key := range primaryKeys {
			if _, exists := secondaryKeys[key]; !exists {
				missingKeys = append(missingKeys, key)
			}
		}
		sort.Strings(missingKeys)
		for _, key := range missingKeys {
			fmt.Printf("  - Missing: %s\n", key)
			hasMissingKeys = true
		}
		if len(missingKeys) == 0 {
			fmt.Println("  ✨ All keys present.")
		}
	}

	// 5. Report string literals that might need translation.
	fmt.Println("\n--- Checking for Potentially Untranslated Strings ---")
	untranslated, err := findUntranslatedStrings(projectRoot, primaryKeys)
	if err != nil {
		fmt.Printf("❌ Error finding untranslated strings: %v\n", err)
		os.Exit(1)
	}
	if len(untranslated) > 0 {
		var literals []string
		for literal := range untranslated {
			literals = append(literals, literal)
		}
		sort.Strings(literals)
		for _, literal := range literals {
			loc := untranslated[literal][0]
			fmt.Printf("  - Potential: \"%s\" (found in %s:%d)\n", literal, loc.path, loc.line)
		}
		// Warning only; heuristic matches must not fail the build.
	} else {
		fmt.Println("  ✨ None found.")
	}

	fmt.Println("\n--- Linter Finished ---")
	if hasMissingKeys {
		fmt.Println("❌ Found issues that need to be addressed.")
		os.Exit(1)
	} else if hasOrphanedKeys {
		fmt.Println("⚠️  Found orphaned keys. Please consider removing them.")
	} else {
		fmt.Println("✅ All translation files are consistent!")
	}
}

// skippableDir reports whether a directory must be excluded from source
// scans. Hidden and underscore-prefixed directories are invisible to the Go
// toolchain, and tools holds this linter itself.
func skippableDir(name string) bool {
	return name == "tools" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

// findUsedKeys scans all non-test .go files for i18n.T("key") calls and for
// bare string literals shaped like translation keys.
func findUsedKeys(root string) (map[string]struct{}, error) {
	keys := make(map[string]struct{})
	re := regexp.MustCompile(`i18n\.T\("([^"]+)"|\"([a-z]+\.[a-z\._]+)\"`)

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() && path != root && skippableDir(info.Name()) {
			return filepath.SkipDir
		}
		if info.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, match := range re.FindAllStringSubmatch(string(content), -1) {
			if match[1] != "" {
				keys[match[1]] = struct{}{}
			} else if match[2] != "" {
				keys[match[2]] = struct{}{}
			}
		}
		return nil
	})

	return keys, err
}

// findUntranslatedStrings scans for hardcoded strings that might need
// translation. knownKeys suppresses literals that are catalog keys.
func findUntranslatedStrings(root string, knownKeys map[string]struct{}) (map[string][]location, error) {
	untranslated := make(map[string][]location)
	re := regexp.MustCompile(`([a-zA-Z0-9_]+\.)?([a-zA-Z0-9_]+)\("([^"]+)"`)
	// Calls whose literals are developer-facing output or log lines.
	blacklist := map[string]struct{}{
		"Print": {}, "Println": {}, "Printf": {},
		"Fatal": {}, "Fatalf": {}, "WriteString": {},
		"Debugf": {}, "Infof": {}, "Warnf": {}, "Errorf": {},
	}
	keyRe := regexp.MustCompile(`^[a-z_]+\.[a-z\._]+$`)
	reAllCaps := regexp.MustCompile(`^[A-Z_]+$`)
	reFormatString := regexp.MustCompile(`^[\s%.,:;()#\d\w-]*%[\s\w-]*$`)
	sqlKeywords := []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "TRUNCATE ", "PRAGMA ", "CREATE ", "ALTER ", "DROP "}

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() && path != root && skippableDir(info.Name()) {
			return filepath.SkipDir
		}
		if info.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		for i, line := range strings.Split(string(content), "\n") {
			for _, match := range re.FindAllStringSubmatch(line, -1) {
				funcName := match[2]
				literal := match[3]

				if _, isBlacklisted := blacklist[funcName]; isBlacklisted {
					continue
				}
				// Heuristics to filter out false positives:
				// 1. Ignore known or key-shaped literals.
				if _, exists := knownKeys[literal]; exists {
					continue
				}
				if keyRe.MatchString(literal) {
					continue
				}
				// 2. Ignore short or non-text-like strings.
				if len(literal) < 4 {
					continue
				}
				if strings.HasPrefix(literal, "file:") || strings.HasPrefix(literal, "http") {
					continue
				}
				// 3. Ignore SQL statements.
				upperLiteral := strings.ToUpper(literal)
				isSQL := false
				for _, keyword := range sqlKeywords {
					if strings.HasPrefix(upperLiteral, keyword) {
						isSQL = true
						break
					}
				}
				if isSQL {
					continue
				}
				// 4. Ignore Go time layout strings.
				if strings.HasPrefix(literal, "2006-") {
					continue
				}
				// 5. Ignore all-caps audit action names (e.g. APPEND_KEY_PAIR).
				if reAllCaps.MatchString(literal) {
					continue
				}
				// 6. Ignore bare format specifiers with no real text.
				if reFormatString.MatchString(literal) && !strings.Contains(literal, " ") {
					continue
				}

				untranslated[literal] = append(untranslated[literal], location{path: path, line: i + 1})
			}
		}
		return nil
	})

	return untranslated, err
}

// loadKeysFromLocale reads a catalog file and returns the set of its keys.
// Catalogs are flat key/value documents, the same shape i18n.Init consumes.
func loadKeysFromLocale(path string) (map[string]struct{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var data map[string]string
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, err
	}

	keys := make(map[string]struct{}, len(data))
	for k := range data {
		keys[k] = struct{}{}
	}
	return keys, nil
}
