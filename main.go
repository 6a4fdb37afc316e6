// Copyright (c) 2026 Vault Team
// Vault - key pair issuance service
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for Vault.
//
// Usage:
//
//	go run . [flags]
//	./vault [flags]
//
// This launches the Vault CLI. See --help for options.
package main

import (
	"log"
	"os"

	"github.com/ogarcia-dev/Vault/ui/cli"
)

// main is the entrypoint for the Vault CLI.
func main() {
	if err := cli.Execute(); err != nil {
		log.Printf("Vault CLI error: %v", err)
		os.Exit(1)
	}
}
