// Copyright (c) 2026 Vault Team
// Vault - key pair issuance service
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the command-line interface for Vault using Cobra.
// It wires configuration, the store handle and the token cipher, and provides
// commands that delegate to the issuer, keyspairs and backup packages. CLI
// code should remain thin and delegate business logic to those packages.
package cli
