package main

import (
	"fmt"

	"github.com/ogarcia-dev/Vault/internal/db"
	"github.com/ogarcia-dev/Vault/internal/model"
)

// Manual probe for the store and export path: seeds an in-memory database
// with a few key pair records and prints what a backup export would carry.
func main() {
	dsn := "file:debprobe?mode=memory&cache=shared"
	store, err := db.NewStoreFromDSN("sqlite", dsn, true)
	if err != nil {
		panic(err)
	}
	defer func() { _ = store.Close() }()

	seed := []model.KeyPairRecord{
		{SystemCode: "BILLING", KeyBundle: model.KeyBundle{PrivateKey: "priv-bil-1", PublicKey: "pub-bil-1", RefreshPrivateKey: "rpriv-bil-1", RefreshPublicKey: "rpub-bil-1"}},
		{SystemCode: "CRM", KeyBundle: model.KeyBundle{PrivateKey: "priv-crm-1", PublicKey: "pub-crm-1", RefreshPrivateKey: "rpriv-crm-1", RefreshPublicKey: "rpub-crm-1"}},
		{SystemCode: "BILLING", KeyBundle: model.KeyBundle{PrivateKey: "priv-bil-2", PublicKey: "pub-bil-2", RefreshPrivateKey: "rpriv-bil-2", RefreshPublicKey: "rpub-bil-2"}},
	}
	for i := range seed {
		if err := store.AppendKeyPair(&seed[i]); err != nil {
			panic(err)
		}
	}

	latest, err := store.LatestKeyPair("BILLING")
	if err != nil {
		panic(err)
	}
	fmt.Printf("latest BILLING record: %s\n", latest)

	backup, err := store.ExportDataForBackup()
	if err != nil {
		panic(err)
	}
	fmt.Printf("exported key pairs: %d\n", len(backup.KeyPairs))
	for _, kp := range backup.KeyPairs {
		fmt.Printf("key pair: %s#%d created %s\n", kp.SystemCode, kp.ID, kp.CreatedAt.UTC().Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("exported audit entries: %d\n", len(backup.AuditLogEntries))
	for _, e := range backup.AuditLogEntries {
		fmt.Printf("audit entry: %s (%s)\n", e.Action, e.Details)
	}
}
