// Copyright (c) 2026 Vault Team
// Vault - key pair issuance service
// This source code is licensed under the MIT license found in the LICENSE file.

package keyspairs

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/ogarcia-dev/Vault/internal/cipher"
	"github.com/ogarcia-dev/Vault/internal/db"
	"github.com/ogarcia-dev/Vault/internal/issuer"
	"github.com/ogarcia-dev/Vault/internal/security"
)

func newTestClient(t *testing.T) (*Client, *cipher.Cipher) {
	t.Helper()

	store, err := db.NewStoreFromDSN("sqlite", "file:test_"+t.Name()+"?mode=memory&cache=shared", true)
	if err != nil {
		t.Fatalf("NewStoreFromDSN: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	key, err := cipher.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	ciph, err := cipher.New(security.FromString(key))
	if err != nil {
		t.Fatalf("cipher.New: %v", err)
	}

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer(grpc.UnaryInterceptor(UnaryConcurrencyLimit(4)))
	RegisterKeysPairsServer(srv, &Server{Issuer: issuer.New(store, ciph)})

	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	dialer := func(ctx context.Context, s string) (net.Conn, error) { return lis.Dial() }
	cc, err := grpc.NewClient(
		"passthrough:///bufnet",
		grpc.WithContextDialer(dialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { _ = cc.Close() })

	return &Client{cc: cc, client: NewKeysPairsClient(cc), Timeout: 5 * time.Second}, ciph
}

func TestKeysPairs_RoundTrip(t *testing.T) {
	client, ciph := newTestClient(t)

	token, err := client.Issue("BILLING")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	bundle, err := ciph.Decrypt(token)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	for name, v := range map[string]string{
		"private_key":         bundle.PrivateKey,
		"public_key":          bundle.PublicKey,
		"refresh_private_key": bundle.RefreshPrivateKey,
		"refresh_public_key":  bundle.RefreshPublicKey,
	} {
		if v == "" {
			t.Fatalf("expected %s to be populated", name)
		}
	}

	// A second request inside the validity window carries the same bundle.
	again, err := client.Issue("BILLING")
	if err != nil {
		t.Fatalf("second Issue: %v", err)
	}
	bundle2, err := ciph.Decrypt(again)
	if err != nil {
		t.Fatalf("Decrypt(second): %v", err)
	}
	if bundle != bundle2 {
		t.Fatalf("expected the live bundle to be reused across requests")
	}
}

func TestKeysPairs_InvalidCodeRejectedLocally(t *testing.T) {
	client, _ := newTestClient(t)

	if _, err := client.Issue(""); !errors.Is(err, issuer.ErrInvalidSystemCode) {
		t.Fatalf("expected ErrInvalidSystemCode for empty code, got: %v", err)
	}
	if _, err := client.Issue(strings.Repeat("x", 11)); !errors.Is(err, issuer.ErrInvalidSystemCode) {
		t.Fatalf("expected ErrInvalidSystemCode for oversized code, got: %v", err)
	}
}

func TestKeysPairs_InvalidCodeRejectedByServer(t *testing.T) {
	client, _ := newTestClient(t)

	// Go through the raw stub to bypass the client-side validation.
	raw := NewKeysPairsClient(client.cc)
	_, err := raw.Issue(context.Background(), wrapperspb.String(strings.Repeat("x", 11)))
	if err == nil {
		t.Fatalf("expected an error for an oversized code")
	}
	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument from server, got: %v", err)
	}
	if mapped := mapRPC(err); !errors.Is(mapped, issuer.ErrInvalidSystemCode) {
		t.Fatalf("expected mapRPC to recover ErrInvalidSystemCode, got: %v", mapped)
	}
}

func TestUnaryConcurrencyLimit(t *testing.T) {
	limit := UnaryConcurrencyLimit(1)
	info := &grpc.UnaryServerInfo{FullMethod: "/vault.v1.KeysPairs/Issue"}

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := limit(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
			close(started)
			<-release
			return nil, nil
		})
		done <- err
	}()
	<-started

	// The slot is taken; a caller whose context is already over gives up
	// instead of queueing forever.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := limit(ctx, nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		t.Error("handler must not run once the context is canceled")
		return nil, nil
	})
	if status.Code(err) != codes.Canceled {
		t.Fatalf("expected Canceled while the slot is held, got: %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first call failed: %v", err)
	}

	// With the slot free again the limiter admits new work.
	if _, err := limit(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, nil
	}); err != nil {
		t.Fatalf("expected admission after release, got: %v", err)
	}
}
