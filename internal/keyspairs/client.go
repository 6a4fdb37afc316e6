// Copyright (c) 2026 Vault Team
// Vault - key pair issuance service
// This source code is licensed under the MIT license found in the LICENSE file.

package keyspairs

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/ogarcia-dev/Vault/internal/issuer"
)

// Client requests encrypted key bundles from a remote KeysPairs service.
type Client struct {
	cc     *grpc.ClientConn
	client KeysPairsClient

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

type DialOptions struct {
	// Timeout bounds each RPC issued through the client when non-zero.
	// Connections are established lazily, so this also covers connect time.
	Timeout time.Duration
}

// Dial opens a client connection to a KeysPairs service. The connection is
// lazy: an unreachable server surfaces on the first RPC, not here.
func Dial(target string, opts DialOptions) (*Client, error) {
	cc, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	return &Client{cc: cc, client: NewKeysPairsClient(cc), Timeout: opts.Timeout}, nil
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

// Issue fetches the encrypted key bundle for systemCode. The code is
// validated locally first so an obviously bad request never leaves the
// process.
func (c *Client) Issue(systemCode string) (string, error) {
	if err := issuer.ValidateSystemCode(systemCode); err != nil {
		return "", err
	}

	ctx, cancel := c.ctx()
	defer cancel()

	reply, err := c.client.Issue(ctx, wrapperspb.String(systemCode))
	if err != nil {
		return "", mapRPC(err)
	}
	return reply.GetValue(), nil
}

func (c *Client) ctx() (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), c.Timeout)
}
