// Copyright (c) 2026 Vault Team
// Vault - key pair issuance service
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/ogarcia-dev/Vault/internal/i18n"
	"github.com/ogarcia-dev/Vault/internal/issuer"
	"github.com/ogarcia-dev/Vault/internal/keyspairs"
	"github.com/ogarcia-dev/Vault/internal/logging"
)

// serveCmd represents the 'serve' command.
// It exposes the vault.v1.KeysPairs service over gRPC and blocks until the
// process receives SIGINT or SIGTERM.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the KeysPairs gRPC issuance service",
	Long: `Starts the gRPC server exposing the vault.v1.KeysPairs service.
Clients call Issue with their system code and receive an encrypted token
carrying the key bundle. The listen address comes from server.listen in
vault.yaml (default :50051) and can be overridden with --listen.`,
	PreRunE: setupDefaultServices,
	RunE: func(cmd *cobra.Command, args []string) error {
		ciph, err := cipherFromConfig()
		if err != nil {
			return err
		}

		listen := appConfig.Server.Listen
		if cmd.Flags().Changed("listen") {
			if v, ferr := cmd.Flags().GetString("listen"); ferr == nil && v != "" {
				listen = v
			}
		}

		lis, err := net.Listen("tcp", listen)
		if err != nil {
			return errors.New(i18n.T("serve.error_listen", listen, err))
		}

		srv := grpc.NewServer(
			grpc.UnaryInterceptor(keyspairs.UnaryConcurrencyLimit(int64(appConfig.Server.MaxConcurrent))),
		)
		keyspairs.RegisterKeysPairsServer(srv, &keyspairs.Server{
			Issuer: issuer.New(store, ciph),
		})

		// Graceful shutdown on SIGINT/SIGTERM. GracefulStop drains in-flight
		// requests before Serve returns.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			fmt.Println(i18n.T("serve.shutdown"))
			srv.GracefulStop()
		}()
		defer signal.Stop(sigCh)

		fmt.Println(i18n.T("serve.starting", listen))
		logging.Infof("serve: %d concurrent requests allowed", appConfig.Server.MaxConcurrent)
		return srv.Serve(lis)
	},
}
