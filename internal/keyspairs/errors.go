// Copyright (c) 2026 Vault Team
// Vault - key pair issuance service
// This source code is licensed under the MIT license found in the LICENSE file.

package keyspairs

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ogarcia-dev/Vault/internal/issuer"
)

func mapRPC(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.InvalidArgument:
		// Server uses InvalidArgument for rejected system codes.
		return issuer.ErrInvalidSystemCode
	default:
		return err
	}
}
