// Copyright (c) 2026 Vault Team
// Vault - key pair issuance service
// This source code is licensed under the MIT license found in the LICENSE file.

package keyspairs

import (
	"context"
	"errors"

	"golang.org/x/sync/semaphore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/ogarcia-dev/Vault/internal/issuer"
)

// Server exposes an issuer.Manager over the KeysPairs gRPC service.
type Server struct {
	UnimplementedKeysPairsServer
	Issuer *issuer.Manager
}

func (s *Server) Issue(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	if s == nil || s.Issuer == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing issuer")
	}
	encrypted, err := s.Issuer.Issue(ctx, in.GetValue())
	if err != nil {
		return nil, mapErr(err)
	}
	return wrapperspb.String(encrypted), nil
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, issuer.ErrInvalidSystemCode):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// UnaryConcurrencyLimit bounds the number of in-flight unary RPCs. Waiters
// queue until a slot frees up or their context ends.
func UnaryConcurrencyLimit(limit int64) grpc.UnaryServerInterceptor {
	sem := semaphore.NewWeighted(limit)
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, status.FromContextError(err).Err()
		}
		defer sem.Release(1)
		return handler(ctx, req)
	}
}
