// Copyright (c) 2026 Vault Team
// Vault - key pair issuance service
// This source code is licensed under the MIT license found in the LICENSE file.

package keyspairs

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// KeysPairsServer is the server API for the KeysPairs gRPC service.
//
// We intentionally use protobuf well-known wrapper types so this package does
// not require a protoc/codegen toolchain: a StringValue is wire-identical to
// a message with a single string field 1.
//
// Proto definition: keys_pairs.proto.
type KeysPairsServer interface {
	Issue(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
}

// UnimplementedKeysPairsServer can be embedded to have forward compatible implementations.
type UnimplementedKeysPairsServer struct{}

func (UnimplementedKeysPairsServer) Issue(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Issue not implemented")
}

// RegisterKeysPairsServer registers the KeysPairs service on a gRPC server.
func RegisterKeysPairsServer(s grpc.ServiceRegistrar, srv KeysPairsServer) {
	s.RegisterService(&KeysPairs_ServiceDesc, srv)
}

// KeysPairsClient is the client API for the KeysPairs gRPC service.
type KeysPairsClient interface {
	Issue(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
}

type keysPairsClient struct{ cc grpc.ClientConnInterface }

func NewKeysPairsClient(cc grpc.ClientConnInterface) KeysPairsClient { return &keysPairsClient{cc: cc} }

func (c *keysPairsClient) Issue(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	err := c.cc.Invoke(ctx, "/vault.v1.KeysPairs/Issue", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func _KeysPairs_Issue_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KeysPairsServer).Issue(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/vault.v1.KeysPairs/Issue"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(KeysPairsServer).Issue(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// KeysPairs_ServiceDesc is the grpc.ServiceDesc for the KeysPairs service.
var KeysPairs_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "vault.v1.KeysPairs",
	HandlerType: (*KeysPairsServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Issue", Handler: _KeysPairs_Issue_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "keys_pairs.proto",
}
