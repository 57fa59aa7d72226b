package grpcstore

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// AccountStoreServer is the server API for the AccountStore gRPC service.
//
// We intentionally use protobuf well-known wrapper types so this package does
// not require a protoc/codegen toolchain. Requests carry the 32-byte address,
// for Create/Put followed by the account wire form (host.EncodeAccount).
//
// Proto definition: accountstore.proto.
type AccountStoreServer interface {
	Get(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	Has(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BoolValue, error)
	Create(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BoolValue, error)
	Put(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BoolValue, error)
}

// UnimplementedAccountStoreServer can be embedded to have forward compatible
// implementations.
type UnimplementedAccountStoreServer struct{}

func (UnimplementedAccountStoreServer) Get(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Get not implemented")
}
func (UnimplementedAccountStoreServer) Has(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BoolValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Has not implemented")
}
func (UnimplementedAccountStoreServer) Create(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BoolValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Create not implemented")
}
func (UnimplementedAccountStoreServer) Put(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BoolValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Put not implemented")
}

// RegisterAccountStoreServer registers the AccountStore service on a gRPC
// server.
func RegisterAccountStoreServer(s grpc.ServiceRegistrar, srv AccountStoreServer) {
	s.RegisterService(&AccountStore_ServiceDesc, srv)
}

// AccountStoreClient is the client API for the AccountStore gRPC service.
type AccountStoreClient interface {
	Get(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	Has(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
	Create(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
	Put(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
}

type accountStoreClient struct{ cc grpc.ClientConnInterface }

func NewAccountStoreClient(cc grpc.ClientConnInterface) AccountStoreClient {
	return &accountStoreClient{cc: cc}
}

const serviceName = "/tokenvesting.host.grpcstore.v1.AccountStore/"

func (c *accountStoreClient) Get(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	err := c.cc.Invoke(ctx, serviceName+"Get", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *accountStoreClient) Has(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	out := new(wrapperspb.BoolValue)
	err := c.cc.Invoke(ctx, serviceName+"Has", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *accountStoreClient) Create(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	out := new(wrapperspb.BoolValue)
	err := c.cc.Invoke(ctx, serviceName+"Create", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *accountStoreClient) Put(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	out := new(wrapperspb.BoolValue)
	err := c.cc.Invoke(ctx, serviceName+"Put", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func _AccountStore_Get_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AccountStoreServer).Get(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "Get"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AccountStoreServer).Get(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _AccountStore_Has_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AccountStoreServer).Has(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "Has"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AccountStoreServer).Has(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _AccountStore_Create_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AccountStoreServer).Create(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "Create"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AccountStoreServer).Create(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _AccountStore_Put_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AccountStoreServer).Put(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "Put"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AccountStoreServer).Put(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

// AccountStore_ServiceDesc is the grpc.ServiceDesc for the AccountStore
// service.
var AccountStore_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "tokenvesting.host.grpcstore.v1.AccountStore",
	HandlerType: (*AccountStoreServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Get", Handler: _AccountStore_Get_Handler},
		{MethodName: "Has", Handler: _AccountStore_Has_Handler},
		{MethodName: "Create", Handler: _AccountStore_Create_Handler},
		{MethodName: "Put", Handler: _AccountStore_Put_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "accountstore.proto",
}
