// Package grpcstore serves and consumes a host.Store over gRPC, so the
// ledger core can run against a remote account store.
package grpcstore

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/rokoperki/token-vesting/addr"
	"github.com/rokoperki/token-vesting/host"
)

// Server adapts a host.Store to the AccountStore gRPC service.
type Server struct {
	UnimplementedAccountStoreServer

	Store host.Store
}

func (s *Server) Get(_ context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	a, err := addressOf(in.GetValue())
	if err != nil {
		return nil, err
	}
	acct, err := s.Store.Get(a)
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.Bytes(host.EncodeAccount(acct)), nil
}

func (s *Server) Has(_ context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BoolValue, error) {
	a, err := addressOf(in.GetValue())
	if err != nil {
		return nil, err
	}
	return wrapperspb.Bool(s.Store.Exists(a)), nil
}

func (s *Server) Create(_ context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BoolValue, error) {
	acct, err := accountOf(in.GetValue())
	if err != nil {
		return nil, err
	}
	if err := s.Store.Create(acct); err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.Bool(true), nil
}

func (s *Server) Put(_ context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BoolValue, error) {
	acct, err := accountOf(in.GetValue())
	if err != nil {
		return nil, err
	}
	err = s.Store.Update(acct.Address, func(cur *host.Account) error {
		*cur = acct
		return nil
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.Bool(true), nil
}

func addressOf(b []byte) (addr.Address, error) {
	a, err := addr.FromBytes(b)
	if err != nil {
		return addr.Zero, status.Error(codes.InvalidArgument, "address must be 32 bytes")
	}
	return a, nil
}

func accountOf(b []byte) (host.Account, error) {
	if len(b) < addr.Size {
		return host.Account{}, status.Error(codes.InvalidArgument, "request shorter than an address")
	}
	a, err := addr.FromBytes(b[:addr.Size])
	if err != nil {
		return host.Account{}, status.Error(codes.InvalidArgument, "address must be 32 bytes")
	}
	acct, err := host.DecodeAccount(a, b[addr.Size:])
	if err != nil {
		return host.Account{}, status.Error(codes.InvalidArgument, "invalid account wire bytes")
	}
	return acct, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, host.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, host.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
