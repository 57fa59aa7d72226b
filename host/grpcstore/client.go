package grpcstore

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/rokoperki/token-vesting/addr"
	"github.com/rokoperki/token-vesting/host"
)

// Client implements host.Store over an AccountStore gRPC service.
//
// Update is read-modify-write on the wire; the host's single-writer-per-
// operation scheduling (not this transport) is what keeps concurrent
// instructions touching the same account serialized.
type Client struct {
	cc     *grpc.ClientConn
	client AccountStoreClient

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

type DialOptions struct {
	// Timeout applies to the initial dial when non-zero.
	Timeout time.Duration

	// MaxMsgBytes sets both send/recv max sizes when non-zero.
	MaxMsgBytes int
}

func Dial(target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
			),
		)
	}

	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cc, err := grpc.DialContext(ctx, target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: cc, client: NewAccountStoreClient(cc), Timeout: 0}, nil
}

// NewClient wraps an established connection.
func NewClient(cc *grpc.ClientConn, timeout time.Duration) *Client {
	return &Client{cc: cc, client: NewAccountStoreClient(cc), Timeout: timeout}
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

func (c *Client) Get(a addr.Address) (host.Account, error) {
	ctx, cancel := c.ctx()
	defer cancel()

	reply, err := c.client.Get(ctx, wrapperspb.Bytes(a[:]))
	if err != nil {
		return host.Account{}, mapRPC(err)
	}
	return host.DecodeAccount(a, reply.GetValue())
}

func (c *Client) Exists(a addr.Address) bool {
	ctx, cancel := c.ctx()
	defer cancel()

	reply, err := c.client.Has(ctx, wrapperspb.Bytes(a[:]))
	if err != nil {
		return false
	}
	return reply.GetValue()
}

func (c *Client) Create(acct host.Account) error {
	ctx, cancel := c.ctx()
	defer cancel()

	_, err := c.client.Create(ctx, wrapperspb.Bytes(accountWire(acct)))
	return mapRPC(err)
}

func (c *Client) Update(a addr.Address, fn func(*host.Account) error) error {
	acct, err := c.Get(a)
	if err != nil {
		return err
	}
	if err := fn(&acct); err != nil {
		return err
	}
	acct.Address = a

	ctx, cancel := c.ctx()
	defer cancel()

	_, err = c.client.Put(ctx, wrapperspb.Bytes(accountWire(acct)))
	return mapRPC(err)
}

func (c *Client) ctx() (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), c.Timeout)
}

func accountWire(acct host.Account) []byte {
	out := make([]byte, 0, addr.Size+len(acct.Data)+addr.Size+12)
	out = append(out, acct.Address[:]...)
	return append(out, host.EncodeAccount(acct)...)
}

func mapRPC(err error) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.NotFound:
		return host.ErrNotFound
	case codes.AlreadyExists:
		return host.ErrAlreadyExists
	default:
		return err
	}
}
