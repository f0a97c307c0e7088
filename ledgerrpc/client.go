package ledgerrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/ipfs/go-cid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/certlife/cidutil"
	"xdao.co/certlife/ledger"
	"xdao.co/certlife/model"
	"xdao.co/certlife/storage"
)

// Client calls the Ledger gRPC service.
type Client struct {
	cc     *grpc.ClientConn
	client LedgerClient

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
		dialOpts = append(dialOpts, grpc.WithBlock())
	}

	cc, err := grpc.DialContext(ctx, target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return NewClient(cc), nil
}

// NewClient wraps an existing connection. Close closes it.
func NewClient(cc *grpc.ClientConn) *Client {
	return &Client{cc: cc, client: NewLedgerClient(cc)}
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

// Submit signs nothing; tx must already carry its signatures.
func (c *Client) Submit(ctx context.Context, tx *ledger.Transaction) (model.Receipt, error) {
	raw, err := ledger.EncodeTransaction(tx)
	if err != nil {
		return model.Receipt{}, err
	}
	return c.SubmitBytes(ctx, raw)
}

func (c *Client) SubmitBytes(ctx context.Context, raw []byte) (model.Receipt, error) {
	ctx, cancel := c.ctx(ctx)
	defer cancel()

	reply, err := c.client.Submit(ctx, wrapperspb.Bytes(raw))
	if err != nil {
		return model.Receipt{}, mapRPC(err)
	}
	var rec model.Receipt
	if err := json.Unmarshal(reply.GetValue(), &rec); err != nil {
		return model.Receipt{}, fmt.Errorf("ledgerrpc: decode receipt: %w", err)
	}
	return rec, nil
}

func (c *Client) Account(ctx context.Context, key solana.PublicKey) (model.Account, error) {
	ctx, cancel := c.ctx(ctx)
	defer cancel()

	reply, err := c.client.GetAccount(ctx, wrapperspb.String(key.String()))
	if err != nil {
		return model.Account{}, mapRPC(err)
	}
	var acct model.Account
	if err := json.Unmarshal(reply.GetValue(), &acct); err != nil {
		return model.Account{}, fmt.Errorf("ledgerrpc: decode account: %w", err)
	}
	return acct, nil
}

// Transaction fetches archived bytes and checks they match id.
func (c *Client) Transaction(ctx context.Context, id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, storage.ErrInvalidCID
	}
	ctx, cancel := c.ctx(ctx)
	defer cancel()

	reply, err := c.client.GetTransaction(ctx, wrapperspb.String(id.String()))
	if err != nil {
		return nil, mapRPC(err)
	}
	b := reply.GetValue()
	if !cidutil.Matches(id, b) {
		return nil, storage.ErrCIDMismatch
	}
	return b, nil
}

func (c *Client) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if c.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, c.Timeout)
}
