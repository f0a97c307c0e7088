// Package ledgerrpc exposes a ledger runtime over gRPC.
package ledgerrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/gagliardetto/solana-go"
	"github.com/ipfs/go-cid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/certlife/cidutil"
	"xdao.co/certlife/ledger"
	"xdao.co/certlife/model"
	"xdao.co/certlife/storage"
)

// Backend is the part of *ledger.Runtime the server needs.
type Backend interface {
	SubmitBytes(b []byte) (ledger.Receipt, error)
	Account(key solana.PublicKey) (ledger.Account, error)
	Transaction(id cid.Cid) ([]byte, error)
}

// Server exposes a Backend over the Ledger gRPC service.
type Server struct {
	UnimplementedLedgerServer
	Backend Backend
	Logger  *slog.Logger
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s.Logger
}

func (s *Server) Submit(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	if s == nil || s.Backend == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing backend")
	}
	if err := ctx.Err(); err != nil {
		return nil, status.FromContextError(err).Err()
	}
	rec, err := s.Backend.SubmitBytes(in.GetValue())
	if err != nil {
		s.logger().Debug("transaction rejected", "component", "rpc", "error", err)
		return nil, mapErr(err)
	}
	return marshal(model.FromReceipt(rec))
}

func (s *Server) GetAccount(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	if s == nil || s.Backend == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing backend")
	}
	if err := ctx.Err(); err != nil {
		return nil, status.FromContextError(err).Err()
	}
	key, err := solana.PublicKeyFromBase58(in.GetValue())
	if err != nil {
		return nil, mapErr(fmt.Errorf("%w %q", ErrInvalidAddress, in.GetValue()))
	}
	acct, err := s.Backend.Account(key)
	if err != nil {
		return nil, mapErr(err)
	}
	return marshal(model.FromAccount(key, acct))
}

func (s *Server) GetTransaction(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	if s == nil || s.Backend == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing backend")
	}
	if err := ctx.Err(); err != nil {
		return nil, status.FromContextError(err).Err()
	}
	id, err := cidutil.Parse(in.GetValue())
	if err != nil {
		return nil, mapErr(fmt.Errorf("%w: %v", storage.ErrInvalidCID, err))
	}
	b, err := s.Backend.Transaction(id)
	if err != nil {
		return nil, mapErr(err)
	}
	return wrapperspb.Bytes(b), nil
}

func marshal(v any) (*wrapperspb.BytesValue, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return wrapperspb.Bytes(b), nil
}
