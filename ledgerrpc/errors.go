package ledgerrpc

import (
	"errors"
	"fmt"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"xdao.co/certlife/ledger"
	"xdao.co/certlife/storage"
)

var errCodes = []struct {
	err  error
	code codes.Code
}{
	{ledger.ErrMalformedTransaction, codes.InvalidArgument},
	{ledger.ErrDuplicateAccount, codes.InvalidArgument},
	{storage.ErrInvalidCID, codes.InvalidArgument},
	{ledger.ErrSignatureCount, codes.Unauthenticated},
	{ledger.ErrInvalidSignature, codes.Unauthenticated},
	{ledger.ErrDuplicateTransaction, codes.AlreadyExists},
	{ledger.ErrUnknownProgram, codes.NotFound},
	{ledger.ErrAccountNotFound, codes.NotFound},
	{ledger.ErrTransactionNotFound, codes.NotFound},
	{ledger.ErrClosed, codes.Unavailable},
	{storage.ErrCIDMismatch, codes.DataLoss},
	{ErrInvalidAddress, codes.InvalidArgument},
}

// ErrInvalidAddress is returned for a GetAccount address that is not base58.
var ErrInvalidAddress = errors.New("ledgerrpc: invalid address")

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	for _, e := range errCodes {
		if errors.Is(err, e.err) {
			return status.Error(e.code, err.Error())
		}
	}
	return status.Error(codes.Internal, err.Error())
}

// mapRPC restores the runtime sentinel a server error was built from, so
// callers can keep using errors.Is across the wire.
func mapRPC(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	msg := st.Message()
	for _, e := range errCodes {
		if st.Code() == e.code && strings.HasPrefix(msg, e.err.Error()) {
			return fmt.Errorf("%w%s", e.err, strings.TrimPrefix(msg, e.err.Error()))
		}
	}
	return err
}
