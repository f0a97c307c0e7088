package ledger

import (
	"errors"
	"fmt"
)

// Rejections: the transaction is not executed and nothing is recorded.
var (
	ErrMalformedTransaction = errors.New("ledger: malformed transaction")
	ErrSignatureCount       = errors.New("ledger: signature count does not match signers")
	ErrInvalidSignature     = errors.New("ledger: invalid signature")
	ErrUnknownProgram       = errors.New("ledger: unknown program")
	ErrDuplicateAccount     = errors.New("ledger: account listed more than once")
	ErrDuplicateTransaction = errors.New("ledger: transaction already processed")
	ErrMissingSignerKey     = errors.New("ledger: no private key for signer")
)

var (
	ErrAccountNotFound     = errors.New("ledger: account not found")
	ErrTransactionNotFound = errors.New("ledger: transaction not found")
	ErrClosed              = errors.New("ledger: runtime closed")
)

// Result codes assigned by the runtime itself.
const (
	CodeSuccess             = "Success"
	CodeIllegalAccountWrite = "IllegalAccountWrite"
	CodeProgramFailed       = "ProgramFailed"
)

// RuntimeError is a failure the runtime assigns after the program returned,
// such as a write the program was not permitted to make.
type RuntimeError struct {
	Code    string
	Account string
	Message string
}

func (e *RuntimeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Account == "" {
		return fmt.Sprintf("ledger: %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("ledger: %s: account %s: %s", e.Code, e.Account, e.Message)
}

func (e *RuntimeError) ResultCode() string   { return e.Code }
func (e *RuntimeError) ResultNumber() uint64 { return 0 }
