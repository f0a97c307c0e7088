package ledger

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
)

// Env is what the runtime exposes to a program during one invocation.
type Env interface {
	Now() time.Time
	// Logf appends a line to the invocation log returned in the Receipt.
	Logf(format string, args ...any)
}

// Program handles instructions addressed to its ID.
//
// Process receives the accounts in transaction order. Returning a non-nil
// error discards every change made to accounts.
type Program interface {
	ID() solana.PublicKey
	Process(env Env, accounts []*AccountInfo, data []byte) error
}

// ResultCoder is implemented by program errors that carry a stable result
// code. Receipts copy the code and number from the failing error.
type ResultCoder interface {
	error
	ResultCode() string
	ResultNumber() uint64
}

type invocationEnv struct {
	now  time.Time
	logs []string
}

func (e *invocationEnv) Now() time.Time { return e.now }

func (e *invocationEnv) Logf(format string, args ...any) {
	e.logs = append(e.logs, fmt.Sprintf(format, args...))
}
