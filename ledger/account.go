package ledger

import (
	"bytes"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"

	"xdao.co/certlife/internal/wire"
)

// Account is the persisted state of one address.
type Account struct {
	Owner solana.PublicKey
	Data  []byte
}

// Empty reports whether the account holds no data.
func (a Account) Empty() bool { return len(a.Data) == 0 }

func (a Account) equal(b Account) bool {
	return a.Owner.Equals(b.Owner) && bytes.Equal(a.Data, b.Data)
}

// EncodeAccount returns the stored form of a: owner (32 bytes) then a
// length-prefixed data buffer.
func EncodeAccount(a Account) ([]byte, error) {
	return borsh.Serialize(a)
}

func DecodeAccount(b []byte) (Account, error) {
	r := wire.NewReader(b)
	r.Fixed(32)
	r.Bytes()
	if err := r.Finish(); err != nil {
		return Account{}, fmt.Errorf("ledger: decode account: %w", err)
	}
	var a Account
	if err := borsh.Deserialize(&a, b); err != nil {
		return Account{}, fmt.Errorf("ledger: decode account: %w", err)
	}
	return a, nil
}

// AccountInfo is the view of one account a program receives for a single
// invocation. Changes are applied to the store only if the invocation
// succeeds.
type AccountInfo struct {
	Key        solana.PublicKey
	Owner      solana.PublicKey
	IsSigner   bool
	IsWritable bool
	Data       []byte
}

// SetData replaces the account buffer with a copy of b.
func (a *AccountInfo) SetData(b []byte) {
	a.Data = append([]byte(nil), b...)
}

// Assign changes the account owner.
func (a *AccountInfo) Assign(owner solana.PublicKey) {
	a.Owner = owner
}

func (a *AccountInfo) account() Account {
	return Account{Owner: a.Owner, Data: a.Data}
}
