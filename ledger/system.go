package ledger

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// SystemAssign is the system program instruction that hands an account to
// another program. Its layout is a u32 LE tag followed by the new owner.
const SystemAssign uint32 = 1

var (
	ErrSystemInstruction = errors.New("system: invalid instruction")
	ErrAccountInUse      = errors.New("system: account already in use")
	ErrSystemSigner      = errors.New("system: account must sign its assignment")
)

// SystemProgram owns every fresh account. Its only instruction, Assign,
// gives an empty account to a program and must be signed by the account's
// own key.
//
// Accounts: [account (signer, writable)].
type SystemProgram struct{}

func (SystemProgram) ID() solana.PublicKey { return solana.SystemProgramID }

func (SystemProgram) Process(env Env, accounts []*AccountInfo, data []byte) error {
	owner, err := decodeAssign(data)
	if err != nil {
		return err
	}
	if len(accounts) != 1 {
		return fmt.Errorf("%w: assign takes one account, got %d", ErrSystemInstruction, len(accounts))
	}
	acct := accounts[0]
	if !acct.IsSigner {
		return ErrSystemSigner
	}
	if !acct.Owner.Equals(solana.SystemProgramID) || len(acct.Data) != 0 {
		return fmt.Errorf("%w: %s", ErrAccountInUse, acct.Key)
	}
	acct.Assign(owner)
	env.Logf("Assigned %s to %s", acct.Key, owner)
	return nil
}

// AssignInstruction returns the system instruction data assigning an account
// to owner.
func AssignInstruction(owner solana.PublicKey) []byte {
	b := make([]byte, 4+32)
	binary.LittleEndian.PutUint32(b, SystemAssign)
	copy(b[4:], owner[:])
	return b
}

func decodeAssign(data []byte) (solana.PublicKey, error) {
	if len(data) != 4+32 || binary.LittleEndian.Uint32(data) != SystemAssign {
		return solana.PublicKey{}, ErrSystemInstruction
	}
	return solana.PublicKeyFromBytes(data[4:]), nil
}

// NewAssignTransaction builds the unsigned system transaction giving account
// to owner. account must sign it.
func NewAssignTransaction(account, owner solana.PublicKey) (*Transaction, error) {
	return NewTransaction(solana.SystemProgramID, AssignInstruction(owner), NewAccountMeta(account, true, true))
}
