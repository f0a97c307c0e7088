package program

import (
	"github.com/gagliardetto/solana-go"

	"xdao.co/certlife/instruction"
	"xdao.co/certlife/ledger"
)

// NewIssueTransaction builds an unsigned Issue transaction. issuer must sign
// it and target must already be owned by programID.
func NewIssueTransaction(programID, issuer, target solana.PublicKey, cmd instruction.Issue) (*ledger.Transaction, error) {
	data, err := instruction.Encode(cmd)
	if err != nil {
		return nil, err
	}
	return ledger.NewTransaction(programID, data,
		ledger.NewAccountMeta(issuer, false, true),
		ledger.NewAccountMeta(target, true, false),
	)
}

// NewVerifyTransaction builds a Verify transaction. It needs no signature.
func NewVerifyTransaction(programID, target solana.PublicKey) (*ledger.Transaction, error) {
	data, err := instruction.Encode(instruction.Verify{})
	if err != nil {
		return nil, err
	}
	return ledger.NewTransaction(programID, data, ledger.NewAccountMeta(target, false, false))
}

// NewRevokeTransaction builds an unsigned Revoke transaction. issuer must
// sign it.
func NewRevokeTransaction(programID, issuer, target solana.PublicKey) (*ledger.Transaction, error) {
	data, err := instruction.Encode(instruction.Revoke{})
	if err != nil {
		return nil, err
	}
	return ledger.NewTransaction(programID, data,
		ledger.NewAccountMeta(issuer, false, true),
		ledger.NewAccountMeta(target, true, false),
	)
}
