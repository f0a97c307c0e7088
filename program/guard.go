package program

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"xdao.co/certlife/ledger"
)

// Rule is one precondition on an invocation's accounts.
type Rule func(accounts []*ledger.AccountInfo) error

// Require checks rules in order and returns the first violation.
func Require(accounts []*ledger.AccountInfo, rules ...Rule) error {
	for _, rule := range rules {
		if err := rule(accounts); err != nil {
			return err
		}
	}
	return nil
}

// MinAccounts requires at least n accounts.
func MinAccounts(n int) Rule {
	return func(accounts []*ledger.AccountInfo) error {
		if len(accounts) < n {
			return newError(NotEnoughAccounts, fmt.Sprintf("expected %d accounts, got %d", n, len(accounts)))
		}
		return nil
	}
}

// Signer requires account i to have signed the invocation. role names the
// account in the failure message.
func Signer(i int, role string) Rule {
	return func(accounts []*ledger.AccountInfo) error {
		a, err := at(accounts, i)
		if err != nil {
			return err
		}
		if !a.IsSigner {
			return newError(MissingSigner, role+" must be a signer")
		}
		return nil
	}
}

// OwnedBy requires account i to be owned by owner.
func OwnedBy(i int, role string, owner solana.PublicKey) Rule {
	return func(accounts []*ledger.AccountInfo) error {
		a, err := at(accounts, i)
		if err != nil {
			return err
		}
		if !a.Owner.Equals(owner) {
			return newError(WrongOwner, role+" must be owned by this program")
		}
		return nil
	}
}

func at(accounts []*ledger.AccountInfo, i int) (*ledger.AccountInfo, error) {
	if i < 0 || i >= len(accounts) || accounts[i] == nil {
		return nil, newError(NotEnoughAccounts, fmt.Sprintf("missing account %d", i))
	}
	return accounts[i], nil
}
