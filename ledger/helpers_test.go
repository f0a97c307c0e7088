package ledger_test

import (
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"

	"xdao.co/certlife/ledger"
)

// funcProgram runs fn as its Process.
type funcProgram struct {
	id solana.PublicKey
	fn func(env ledger.Env, accounts []*ledger.AccountInfo, data []byte) error
}

func (p funcProgram) ID() solana.PublicKey { return p.id }

func (p funcProgram) Process(env ledger.Env, accounts []*ledger.AccountInfo, data []byte) error {
	return p.fn(env, accounts, data)
}

type wallet map[solana.PublicKey]solana.PrivateKey

func (w wallet) add(t *testing.T) solana.PublicKey {
	t.Helper()
	pk, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("NewRandomPrivateKey: %v", err)
	}
	w[pk.PublicKey()] = pk
	return pk.PublicKey()
}

func (w wallet) getter(key solana.PublicKey) *solana.PrivateKey {
	pk, ok := w[key]
	if !ok {
		return nil
	}
	return &pk
}

func signedTx(t *testing.T, w wallet, programID solana.PublicKey, data []byte, metas ...ledger.AccountMeta) *ledger.Transaction {
	t.Helper()
	tx, err := ledger.NewTransaction(programID, data, metas...)
	if err != nil {
		t.Fatalf("NewTransaction: %v", err)
	}
	if err := tx.Sign(w.getter); err != nil {
		t.Fatalf("Sign: %v", err)
	}
	return tx
}

func newRuntime(t *testing.T, programs ...ledger.Program) *ledger.Runtime {
	t.Helper()
	rt, err := ledger.NewRuntime(ledger.Options{
		Clock:    ledger.FixedClock(time.Unix(1700000000, 0)),
		Programs: programs,
	})
	if err != nil {
		t.Fatalf("NewRuntime: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })
	return rt
}

// allocate assigns a fresh account to owner through the system program.
func allocate(t *testing.T, rt *ledger.Runtime, w wallet, owner solana.PublicKey) solana.PublicKey {
	t.Helper()
	key := w.add(t)
	tx := signedTx(t, w, solana.SystemProgramID, ledger.AssignInstruction(owner), ledger.NewAccountMeta(key, true, true))
	rec, err := rt.Submit(tx)
	if err != nil {
		t.Fatalf("Submit assign: %v", err)
	}
	if !rec.OK() {
		t.Fatalf("assign failed: %v", rec.Err)
	}
	return key
}
