package ledger_test

import (
	"errors"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/ipfs/go-cid"

	"xdao.co/certlife/ledger"
	"xdao.co/certlife/storage"
	"xdao.co/certlife/storage/memcas"
)

// brokenOnce fails its first Put and then delegates.
type brokenOnce struct {
	storage.CAS
	broken bool
}

func (b *brokenOnce) Put(data []byte) (cid.Cid, error) {
	if !b.broken {
		b.broken = true
		return cid.Undef, errors.New("disk full")
	}
	return b.CAS.Put(data)
}

func TestSubmit_RetryAfterPartialArchiveWrite(t *testing.T) {
	archive := storage.Mirror{Backends: []storage.CAS{memcas.New(), &brokenOnce{CAS: memcas.New()}}}
	rt, err := ledger.NewRuntime(ledger.Options{
		Archive: archive,
		Clock:   ledger.FixedClock(time.Unix(1700000000, 0)),
	})
	if err != nil {
		t.Fatalf("NewRuntime: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })

	w := wallet{}
	owner := w.add(t)
	key := w.add(t)
	tx := signedTx(t, w, solana.SystemProgramID, ledger.AssignInstruction(owner), ledger.NewAccountMeta(key, true, true))

	if _, err := rt.Submit(tx); err == nil {
		t.Fatalf("expected archive error")
	}
	if _, err := rt.Account(key); !errors.Is(err, ledger.ErrAccountNotFound) {
		t.Fatalf("failed submit must not create the account, got %v", err)
	}

	rec, err := rt.Submit(tx)
	if err != nil {
		t.Fatalf("retry Submit: %v", err)
	}
	if !rec.OK() {
		t.Fatalf("retry failed: %v", rec.Err)
	}
	if _, err := rt.Transaction(rec.TxID); err != nil {
		t.Fatalf("Transaction: %v", err)
	}
	if _, err := rt.Submit(tx); !errors.Is(err, ledger.ErrDuplicateTransaction) {
		t.Fatalf("third submit: got %v want ErrDuplicateTransaction", err)
	}
}
