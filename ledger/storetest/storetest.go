// Package storetest holds the conformance suite for ledger.Store backends.
package storetest

import (
	"bytes"
	"testing"

	"github.com/gagliardetto/solana-go"

	"xdao.co/certlife/ledger"
)

// NewStore constructs a fresh, empty store. The suite closes it.
type NewStore func(t *testing.T) ledger.Store

func newKey(t *testing.T) solana.PublicKey {
	t.Helper()
	pk, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("NewRandomPrivateKey: %v", err)
	}
	return pk.PublicKey()
}

func RunStoreConformance(t *testing.T, newStore NewStore) {
	t.Helper()

	open := func(t *testing.T) ledger.Store {
		s := newStore(t)
		t.Cleanup(func() {
			if err := s.Close(); err != nil {
				t.Errorf("Close failed: %v", err)
			}
		})
		return s
	}

	t.Run("LoadMissing", func(t *testing.T) {
		s := open(t)
		_, found, err := s.Load(newKey(t))
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if found {
			t.Fatalf("Load reported a never-written account")
		}
	})

	t.Run("CommitLoad", func(t *testing.T) {
		s := open(t)
		key, owner := newKey(t), newKey(t)
		if err := s.Commit([]ledger.Entry{{Key: key, Account: ledger.Account{Owner: owner, Data: []byte("record")}}}); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}
		a, found, err := s.Load(key)
		if err != nil || !found {
			t.Fatalf("Load: found=%v err=%v", found, err)
		}
		if !a.Owner.Equals(owner) || !bytes.Equal(a.Data, []byte("record")) {
			t.Fatalf("Load mismatch: %+v", a)
		}
	})

	t.Run("EmptyAccount", func(t *testing.T) {
		s := open(t)
		key, owner := newKey(t), newKey(t)
		if err := s.Commit([]ledger.Entry{{Key: key, Account: ledger.Account{Owner: owner}}}); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}
		a, found, err := s.Load(key)
		if err != nil || !found {
			t.Fatalf("Load: found=%v err=%v", found, err)
		}
		if !a.Empty() || !a.Owner.Equals(owner) {
			t.Fatalf("Load mismatch: %+v", a)
		}
	})

	t.Run("CommitBatchOverwrites", func(t *testing.T) {
		s := open(t)
		a, b, owner := newKey(t), newKey(t), newKey(t)
		if err := s.Commit([]ledger.Entry{{Key: a, Account: ledger.Account{Owner: owner, Data: []byte("v1")}}}); err != nil {
			t.Fatalf("Commit(1) failed: %v", err)
		}
		batch := []ledger.Entry{
			{Key: a, Account: ledger.Account{Owner: owner, Data: []byte("v2")}},
			{Key: b, Account: ledger.Account{Owner: owner, Data: []byte("b")}},
		}
		if err := s.Commit(batch); err != nil {
			t.Fatalf("Commit(2) failed: %v", err)
		}
		for _, e := range batch {
			got, found, err := s.Load(e.Key)
			if err != nil || !found {
				t.Fatalf("Load: found=%v err=%v", found, err)
			}
			if !bytes.Equal(got.Data, e.Account.Data) {
				t.Fatalf("Load %s: got %q want %q", e.Key, got.Data, e.Account.Data)
			}
		}
	})

	t.Run("LoadReturnsCopy", func(t *testing.T) {
		s := open(t)
		key := newKey(t)
		data := []byte("abc")
		if err := s.Commit([]ledger.Entry{{Key: key, Account: ledger.Account{Owner: key, Data: data}}}); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}
		data[0] = 'x'
		a, _, err := s.Load(key)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		a.Data[0] = 'y'
		again, _, err := s.Load(key)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if string(again.Data) != "abc" {
			t.Fatalf("stored account aliased caller memory: %q", again.Data)
		}
	})
}
