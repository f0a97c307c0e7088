// Package badgerstore persists ledger accounts in badger. Each commit is a
// single badger transaction.
package badgerstore

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/gagliardetto/solana-go"

	"xdao.co/certlife/ledger"
)

var accountPrefix = []byte("acct/")

type Options struct {
	// Dir is the data directory. Empty opens an in-memory database.
	Dir    string
	Logger *slog.Logger
}

type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ ledger.Store = (*Store)(nil)

func Open(opts Options) (*Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	bopts := badger.DefaultOptions(opts.Dir).
		WithLogger(NewLogger(logger)).
		// The default INFO logging is a bit verbose
		WithLoggingLevel(badger.WARNING)
	if opts.Dir == "" {
		bopts = bopts.WithInMemory(true)
	} else if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("badgerstore: create data dir: %w", err)
	}
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("badgerstore: open: %w", err)
	}
	logger.Debug("account store opened", "component", "accountstore", "dir", opts.Dir)
	return &Store{db: db, logger: logger}, nil
}

func accountKey(key solana.PublicKey) []byte {
	k := make([]byte, 0, len(accountPrefix)+len(key))
	k = append(k, accountPrefix...)
	return append(k, key[:]...)
}

func (s *Store) Load(key solana.PublicKey) (ledger.Account, bool, error) {
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(accountKey(key))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ledger.Account{}, false, nil
	}
	if err != nil {
		return ledger.Account{}, false, err
	}
	a, err := ledger.DecodeAccount(raw)
	if err != nil {
		return ledger.Account{}, false, fmt.Errorf("badgerstore: account %s: %w", key, err)
	}
	return a, true, nil
}

func (s *Store) Commit(entries []ledger.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	return s.db.Update(func(txn *badger.Txn) error {
		for _, e := range entries {
			b, err := ledger.EncodeAccount(e.Account)
			if err != nil {
				return err
			}
			if err := txn.Set(accountKey(e.Key), b); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) Close() error {
	return s.db.Close()
}
