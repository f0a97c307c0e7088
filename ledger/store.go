package ledger

import (
	"sync"

	"github.com/gagliardetto/solana-go"
)

// Entry is one account write in a commit.
type Entry struct {
	Key     solana.PublicKey
	Account Account
}

// Store persists account state.
//
// Commit MUST apply all entries or none. Load reports found=false for an
// address that was never written.
type Store interface {
	Load(key solana.PublicKey) (Account, bool, error)
	Commit(entries []Entry) error
	Close() error
}

// MemoryStore keeps accounts in a map.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[solana.PublicKey]Account
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: make(map[solana.PublicKey]Account)}
}

func (s *MemoryStore) Load(key solana.PublicKey) (Account, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[key]
	if !ok {
		return Account{}, false, nil
	}
	return Account{Owner: a.Owner, Data: append([]byte(nil), a.Data...)}, true, nil
}

func (s *MemoryStore) Commit(entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.accounts[e.Key] = Account{Owner: e.Account.Owner, Data: append([]byte(nil), e.Account.Data...)}
	}
	return nil
}

func (s *MemoryStore) Close() error { return nil }
