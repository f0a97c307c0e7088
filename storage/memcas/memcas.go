// Package memcas is an in-memory CAS for tests and ephemeral daemons.
package memcas

import (
	"bytes"
	"sync"

	"github.com/ipfs/go-cid"

	"xdao.co/certlife/cidutil"
	"xdao.co/certlife/storage"
)

type CAS struct {
	mu      sync.RWMutex
	objects map[cid.Cid][]byte
}

func New() *CAS {
	return &CAS{objects: make(map[cid.Cid][]byte)}
}

func (c *CAS) Put(b []byte) (cid.Cid, error) {
	id, err := cidutil.Sum(b)
	if err != nil {
		return cid.Undef, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.objects[id]; ok {
		if !bytes.Equal(existing, b) {
			return cid.Undef, storage.ErrImmutable
		}
		return id, nil
	}
	c.objects[id] = append([]byte(nil), b...)
	return id, nil
}

func (c *CAS) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, storage.ErrInvalidCID
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.objects[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), b...), nil
}

func (c *CAS) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.objects[id]
	return ok
}

// Len returns the number of stored objects.
func (c *CAS) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.objects)
}
