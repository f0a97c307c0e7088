package storage

import (
	"fmt"

	"github.com/ipfs/go-cid"

	"xdao.co/certlife/cidutil"
)

// Mirror writes every object to all backends and reads them back in order.
//
// Backend order is the slice order and is fixed by the caller. A Put succeeds
// only when every backend returns the CID computed from the bytes. Has reports
// true only when every backend holds the object, so a Put that failed part way
// can be retried.
type Mirror struct {
	Backends []CAS
}

var _ CAS = Mirror{}

func (m Mirror) Put(bytes []byte) (cid.Cid, error) {
	if len(m.Backends) == 0 {
		return cid.Undef, ErrNoBackends
	}
	want, err := cidutil.Sum(bytes)
	if err != nil {
		return cid.Undef, err
	}
	for i, b := range m.Backends {
		if b == nil {
			return cid.Undef, fmt.Errorf("storage: nil backend at index %d", i)
		}
		got, err := b.Put(bytes)
		if err != nil {
			return cid.Undef, err
		}
		if !got.Equals(want) {
			return cid.Undef, ErrCIDMismatch
		}
	}
	return want, nil
}

func (m Mirror) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, ErrInvalidCID
	}
	for _, b := range m.Backends {
		if b == nil {
			continue
		}
		out, err := b.Get(id)
		if err == nil {
			return out, nil
		}
		if IsNotFound(err) {
			continue
		}
		return nil, err
	}
	return nil, ErrNotFound
}

func (m Mirror) Has(id cid.Cid) bool {
	if len(m.Backends) == 0 {
		return false
	}
	for _, b := range m.Backends {
		if b == nil || !b.Has(id) {
			return false
		}
	}
	return true
}
