// Package storage defines the immutable archive that keeps every submitted
// transaction, addressed by the CID of its encoded bytes.
package storage

import "github.com/ipfs/go-cid"

// CAS stores transaction bytes under their content identifier.
//
// Implementations guarantee that:
//   - Put of the same bytes returns the same CID and never fails because the
//     object already exists;
//   - an object, once stored, never changes;
//   - the CID is cidutil.Sum of the stored bytes;
//   - Get of an absent CID returns an error matching ErrNotFound.
type CAS interface {
	Put(bytes []byte) (cid.Cid, error)
	Get(id cid.Cid) ([]byte, error)
	Has(id cid.Cid) bool
}
