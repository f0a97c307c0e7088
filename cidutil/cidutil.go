// Package cidutil derives the content identifiers used for archived
// transactions: CIDv1, raw codec, sha2-256 multihash.
package cidutil

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// Sum returns the CID of data.
func Sum(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// String is Sum rendered in the default base32 form; "" on failure.
func String(data []byte) string {
	id, err := Sum(data)
	if err != nil {
		return ""
	}
	return id.String()
}

// Parse decodes s and rejects CIDs that Sum could not have produced.
func Parse(s string) (cid.Cid, error) {
	id, err := cid.Decode(s)
	if err != nil {
		return cid.Undef, err
	}
	p := id.Prefix()
	if p.Version != 1 || p.Codec != cid.Raw || p.MhType != multihash.SHA2_256 {
		return cid.Undef, fmt.Errorf("cidutil: %s is not a raw sha2-256 CIDv1", s)
	}
	return id, nil
}

// Matches reports whether id is the CID of data.
func Matches(id cid.Cid, data []byte) bool {
	got, err := Sum(data)
	return err == nil && got.Equals(id)
}
