package storage

import "errors"

var (
	// ErrNotFound is returned by Get for a CID the archive does not hold.
	ErrNotFound = errors.New("storage: not found")
	// ErrInvalidCID rejects CIDs that are undefined or not CIDv1 raw sha2-256.
	ErrInvalidCID = errors.New("storage: invalid cid")
	// ErrCIDMismatch means stored or returned bytes do not hash to their CID.
	ErrCIDMismatch = errors.New("storage: cid mismatch")
	// ErrImmutable means a second write found different bytes at the same path.
	ErrImmutable  = errors.New("storage: immutable object mismatch")
	ErrNoBackends = errors.New("storage: no backends configured")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
