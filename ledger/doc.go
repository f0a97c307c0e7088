// Package ledger is a single-node account runtime.
//
// Accounts are addressed by ed25519 public keys and carry an owner tag and a
// data buffer. A Transaction names one program, the accounts it touches and
// an instruction buffer; it is signed by every account marked as signer.
// Runtime.Submit verifies signatures, runs the program against loaded copies
// of the accounts and commits the copies atomically only if the program
// succeeds and each write is permitted to that program.
//
// Invocations are serialized; no program ever observes a partial write.
package ledger
