// Package program is the certificate instruction processor.
//
// A Processor is a ledger.Program. For each invocation it decodes the
// instruction envelope, checks signer and ownership requirements on the
// supplied accounts, and issues, verifies or revokes the certificate record
// held in the target account.
//
// Accounts by instruction:
//
//	Issue   [issuer (signer), certificate (writable, owned by the processor)]
//	Verify  [certificate]
//	Revoke  [issuer (signer), certificate (writable, owned by the processor)]
//
// Failures are *Error values carrying a Code; CodeOf maps any error to its
// Code.
package program
