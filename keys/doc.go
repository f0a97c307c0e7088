// Package keys is a local-first issuer keystore.
//
// Root seeds live at <dir>/<identifier>/root.key and role seeds derived from
// them at <dir>/<identifier>/roles/<role>.key. A seed file holds either the
// hex seed or, when the store has a passphrase, a sealed form of it.
// Addresses are the base58 ed25519 public keys used as issuer accounts.
package keys
