package keys

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
)

// ParseAddress decodes a base58 account address.
func ParseAddress(s string) (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(strings.TrimSpace(s))
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return key, nil
}

// ExportPrivateKey renders the 64-byte signing key in base58, the format
// wallets import.
func ExportPrivateKey(seed []byte) (string, error) {
	pk, err := PrivateKeyFromSeed(seed)
	if err != nil {
		return "", err
	}
	return pk.String(), nil
}
