package keys

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// GenerateSeed returns a fresh random ed25519 seed.
func GenerateSeed() ([]byte, error) {
	seed := make([]byte, ed25519.SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, err
	}
	return seed, nil
}

// PrivateKeyFromSeed expands an ed25519 seed into a signing key.
func PrivateKeyFromSeed(seed []byte) (solana.PrivateKey, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("expected seed length of %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return solana.PrivateKey(ed25519.NewKeyFromSeed(seed)), nil
}

// AddressFromSeed returns the account address for seed.
func AddressFromSeed(seed []byte) (solana.PublicKey, error) {
	pk, err := PrivateKeyFromSeed(seed)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return pk.PublicKey(), nil
}

// DeriveRoleSeed deterministically derives a role-specific seed from a root
// seed.
func DeriveRoleSeed(rootSeed []byte, role string) ([]byte, error) {
	if len(rootSeed) != ed25519.SeedSize {
		return nil, fmt.Errorf("root seed must be %d bytes", ed25519.SeedSize)
	}
	if err := CheckRole(role); err != nil {
		return nil, err
	}

	h := sha256.New()
	_, _ = h.Write(rootSeed)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte("xdao-certlife-keys-v1"))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte("role:"))
	_, _ = h.Write([]byte(role))
	sum := h.Sum(nil)
	out := make([]byte, ed25519.SeedSize)
	copy(out, sum[:ed25519.SeedSize])
	return out, nil
}
