package keys

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gagliardetto/solana-go"
)

// KeyStore is a filesystem-backed store of issuer seeds.
//
// When Passphrase is set, new seed files are sealed with it and sealed files
// can be read. Plain hex files are always readable.
type KeyStore struct {
	Directory  string
	Passphrase []byte
}

type KeyEntry struct {
	Identifier string
	Roles      []string
}

func GetDefaultDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".xdao", "certlife", "keys"), nil
}

func CreateKeyStore(directory string) (*KeyStore, error) {
	if directory == "" {
		var err error
		directory, err = GetDefaultDirectory()
		if err != nil {
			return nil, err
		}
	}
	return &KeyStore{Directory: directory}, nil
}

func (ks *KeyStore) rootKeyPath(identifier string) string {
	return filepath.Join(ks.Directory, identifier, "root.key")
}

func (ks *KeyStore) roleKeyPath(identifier, role string) string {
	return filepath.Join(ks.Directory, identifier, "roles", role+".key")
}

func checkName(kind, s string) error {
	if s == "" {
		return fmt.Errorf("%s cannot be empty", kind)
	}
	for _, char := range s {
		if (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '-' || char == '_' {
			continue
		}
		return fmt.Errorf("invalid character %q in %s", char, kind)
	}
	return nil
}

func CheckKeyName(identifier string) error { return checkName("identifier", identifier) }

func CheckRole(role string) error { return checkName("role", role) }

func ParseSeedHex(seedHex string) ([]byte, error) {
	seedHex = strings.TrimSpace(seedHex)
	seedHex = strings.TrimPrefix(seedHex, "0x")
	data, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, err
	}
	if len(data) != ed25519.SeedSize {
		return nil, fmt.Errorf("expected seed length of %d bytes, got %d", ed25519.SeedSize, len(data))
	}
	return data, nil
}

func (ks *KeyStore) saveSeed(path string, seed []byte, overwrite bool) error {
	if len(seed) != ed25519.SeedSize {
		return fmt.Errorf("expected seed length of %d bytes", ed25519.SeedSize)
	}
	body := hex.EncodeToString(seed)
	if len(ks.Passphrase) > 0 {
		sealed, err := Seal(seed, ks.Passphrase)
		if err != nil {
			return err
		}
		body = sealed
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}
	file, err := os.OpenFile(path, flags, 0o600)
	if err != nil {
		return err
	}
	if _, err := file.WriteString(body + "\n"); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func (ks *KeyStore) loadSeed(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	body := strings.TrimSpace(string(data))
	if IsSealed(body) {
		if len(ks.Passphrase) == 0 {
			return nil, ErrPassphraseRequired
		}
		return Unseal(body, ks.Passphrase)
	}
	return ParseSeedHex(body)
}

func (ks *KeyStore) seedPath(identifier, role string) (string, error) {
	if err := CheckKeyName(identifier); err != nil {
		return "", err
	}
	if role == "" {
		return ks.rootKeyPath(identifier), nil
	}
	if err := CheckRole(role); err != nil {
		return "", err
	}
	return ks.roleKeyPath(identifier, role), nil
}

// InitializeRootKey writes seed as the root key of identifier and returns
// its address.
func (ks *KeyStore) InitializeRootKey(identifier string, seed []byte, overwrite bool) (address solana.PublicKey, path string, err error) {
	if err := CheckKeyName(identifier); err != nil {
		return solana.PublicKey{}, "", err
	}
	address, err = AddressFromSeed(seed)
	if err != nil {
		return solana.PublicKey{}, "", err
	}
	path = ks.rootKeyPath(identifier)
	if err := ks.saveSeed(path, seed, overwrite); err != nil {
		return solana.PublicKey{}, "", err
	}
	return address, path, nil
}

// DeriveKeyFromRole derives and stores the role key of identifier.
func (ks *KeyStore) DeriveKeyFromRole(identifier, role string, overwrite bool) (address solana.PublicKey, path string, err error) {
	if err := CheckKeyName(identifier); err != nil {
		return solana.PublicKey{}, "", err
	}
	if err := CheckRole(role); err != nil {
		return solana.PublicKey{}, "", err
	}
	rootSeed, err := ks.loadSeed(ks.rootKeyPath(identifier))
	if err != nil {
		return solana.PublicKey{}, "", err
	}
	roleSeed, err := DeriveRoleSeed(rootSeed, role)
	if err != nil {
		return solana.PublicKey{}, "", err
	}
	path = ks.roleKeyPath(identifier, role)
	if err := ks.saveSeed(path, roleSeed, overwrite); err != nil {
		return solana.PublicKey{}, "", err
	}
	address, err = AddressFromSeed(roleSeed)
	return address, path, err
}

// Address returns the address of identifier's root key, or of its role key
// when role is set.
func (ks *KeyStore) Address(identifier, role string) (solana.PublicKey, error) {
	seed, err := ks.Seed(identifier, role)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return AddressFromSeed(seed)
}

// Seed loads the seed of identifier (and role, if set).
func (ks *KeyStore) Seed(identifier, role string) ([]byte, error) {
	path, err := ks.seedPath(identifier, role)
	if err != nil {
		return nil, err
	}
	return ks.loadSeed(path)
}

// PrivateKey loads the signing key of identifier (and role, if set).
func (ks *KeyStore) PrivateKey(identifier, role string) (solana.PrivateKey, error) {
	seed, err := ks.Seed(identifier, role)
	if err != nil {
		return nil, err
	}
	return PrivateKeyFromSeed(seed)
}

// LoadSigner resolves a signing key from, in order: a hex seed, a key file,
// or a stored identifier/role.
func (ks *KeyStore) LoadSigner(seedHex, identifier, role, keyFile string) (solana.PrivateKey, error) {
	var seed []byte
	var err error
	switch {
	case seedHex != "":
		seed, err = ParseSeedHex(seedHex)
	case keyFile != "":
		seed, err = ks.loadSeed(keyFile)
	case identifier != "":
		seed, err = ks.Seed(identifier, role)
	default:
		return nil, errors.New("no signer provided")
	}
	if err != nil {
		return nil, err
	}
	return PrivateKeyFromSeed(seed)
}

func (ks *KeyStore) ListKeys() ([]KeyEntry, error) {
	entries, err := os.ReadDir(ks.Directory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var identifiers []string
	for _, entry := range entries {
		if entry.IsDir() {
			identifiers = append(identifiers, entry.Name())
		}
	}
	sort.Strings(identifiers)

	var result []KeyEntry
	for _, identifier := range identifiers {
		roleEntries, rerr := os.ReadDir(filepath.Join(ks.Directory, identifier, "roles"))
		var roles []string
		if rerr == nil {
			for _, roleEntry := range roleEntries {
				if !roleEntry.IsDir() && strings.HasSuffix(roleEntry.Name(), ".key") {
					roles = append(roles, strings.TrimSuffix(roleEntry.Name(), ".key"))
				}
			}
			sort.Strings(roles)
		}
		result = append(result, KeyEntry{Identifier: identifier, Roles: roles})
	}
	return result, nil
}
