package keys

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

const sealedPrefix = "sealed:v1:"

const (
	saltSize  = 16
	nonceSize = 24
)

var (
	ErrPassphraseRequired = errors.New("keys: seed file is sealed; passphrase required")
	ErrUnsealFailed       = errors.New("keys: wrong passphrase or corrupted seed file")
)

// scrypt cost; tests lower it.
var scryptN = 1 << 15

func sealKey(passphrase, salt []byte) (*[32]byte, error) {
	k, err := scrypt.Key(passphrase, salt, scryptN, 8, 1, 32)
	if err != nil {
		return nil, err
	}
	var key [32]byte
	copy(key[:], k)
	return &key, nil
}

// Seal encrypts seed under passphrase. The result is
// "sealed:v1:" + base64(salt || nonce || secretbox).
func Seal(seed, passphrase []byte) (string, error) {
	buf := make([]byte, saltSize+nonceSize)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	key, err := sealKey(passphrase, buf[:saltSize])
	if err != nil {
		return "", err
	}
	var nonce [nonceSize]byte
	copy(nonce[:], buf[saltSize:])
	out := secretbox.Seal(buf, seed, &nonce, key)
	return sealedPrefix + base64.StdEncoding.EncodeToString(out), nil
}

// Unseal reverses Seal.
func Unseal(sealed string, passphrase []byte) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(sealed, sealedPrefix))
	if err != nil || len(raw) < saltSize+nonceSize+secretbox.Overhead {
		return nil, ErrUnsealFailed
	}
	key, err := sealKey(passphrase, raw[:saltSize])
	if err != nil {
		return nil, err
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[saltSize:saltSize+nonceSize])
	seed, ok := secretbox.Open(nil, raw[saltSize+nonceSize:], &nonce, key)
	if !ok {
		return nil, ErrUnsealFailed
	}
	return seed, nil
}

// IsSealed reports whether a seed file body is in sealed form.
func IsSealed(body string) bool {
	return strings.HasPrefix(strings.TrimSpace(body), sealedPrefix)
}
