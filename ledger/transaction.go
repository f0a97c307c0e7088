package ledger

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/ipfs/go-cid"
	"github.com/near/borsh-go"

	"xdao.co/certlife/cidutil"
	"xdao.co/certlife/internal/wire"
)

// AccountMeta names one account of a transaction and how it is used.
type AccountMeta struct {
	PublicKey  solana.PublicKey
	IsWritable bool
	IsSigner   bool
}

func NewAccountMeta(key solana.PublicKey, writable, signer bool) AccountMeta {
	return AccountMeta{PublicKey: key, IsWritable: writable, IsSigner: signer}
}

// Message is the signed part of a transaction.
//
// Nonce distinguishes otherwise identical messages; the runtime rejects a
// transaction whose ID it has already archived.
type Message struct {
	ProgramID solana.PublicKey
	Accounts  []AccountMeta
	Data      []byte
	Nonce     uint64
}

// Bytes returns the payload that signers sign.
func (m Message) Bytes() ([]byte, error) {
	return borsh.Serialize(m)
}

// Signers returns the signer keys in account order.
func (m Message) Signers() []solana.PublicKey {
	var out []solana.PublicKey
	for _, a := range m.Accounts {
		if a.IsSigner {
			out = append(out, a.PublicKey)
		}
	}
	return out
}

type Transaction struct {
	Signatures []solana.Signature
	Message    Message
}

// NewTransaction builds an unsigned transaction with a random nonce.
func NewTransaction(programID solana.PublicKey, data []byte, accounts ...AccountMeta) (*Transaction, error) {
	var n [8]byte
	if _, err := rand.Read(n[:]); err != nil {
		return nil, err
	}
	return &Transaction{Message: Message{
		ProgramID: programID,
		Accounts:  accounts,
		Data:      data,
		Nonce:     binary.LittleEndian.Uint64(n[:]),
	}}, nil
}

// Sign replaces the signatures with one per signer, in account order.
// getter must return the private key for every signer.
func (tx *Transaction) Sign(getter func(key solana.PublicKey) *solana.PrivateKey) error {
	payload, err := tx.Message.Bytes()
	if err != nil {
		return err
	}
	signers := tx.Message.Signers()
	sigs := make([]solana.Signature, 0, len(signers))
	for _, key := range signers {
		pk := getter(key)
		if pk == nil {
			return fmt.Errorf("%w %s", ErrMissingSignerKey, key)
		}
		sig, err := pk.Sign(payload)
		if err != nil {
			return fmt.Errorf("ledger: sign for %s: %w", key, err)
		}
		sigs = append(sigs, sig)
	}
	tx.Signatures = sigs
	return nil
}

// VerifySignatures checks there is exactly one valid signature per signer.
func (tx *Transaction) VerifySignatures() error {
	payload, err := tx.Message.Bytes()
	if err != nil {
		return err
	}
	signers := tx.Message.Signers()
	if len(signers) != len(tx.Signatures) {
		return fmt.Errorf("%w: %d signatures for %d signers", ErrSignatureCount, len(tx.Signatures), len(signers))
	}
	for i, key := range signers {
		if !tx.Signatures[i].Verify(key, payload) {
			return fmt.Errorf("%w for %s", ErrInvalidSignature, key)
		}
	}
	return nil
}

func EncodeTransaction(tx *Transaction) ([]byte, error) {
	if tx == nil {
		return nil, ErrMalformedTransaction
	}
	return borsh.Serialize(*tx)
}

// DecodeTransaction parses bytes produced by EncodeTransaction. The whole
// buffer must be consumed.
func DecodeTransaction(b []byte) (*Transaction, error) {
	r := wire.NewReader(b)
	for n := r.Len(64); n > 0; n-- {
		r.Fixed(64)
	}
	r.Fixed(32)
	for n := r.Len(34); n > 0; n-- {
		r.Fixed(32)
		r.Bool()
		r.Bool()
	}
	r.Bytes()
	r.Fixed(8)
	if err := r.Finish(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTransaction, err)
	}
	var tx Transaction
	if err := borsh.Deserialize(&tx, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTransaction, err)
	}
	return &tx, nil
}

// TransactionID returns the CID of the encoded transaction.
func TransactionID(tx *Transaction) (cid.Cid, error) {
	b, err := EncodeTransaction(tx)
	if err != nil {
		return cid.Undef, err
	}
	return cidutil.Sum(b)
}
