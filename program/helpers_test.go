package program

import (
	"fmt"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"

	"xdao.co/certlife/instruction"
	"xdao.co/certlife/ledger"
)

type fakeEnv struct {
	now  time.Time
	logs []string
}

func (e *fakeEnv) Now() time.Time { return e.now }

func (e *fakeEnv) Logf(format string, args ...any) {
	e.logs = append(e.logs, fmt.Sprintf(format, args...))
}

func (e *fakeEnv) logged(line string) bool {
	for _, l := range e.logs {
		if l == line {
			return true
		}
	}
	return false
}

var testTime = time.Unix(1234567890, 0)

func newEnv() *fakeEnv { return &fakeEnv{now: testTime} }

func newKey(t *testing.T) solana.PublicKey {
	t.Helper()
	pk, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("NewRandomPrivateKey: %v", err)
	}
	return pk.PublicKey()
}

func signer(key solana.PublicKey) *ledger.AccountInfo {
	return &ledger.AccountInfo{Key: key, Owner: solana.SystemProgramID, IsSigner: true}
}

func slot(t *testing.T, owner solana.PublicKey) *ledger.AccountInfo {
	t.Helper()
	return &ledger.AccountInfo{Key: newKey(t), Owner: owner, IsWritable: true}
}

func mustEncode(t *testing.T, cmd instruction.Command) []byte {
	t.Helper()
	b, err := instruction.Encode(cmd)
	if err != nil {
		t.Fatalf("instruction.Encode: %v", err)
	}
	return b
}

var johnDoe = instruction.Issue{
	StudentName:   "John Doe",
	CourseName:    "Blockchain Development",
	CertificateID: "CERT-001",
	Grade:         "A+",
}
