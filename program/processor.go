package program

import (
	"crypto/sha256"

	"github.com/gagliardetto/solana-go"

	"xdao.co/certlife/instruction"
	"xdao.co/certlife/ledger"
)

// DefaultProgramID is the processor address used when none is configured.
var DefaultProgramID = solana.PublicKey(sha256.Sum256([]byte("xdao-certlife-program-v1")))

// Processor is the certificate program. It holds no state besides its ID.
type Processor struct {
	id solana.PublicKey
}

var _ ledger.Program = (*Processor)(nil)

func New(id solana.PublicKey) *Processor {
	return &Processor{id: id}
}

func (p *Processor) ID() solana.PublicKey { return p.id }

// Process decodes data and runs the matching operation with accounts
// unchanged.
func (p *Processor) Process(env ledger.Env, accounts []*ledger.AccountInfo, data []byte) error {
	cmd, err := instruction.Decode(data)
	if err != nil {
		return wrapError(MalformedCommand, "invalid instruction data: "+err.Error(), err)
	}
	switch c := cmd.(type) {
	case instruction.Issue:
		env.Logf("Instruction: Issue Certificate")
		return p.issue(env, accounts, c)
	case instruction.Verify:
		env.Logf("Instruction: Verify Certificate")
		return p.verify(env, accounts)
	case instruction.Revoke:
		env.Logf("Instruction: Revoke Certificate")
		return p.revoke(env, accounts)
	default:
		return newError(MalformedCommand, "unsupported instruction")
	}
}

// logged writes the human message of a guard or state failure to the
// invocation log and returns err.
func logged(env ledger.Env, err error) error {
	env.Logf("%s", err.Error())
	return err
}
