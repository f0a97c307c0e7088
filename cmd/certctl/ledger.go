package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/gagliardetto/solana-go"

	"xdao.co/certlife/cidutil"
	"xdao.co/certlife/instruction"
	"xdao.co/certlife/keys"
	"xdao.co/certlife/ledger"
	"xdao.co/certlife/ledgerrpc"
	"xdao.co/certlife/model"
	"xdao.co/certlife/program"
)

// ledgerFlags selects the daemon and certificate program to talk to.
type ledgerFlags struct {
	target  string
	program string
	timeout time.Duration
}

func (f *ledgerFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.target, "target", "127.0.0.1:7878", "certd gRPC address")
	fs.StringVar(&f.program, "program", "", "Certificate program address (default: the built-in program ID)")
	fs.DurationVar(&f.timeout, "timeout", 10*time.Second, "Dial and per-call timeout")
}

func (f *ledgerFlags) programID() (solana.PublicKey, error) {
	if f.program == "" {
		return program.DefaultProgramID, nil
	}
	return keys.ParseAddress(f.program)
}

func (f *ledgerFlags) dial() (*ledgerrpc.Client, error) {
	c, err := ledgerrpc.Dial(f.target, ledgerrpc.DialOptions{Timeout: f.timeout})
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", f.target, err)
	}
	c.Timeout = f.timeout
	return c, nil
}

// signerFlags resolves the issuer signing key.
type signerFlags struct {
	keyStoreFlags
	name    string
	role    string
	seedHex string
	keyFile string
}

func (f *signerFlags) register(fs *flag.FlagSet) {
	f.keyStoreFlags.register(fs)
	fs.StringVar(&f.name, "signer", "", "Issuer key name in the keystore")
	fs.StringVar(&f.role, "signer-role", "", "Optional role key of --signer")
	fs.StringVar(&f.seedHex, "seed-hex", "", "Issuer ed25519 seed as 64 hex chars")
	fs.StringVar(&f.keyFile, "key-file", "", "Path to an issuer seed file")
}

func (f *signerFlags) load() (solana.PrivateKey, error) {
	ks, err := f.open()
	if err != nil {
		return nil, err
	}
	return ks.LoadSigner(f.seedHex, f.name, f.role, f.keyFile)
}

func signTx(tx *ledger.Transaction, signers ...solana.PrivateKey) error {
	return tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		for i := range signers {
			if signers[i].PublicKey().Equals(key) {
				return &signers[i]
			}
		}
		return nil
	})
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printLogs(w io.Writer, rec model.Receipt) {
	for _, line := range rec.Logs {
		fmt.Fprintf(w, "log: %s\n", line)
	}
}

// receiptError is a transaction that executed and failed.
type receiptError struct {
	rec model.Receipt
}

func (e *receiptError) Error() string { return e.rec.Code + ": " + e.rec.Error }

// submit sends tx and turns a failed receipt into an error after printing
// its logs to errOut.
func submit(ctx context.Context, c *ledgerrpc.Client, tx *ledger.Transaction, errOut io.Writer) (model.Receipt, error) {
	rec, err := c.Submit(ctx, tx)
	if err != nil {
		return model.Receipt{}, err
	}
	if !rec.OK() {
		printLogs(errOut, rec)
		return rec, &receiptError{rec: rec}
	}
	return rec, nil
}

func cmdIssue(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("issue", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var lf ledgerFlags
	var sf signerFlags
	var cmd instruction.Issue
	lf.register(fs)
	sf.register(fs)
	fs.StringVar(&cmd.StudentName, "student", "", "Student name")
	fs.StringVar(&cmd.CourseName, "course", "", "Course name")
	fs.StringVar(&cmd.CertificateID, "id", "", "Certificate identifier")
	fs.StringVar(&cmd.Grade, "grade", "", "Grade")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if cmd.StudentName == "" || cmd.CourseName == "" || cmd.CertificateID == "" || cmd.Grade == "" {
		fmt.Fprintln(errOut, "missing --student, --course, --id or --grade")
		return 2
	}
	programID, err := lf.programID()
	if err != nil {
		fmt.Fprintf(errOut, "invalid --program: %v\n", err)
		return 2
	}
	issuer, err := sf.load()
	if err != nil {
		fmt.Fprintf(errOut, "signer: %v\n", err)
		return 2
	}
	slot, err := solana.NewRandomPrivateKey()
	if err != nil {
		fmt.Fprintf(errOut, "generate certificate account: %v\n", err)
		return 1
	}

	c, err := lf.dial()
	if err != nil {
		return fail(errOut, "connect", err)
	}
	defer c.Close()
	ctx := context.Background()

	alloc, err := ledger.NewAssignTransaction(slot.PublicKey(), programID)
	if err != nil {
		return fail(errOut, "allocate", err)
	}
	if err := signTx(alloc, slot); err != nil {
		return fail(errOut, "allocate", err)
	}
	if _, err := submit(ctx, c, alloc, errOut); err != nil {
		return fail(errOut, "allocate", err)
	}

	tx, err := program.NewIssueTransaction(programID, issuer.PublicKey(), slot.PublicKey(), cmd)
	if err != nil {
		fmt.Fprintf(errOut, "invalid certificate: %v\n", err)
		return 2
	}
	if err := signTx(tx, issuer); err != nil {
		return fail(errOut, "issue", err)
	}
	if _, err := submit(ctx, c, tx, errOut); err != nil {
		return fail(errOut, "issue", err)
	}

	acct, err := c.Account(ctx, slot.PublicKey())
	if err != nil {
		return fail(errOut, "fetch certificate", err)
	}
	if acct.Certificate == nil {
		return fail(errOut, "fetch certificate", errors.New("account does not hold a certificate"))
	}
	if err := writeJSON(out, acct.Certificate); err != nil {
		return fail(errOut, "write", err)
	}
	return 0
}

func cmdVerify(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var lf ledgerFlags
	var address string
	lf.register(fs)
	fs.StringVar(&address, "address", "", "Certificate account address")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	target, code := parseAddressFlag(errOut, address)
	if code != 0 {
		return code
	}
	programID, err := lf.programID()
	if err != nil {
		fmt.Fprintf(errOut, "invalid --program: %v\n", err)
		return 2
	}

	c, err := lf.dial()
	if err != nil {
		return fail(errOut, "connect", err)
	}
	defer c.Close()
	ctx := context.Background()

	tx, err := program.NewVerifyTransaction(programID, target)
	if err != nil {
		return fail(errOut, "verify", err)
	}
	rec, err := c.Submit(ctx, tx)
	if err != nil {
		return fail(errOut, "verify", err)
	}
	printLogs(errOut, rec)

	result := model.VerifyResult{Valid: rec.OK(), Message: "Certificate is valid!"}
	if !rec.OK() {
		result.Message = rec.Error
	}
	if acct, err := c.Account(ctx, target); err == nil {
		result.Certificate = acct.Certificate
	}
	if err := writeJSON(out, result); err != nil {
		return fail(errOut, "write", err)
	}
	if !result.Valid {
		return 1
	}
	return 0
}

func cmdRevoke(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("revoke", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var lf ledgerFlags
	var sf signerFlags
	var address string
	lf.register(fs)
	sf.register(fs)
	fs.StringVar(&address, "address", "", "Certificate account address")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	target, code := parseAddressFlag(errOut, address)
	if code != 0 {
		return code
	}
	programID, err := lf.programID()
	if err != nil {
		fmt.Fprintf(errOut, "invalid --program: %v\n", err)
		return 2
	}
	issuer, err := sf.load()
	if err != nil {
		fmt.Fprintf(errOut, "signer: %v\n", err)
		return 2
	}

	c, err := lf.dial()
	if err != nil {
		return fail(errOut, "connect", err)
	}
	defer c.Close()

	tx, err := program.NewRevokeTransaction(programID, issuer.PublicKey(), target)
	if err != nil {
		return fail(errOut, "revoke", err)
	}
	if err := signTx(tx, issuer); err != nil {
		return fail(errOut, "revoke", err)
	}
	rec, err := submit(context.Background(), c, tx, errOut)
	if err != nil {
		return fail(errOut, "revoke", err)
	}
	if err := writeJSON(out, rec); err != nil {
		return fail(errOut, "write", err)
	}
	return 0
}

func cmdShow(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var lf ledgerFlags
	var address string
	lf.register(fs)
	fs.StringVar(&address, "address", "", "Account address")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	key, code := parseAddressFlag(errOut, address)
	if code != 0 {
		return code
	}
	c, err := lf.dial()
	if err != nil {
		return fail(errOut, "connect", err)
	}
	defer c.Close()

	acct, err := c.Account(context.Background(), key)
	if err != nil {
		return fail(errOut, "show", err)
	}
	if err := writeJSON(out, acct); err != nil {
		return fail(errOut, "write", err)
	}
	return 0
}

type txAccount struct {
	Address  string `json:"address"`
	Signer   bool   `json:"signer"`
	Writable bool   `json:"writable"`
}

type txView struct {
	ID          string      `json:"id"`
	Program     string      `json:"program"`
	Instruction string      `json:"instruction,omitempty"`
	Accounts    []txAccount `json:"accounts"`
	Signatures  []string    `json:"signatures"`
	Nonce       uint64      `json:"nonce"`
}

func cmdTx(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("tx", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var lf ledgerFlags
	var idStr string
	lf.register(fs)
	fs.StringVar(&idStr, "id", "", "Transaction CID")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if idStr == "" {
		fmt.Fprintln(errOut, "missing --id")
		return 2
	}
	id, err := cidutil.Parse(idStr)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --id: %v\n", err)
		return 2
	}
	programID, err := lf.programID()
	if err != nil {
		fmt.Fprintf(errOut, "invalid --program: %v\n", err)
		return 2
	}
	c, err := lf.dial()
	if err != nil {
		return fail(errOut, "connect", err)
	}
	defer c.Close()

	raw, err := c.Transaction(context.Background(), id)
	if err != nil {
		return fail(errOut, "tx", err)
	}
	tx, err := ledger.DecodeTransaction(raw)
	if err != nil {
		return fail(errOut, "tx", err)
	}

	view := txView{
		ID:      id.String(),
		Program: tx.Message.ProgramID.String(),
		Nonce:   tx.Message.Nonce,
	}
	switch {
	case tx.Message.ProgramID.Equals(programID):
		if cmd, err := instruction.Decode(tx.Message.Data); err == nil {
			view.Instruction = cmd.Tag().String()
		}
	case tx.Message.ProgramID.Equals(solana.SystemProgramID):
		view.Instruction = "Assign"
	}
	for _, m := range tx.Message.Accounts {
		view.Accounts = append(view.Accounts, txAccount{Address: m.PublicKey.String(), Signer: m.IsSigner, Writable: m.IsWritable})
	}
	for _, s := range tx.Signatures {
		view.Signatures = append(view.Signatures, s.String())
	}
	if err := writeJSON(out, view); err != nil {
		return fail(errOut, "write", err)
	}
	return 0
}

func parseAddressFlag(errOut io.Writer, address string) (solana.PublicKey, int) {
	if address == "" {
		fmt.Fprintln(errOut, "missing --address")
		return solana.PublicKey{}, 2
	}
	key, err := keys.ParseAddress(address)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --address: %v\n", err)
		return solana.PublicKey{}, 2
	}
	return key, 0
}
