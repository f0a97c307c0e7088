package ledger_test

import (
	"bytes"
	"testing"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/goleak"

	"xdao.co/certlife/certificate"
	"xdao.co/certlife/instruction"
	"xdao.co/certlife/ledger"
	"xdao.co/certlife/program"
)

func TestCertificateLifecycle_EndToEnd(t *testing.T) {
	defer goleak.VerifyNone(t)

	w := wallet{}
	p := program.New(program.DefaultProgramID)
	rt := newRuntime(t, p)
	issuer := w.add(t)
	other := w.add(t)
	slot := allocate(t, rt, w, p.ID())

	submit := func(signer solana.PublicKey, cmd instruction.Command) ledger.Receipt {
		t.Helper()
		data, err := instruction.Encode(cmd)
		if err != nil {
			t.Fatalf("instruction.Encode: %v", err)
		}
		var metas []ledger.AccountMeta
		if _, verify := cmd.(instruction.Verify); verify {
			metas = []ledger.AccountMeta{ledger.NewAccountMeta(slot, false, false)}
		} else {
			metas = []ledger.AccountMeta{
				ledger.NewAccountMeta(signer, false, true),
				ledger.NewAccountMeta(slot, true, false),
			}
		}
		rec, err := rt.Submit(signedTx(t, w, p.ID(), data, metas...))
		if err != nil {
			t.Fatalf("Submit %T: %v", cmd, err)
		}
		return rec
	}
	stored := func() []byte {
		t.Helper()
		a, err := rt.Account(slot)
		if err != nil {
			t.Fatalf("Account: %v", err)
		}
		return a.Data
	}

	rec := submit(issuer, instruction.Issue{
		StudentName:   "John Doe",
		CourseName:    "Blockchain Development",
		CertificateID: "CERT-001",
		Grade:         "A+",
	})
	if !rec.OK() || rec.Code != "Success" {
		t.Fatalf("issue: %s %v", rec.Code, rec.Err)
	}
	c, err := certificate.Decode(stored())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if c.StudentName != "John Doe" || c.CertificateID != "CERT-001" || c.IsRevoked || !c.IssuedBy(issuer) {
		t.Fatalf("unexpected record %+v", c)
	}
	if c.IssueDate != 1700000000 {
		t.Fatalf("issue date %d, want the runtime clock", c.IssueDate)
	}

	if rec := submit(issuer, instruction.Verify{}); !rec.OK() {
		t.Fatalf("verify: %v", rec.Err)
	}

	before := stored()
	rec = submit(other, instruction.Revoke{})
	if rec.Code != program.Unauthorized.String() || rec.Number != 2 {
		t.Fatalf("revoke by other: %s/%d", rec.Code, rec.Number)
	}
	if !bytes.Equal(stored(), before) {
		t.Fatalf("unauthorized revoke changed the account")
	}

	if rec := submit(issuer, instruction.Revoke{}); !rec.OK() {
		t.Fatalf("revoke: %v", rec.Err)
	}
	rec = submit(issuer, instruction.Verify{})
	if program.CodeOf(rec.Err) != program.RevokedCertificate || rec.Number != 1 {
		t.Fatalf("verify revoked: %s/%d %v", rec.Code, rec.Number, rec.Err)
	}
	found := false
	for _, l := range rec.Logs {
		if l == "WARNING: This certificate has been revoked!" {
			found = true
		}
	}
	if !found {
		t.Fatalf("revocation warning missing from logs: %q", rec.Logs)
	}
}

func TestCertificate_UnallocatedSlot(t *testing.T) {
	w := wallet{}
	p := program.New(program.DefaultProgramID)
	rt := newRuntime(t, p)
	issuer := w.add(t)
	slot := w.add(t)

	data, err := instruction.Encode(instruction.Issue{StudentName: "x"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	rec, err := rt.Submit(signedTx(t, w, p.ID(), data,
		ledger.NewAccountMeta(issuer, false, true),
		ledger.NewAccountMeta(slot, true, false),
	))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if program.CodeOf(rec.Err) != program.WrongOwner {
		t.Fatalf("got %v want WrongOwner", rec.Err)
	}
}

func TestCertificate_ReadOnlySlotCannotBeIssued(t *testing.T) {
	w := wallet{}
	p := program.New(program.DefaultProgramID)
	rt := newRuntime(t, p)
	issuer := w.add(t)
	slot := allocate(t, rt, w, p.ID())

	data, err := instruction.Encode(instruction.Issue{StudentName: "x"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	rec, err := rt.Submit(signedTx(t, w, p.ID(), data,
		ledger.NewAccountMeta(issuer, false, true),
		ledger.NewAccountMeta(slot, false, false),
	))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if rec.Code != ledger.CodeIllegalAccountWrite {
		t.Fatalf("got %s want IllegalAccountWrite", rec.Code)
	}
}
