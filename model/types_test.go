package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"

	"xdao.co/certlife/certificate"
	"xdao.co/certlife/ledger"
)

func TestFromAccount_DecodesCertificate(t *testing.T) {
	issuer := solana.NewWallet().PublicKey()
	addr := solana.NewWallet().PublicKey()
	data, err := certificate.Encode(certificate.Certificate{
		StudentName:   "John Doe",
		CourseName:    "Blockchain Development",
		IssueDate:     1700000000,
		Issuer:        issuer,
		CertificateID: "CERT-001",
		Grade:         "A+",
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	acct := FromAccount(addr, ledger.Account{Owner: issuer, Data: data})
	if acct.Certificate == nil {
		t.Fatalf("expected certificate projection")
	}
	c := acct.Certificate
	if c.IssuerAddress != issuer.String() || c.CertificateAddress != addr.String() {
		t.Fatalf("addresses not projected: %+v", c)
	}
	if c.IssueDate != "2023-11-14T22:13:20Z" {
		t.Fatalf("issueDate = %q", c.IssueDate)
	}

	b, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for _, field := range []string{`"studentName"`, `"courseName"`, `"certificateId"`, `"grade"`, `"issuerAddress"`, `"issueDate"`, `"isRevoked"`, `"certificateAddress"`} {
		if !strings.Contains(string(b), field) {
			t.Fatalf("JSON missing %s: %s", field, b)
		}
	}
}

func TestFromAccount_NonCertificate(t *testing.T) {
	acct := FromAccount(solana.NewWallet().PublicKey(), ledger.Account{Owner: solana.SystemProgramID})
	if acct.Certificate != nil {
		t.Fatalf("empty account must not project a certificate")
	}
	if acct.Owner != solana.SystemProgramID.String() {
		t.Fatalf("owner = %s", acct.Owner)
	}
}

func TestFromReceipt(t *testing.T) {
	r := FromReceipt(ledger.Receipt{Code: "Unauthorized", Number: 2, Logs: []string{"a"}, Err: errors.New("no")})
	if r.OK() || r.Error != "no" || r.Number != 2 || r.Code != "Unauthorized" {
		t.Fatalf("unexpected receipt %+v", r)
	}
	if !FromReceipt(ledger.Receipt{Code: "Success"}).OK() {
		t.Fatalf("success receipt must be OK")
	}
}

func TestCodedError(t *testing.T) {
	err := NewError(ErrNotFound, "account missing")
	if err.Error() != "NOT_FOUND: account missing" {
		t.Fatalf("got %q", err.Error())
	}
	var nilErr *CodedError
	if nilErr.Error() != "" {
		t.Fatalf("nil CodedError must render empty")
	}
	if Wrap(ErrFailed, nil) != nil {
		t.Fatalf("Wrap(nil) must be nil")
	}
	if got := Wrap(ErrFailed, errors.New("Unauthorized")).Error(); got != "FAILED: Unauthorized" {
		t.Fatalf("Wrap: got %q", got)
	}
}
