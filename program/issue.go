package program

import (
	"xdao.co/certlife/certificate"
	"xdao.co/certlife/instruction"
	"xdao.co/certlife/ledger"
)

// issue writes a fresh record into the target account, replacing whatever it
// held. Issuer and IssueDate come from the invocation, never from cmd.
func (p *Processor) issue(env ledger.Env, accounts []*ledger.AccountInfo, cmd instruction.Issue) error {
	if err := Require(accounts,
		MinAccounts(2),
		Signer(0, "Issuer"),
		OwnedBy(1, "Certificate account", p.id),
	); err != nil {
		return logged(env, err)
	}
	issuer, target := accounts[0], accounts[1]

	rec := certificate.Certificate{
		StudentName:   cmd.StudentName,
		CourseName:    cmd.CourseName,
		IssueDate:     env.Now().Unix(),
		Issuer:        issuer.Key,
		CertificateID: cmd.CertificateID,
		Grade:         cmd.Grade,
		IsRevoked:     false,
	}
	b, err := certificate.Encode(rec)
	if err != nil {
		return wrapError(DecodeError, "encode certificate", err)
	}
	target.SetData(b)

	env.Logf("Certificate issued successfully")
	return nil
}
