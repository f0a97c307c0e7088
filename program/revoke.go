package program

import (
	"xdao.co/certlife/certificate"
	"xdao.co/certlife/ledger"
)

// revoke marks the record revoked. Only the recorded issuer may do so.
// Revoking a revoked record rewrites it unchanged and succeeds.
func (p *Processor) revoke(env ledger.Env, accounts []*ledger.AccountInfo) error {
	if err := Require(accounts,
		MinAccounts(2),
		Signer(0, "Issuer"),
		OwnedBy(1, "Certificate account", p.id),
	); err != nil {
		return logged(env, err)
	}
	issuer, target := accounts[0], accounts[1]

	rec, err := certificate.Decode(target.Data)
	if err != nil {
		return wrapError(DecodeError, err.Error(), err)
	}
	if !rec.IssuedBy(issuer.Key) {
		return logged(env, newError(Unauthorized, "Only the original issuer can revoke the certificate"))
	}

	rec.IsRevoked = true
	b, err := certificate.Encode(rec)
	if err != nil {
		return wrapError(DecodeError, "encode certificate", err)
	}
	target.SetData(b)

	env.Logf("Certificate revoked successfully")
	return nil
}
