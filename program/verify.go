package program

import (
	"xdao.co/certlife/certificate"
	"xdao.co/certlife/ledger"
)

// verify decodes the record, logs its audit trace and fails with
// RevokedCertificate if it has been revoked. It never writes.
func (p *Processor) verify(env ledger.Env, accounts []*ledger.AccountInfo) error {
	target, err := at(accounts, 0)
	if err != nil {
		return logged(env, err)
	}
	rec, err := certificate.Decode(target.Data)
	if err != nil {
		return wrapError(DecodeError, err.Error(), err)
	}
	for _, line := range certificate.Trace(rec) {
		env.Logf("%s", line)
	}
	if rec.IsRevoked {
		return logged(env, newError(RevokedCertificate, "WARNING: This certificate has been revoked!"))
	}
	env.Logf("Certificate is valid!")
	return nil
}
