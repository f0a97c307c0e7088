package model

import (
	"time"

	"github.com/gagliardetto/solana-go"

	"xdao.co/certlife/certificate"
	"xdao.co/certlife/ledger"
)

// Certificate is the client view of a certificate record.
type Certificate struct {
	StudentName        string `json:"studentName"`
	CourseName         string `json:"courseName"`
	CertificateID      string `json:"certificateId"`
	Grade              string `json:"grade"`
	IssuerAddress      string `json:"issuerAddress"`
	IssueDate          string `json:"issueDate"`
	IsRevoked          bool   `json:"isRevoked"`
	CertificateAddress string `json:"certificateAddress,omitempty"`
}

// FromCertificate projects a record stored at address. IssueDate is
// rendered as RFC 3339 in UTC.
func FromCertificate(address solana.PublicKey, c certificate.Certificate) Certificate {
	out := Certificate{
		StudentName:   c.StudentName,
		CourseName:    c.CourseName,
		CertificateID: c.CertificateID,
		Grade:         c.Grade,
		IssuerAddress: c.Issuer.String(),
		IssueDate:     time.Unix(c.IssueDate, 0).UTC().Format(time.RFC3339),
		IsRevoked:     c.IsRevoked,
	}
	if !address.IsZero() {
		out.CertificateAddress = address.String()
	}
	return out
}

// Account is the client view of a ledger account. Certificate is set when
// the data decodes as a certificate record.
type Account struct {
	Address     string       `json:"address"`
	Owner       string       `json:"owner"`
	Data        []byte       `json:"data"`
	Certificate *Certificate `json:"certificate,omitempty"`
}

func FromAccount(address solana.PublicKey, a ledger.Account) Account {
	out := Account{Address: address.String(), Owner: a.Owner.String(), Data: a.Data}
	if c, err := certificate.Decode(a.Data); err == nil {
		mc := FromCertificate(address, c)
		out.Certificate = &mc
	}
	return out
}

// Receipt is the client view of an executed transaction.
type Receipt struct {
	TxID    string   `json:"txId"`
	Program string   `json:"program"`
	Code    string   `json:"code"`
	Number  uint64   `json:"number"`
	Logs    []string `json:"logs"`
	Error   string   `json:"error,omitempty"`
}

func FromReceipt(r ledger.Receipt) Receipt {
	out := Receipt{
		Program: r.Program.String(),
		Code:    r.Code,
		Number:  r.Number,
		Logs:    append([]string(nil), r.Logs...),
	}
	if r.TxID.Defined() {
		out.TxID = r.TxID.String()
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return out
}

func (r Receipt) OK() bool { return r.Error == "" }

// VerifyResult reports the outcome of a Verify transaction.
type VerifyResult struct {
	Valid       bool         `json:"valid"`
	Message     string       `json:"message"`
	Certificate *Certificate `json:"certificate,omitempty"`
}
