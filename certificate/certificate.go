package certificate

import (
	"github.com/gagliardetto/solana-go"
)

// Certificate is the persistent record stored in a certificate account.
//
// Field order is the wire order; do not reorder.
type Certificate struct {
	StudentName   string
	CourseName    string
	IssueDate     int64
	Issuer        solana.PublicKey
	CertificateID string
	Grade         string
	IsRevoked     bool
}

// IssuedBy reports whether key is the recorded issuer.
func (c Certificate) IssuedBy(key solana.PublicKey) bool {
	return c.Issuer.Equals(key)
}
