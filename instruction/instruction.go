// Package instruction defines the certificate program's command envelope.
//
// The envelope is a borsh enum: one tag byte followed by the variant's fields.
// Command is a closed set; the only implementations are Issue, Verify and Revoke.
package instruction

// Tag is the envelope discriminant.
type Tag uint8

const (
	TagIssue Tag = iota
	TagVerify
	TagRevoke
)

func (t Tag) String() string {
	switch t {
	case TagIssue:
		return "IssueCertificate"
	case TagVerify:
		return "VerifyCertificate"
	case TagRevoke:
		return "RevokeCertificate"
	default:
		return "Unknown"
	}
}

// Command is one decoded instruction.
type Command interface {
	Tag() Tag
	sealed()
}

// Issue creates a certificate record.
//
// Accounts: [issuer (signer), certificate (writable, owned by the program)].
type Issue struct {
	StudentName   string
	CourseName    string
	CertificateID string
	Grade         string
}

// Verify reports whether a certificate record is still valid.
//
// Accounts: [certificate].
type Verify struct{}

// Revoke marks a certificate record revoked.
//
// Accounts: [issuer (signer), certificate (writable, owned by the program)].
type Revoke struct{}

func (Issue) Tag() Tag  { return TagIssue }
func (Verify) Tag() Tag { return TagVerify }
func (Revoke) Tag() Tag { return TagRevoke }

func (Issue) sealed()  {}
func (Verify) sealed() {}
func (Revoke) sealed() {}
