package certificate

import (
	"unicode/utf8"

	"github.com/near/borsh-go"

	"xdao.co/certlife/internal/wire"
)

// Encode returns the canonical bytes for c.
//
// Text fields must be valid UTF-8; anything else could never decode.
func Encode(c Certificate) ([]byte, error) {
	for _, f := range []struct{ name, value string }{
		{"studentName", c.StudentName},
		{"courseName", c.CourseName},
		{"certificateId", c.CertificateID},
		{"grade", c.Grade},
	} {
		if !utf8.ValidString(f.value) {
			return nil, newError(KindEncode, "CERT-ENC-001", "certificate: "+f.name+" is not valid UTF-8")
		}
	}
	b, err := borsh.Serialize(c)
	if err != nil {
		return nil, wrapError(KindEncode, "CERT-ENC-002", "certificate: serialize failed", err)
	}
	return b, nil
}

// Decode parses a record and rejects any buffer that is not exactly one
// canonical record.
func Decode(b []byte) (Certificate, error) {
	if err := checkLayout(b); err != nil {
		return Certificate{}, err
	}
	var c Certificate
	if err := borsh.Deserialize(&c, b); err != nil {
		return Certificate{}, decodeError(err)
	}
	return c, nil
}

func checkLayout(b []byte) error {
	r := wire.NewReader(b)
	r.String()  // studentName
	r.String()  // courseName
	r.Fixed(8)  // issueDate
	r.Fixed(32) // issuer
	r.String()  // certificateId
	r.String()  // grade
	r.Bool()    // isRevoked
	if err := r.Finish(); err != nil {
		return decodeError(err)
	}
	return nil
}
