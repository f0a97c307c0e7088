package certificate

import (
	"strconv"
)

// Trace renders the human-readable audit lines for c, one field per line in
// a fixed order. The output is advisory and not meant to be parsed.
func Trace(c Certificate) []string {
	return []string{
		"Certificate Verification:",
		"Student Name: " + c.StudentName,
		"Course Name: " + c.CourseName,
		"Certificate ID: " + c.CertificateID,
		"Grade: " + c.Grade,
		"Issue Date: " + strconv.FormatInt(c.IssueDate, 10),
		"Issuer: " + c.Issuer.String(),
		"Is Revoked: " + strconv.FormatBool(c.IsRevoked),
	}
}
