package certificate

import (
	"strings"
	"testing"
)

func TestTrace_EveryField(t *testing.T) {
	c := sampleCertificate()
	lines := Trace(c)
	want := []string{
		"Certificate Verification:",
		"Student Name: John Doe",
		"Course Name: Blockchain Development",
		"Certificate ID: CERT-001",
		"Grade: A+",
		"Issue Date: 1234567890",
		"Issuer: " + c.Issuer.String(),
		"Is Revoked: false",
	}
	if strings.Join(lines, "\n") != strings.Join(want, "\n") {
		t.Fatalf("trace mismatch:\n%s", strings.Join(lines, "\n"))
	}
}
