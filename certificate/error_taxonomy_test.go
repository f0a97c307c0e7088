package certificate

import (
	"errors"
	"testing"
)

func encodedSample(t *testing.T) []byte {
	t.Helper()
	b, err := Encode(sampleCertificate())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return b
}

func TestDecode_ErrorTaxonomy(t *testing.T) {
	valid := encodedSample(t)

	overflow := append([]byte(nil), valid...)
	overflow[0] = 0xff // studentName length now exceeds the buffer

	badBool := append([]byte(nil), valid...)
	badBool[len(badBool)-1] = 2

	badUTF8 := append([]byte(nil), valid...)
	badUTF8[4] = 0xff // first byte of studentName

	cases := []struct {
		name   string
		buf    []byte
		ruleID string
	}{
		{"empty", nil, "CERT-DEC-001"},
		{"truncated", valid[:len(valid)-1], "CERT-DEC-001"},
		{"truncated in issue date", valid[:40], "CERT-DEC-001"},
		{"truncated in course name", valid[:30], "CERT-DEC-002"},
		{"length overflow", overflow, "CERT-DEC-002"},
		{"trailing", append(append([]byte(nil), valid...), 0), "CERT-DEC-003"},
		{"bad bool", badBool, "CERT-DEC-004"},
		{"bad utf8", badUTF8, "CERT-DEC-005"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.buf)
			if err == nil {
				t.Fatalf("expected error")
			}
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("expected structured *certificate.Error, got %T", err)
			}
			if e.Kind != KindDecode {
				t.Fatalf("expected KindDecode, got %s", e.Kind)
			}
			if e.RuleID != tc.ruleID {
				t.Fatalf("expected RuleID %s, got %s", tc.ruleID, e.RuleID)
			}
		})
	}
}

func TestDecode_ZeroFilledSlotIsNotARecord(t *testing.T) {
	// An allocated but never-issued slot of arbitrary size.
	_, err := Decode(make([]byte, 128))
	if !IsKind(err, KindDecode) {
		t.Fatalf("expected KindDecode, got %v", err)
	}
}
