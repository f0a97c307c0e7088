package instruction

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func TestEncodeDecode_AllCommands(t *testing.T) {
	cmds := []Command{
		Issue{StudentName: "John Doe", CourseName: "Blockchain Development", CertificateID: "CERT-001", Grade: "A+"},
		Issue{},
		Verify{},
		Revoke{},
	}
	for _, want := range cmds {
		b, err := Encode(want)
		if err != nil {
			t.Fatalf("Encode(%T): %v", want, err)
		}
		if Tag(b[0]) != want.Tag() {
			t.Fatalf("tag byte %d, want %d", b[0], want.Tag())
		}
		got, err := Decode(b)
		if err != nil {
			t.Fatalf("Decode(%T): %v", want, err)
		}
		if got != want {
			t.Fatalf("round trip mismatch: got %#v want %#v", got, want)
		}
	}
}

func TestEncode_IssueLayout(t *testing.T) {
	b, err := Encode(Issue{StudentName: "a", CourseName: "bc", CertificateID: "", Grade: "d"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var want bytes.Buffer
	want.WriteByte(0)
	for _, s := range []string{"a", "bc", "", "d"} {
		_ = binary.Write(&want, binary.LittleEndian, uint32(len(s)))
		want.WriteString(s)
	}
	if !bytes.Equal(b, want.Bytes()) {
		t.Fatalf("layout mismatch:\n got %x\nwant %x", b, want.Bytes())
	}
}

func TestDecode_Malformed(t *testing.T) {
	issue, err := Encode(Issue{StudentName: "x", CourseName: "y", CertificateID: "z", Grade: "w"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	cases := []struct {
		name   string
		buf    []byte
		ruleID string
	}{
		{"empty", nil, "CERT-INS-001"},
		{"unknown tag", []byte{3}, "CERT-INS-002"},
		{"issue without fields", []byte{0}, "CERT-INS-003"},
		{"issue truncated", issue[:len(issue)-1], "CERT-INS-003"},
		{"issue trailing", append(append([]byte(nil), issue...), 0), "CERT-INS-004"},
		{"issue huge length", []byte{0, 0xff, 0xff, 0xff, 0xff}, "CERT-INS-003"},
		{"verify trailing", []byte{1, 0}, "CERT-INS-004"},
		{"revoke trailing", []byte{2, 0, 0}, "CERT-INS-004"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, err := Decode(tc.buf)
			if err == nil {
				t.Fatalf("expected error, got %#v", cmd)
			}
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("expected *instruction.Error, got %T", err)
			}
			if e.RuleID != tc.ruleID {
				t.Fatalf("expected %s, got %s (%v)", tc.ruleID, e.RuleID, err)
			}
		})
	}
}

func TestEncode_RejectsInvalidUTF8(t *testing.T) {
	_, err := Encode(Issue{StudentName: string([]byte{0xc3})})
	if RuleID(err) != "CERT-INS-005" {
		t.Fatalf("expected CERT-INS-005, got %v", err)
	}
}

func TestTag_String(t *testing.T) {
	if TagIssue.String() != "IssueCertificate" || TagVerify.String() != "VerifyCertificate" || TagRevoke.String() != "RevokeCertificate" {
		t.Fatalf("unexpected tag names")
	}
	if Tag(9).String() != "Unknown" {
		t.Fatalf("expected Unknown")
	}
}
