package instruction

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/near/borsh-go"

	"xdao.co/certlife/internal/wire"
)

// Encode returns the envelope bytes for cmd.
func Encode(cmd Command) ([]byte, error) {
	switch c := cmd.(type) {
	case Issue:
		for _, s := range []string{c.StudentName, c.CourseName, c.CertificateID, c.Grade} {
			if !utf8.ValidString(s) {
				return nil, newError("CERT-INS-005", "instruction: issue field is not valid UTF-8", nil)
			}
		}
		payload, err := borsh.Serialize(c)
		if err != nil {
			return nil, newError("CERT-INS-006", "instruction: serialize failed", err)
		}
		return append([]byte{byte(TagIssue)}, payload...), nil
	case Verify:
		return []byte{byte(TagVerify)}, nil
	case Revoke:
		return []byte{byte(TagRevoke)}, nil
	case nil:
		return nil, newError("CERT-INS-006", "instruction: nil command", nil)
	default:
		return nil, newError("CERT-INS-006", fmt.Sprintf("instruction: unsupported command %T", cmd), nil)
	}
}

// Decode parses an envelope. The whole buffer must be consumed.
func Decode(data []byte) (Command, error) {
	if len(data) == 0 {
		return nil, newError("CERT-INS-001", "instruction: empty envelope", nil)
	}
	tag, payload := Tag(data[0]), data[1:]
	switch tag {
	case TagIssue:
		r := wire.NewReader(payload)
		r.String()
		r.String()
		r.String()
		r.String()
		if err := r.Finish(); err != nil {
			if errors.Is(err, wire.ErrTrailingBytes) {
				return nil, newError("CERT-INS-004", "instruction: unexpected trailing bytes after issue", err)
			}
			return nil, newError("CERT-INS-003", "instruction: malformed issue payload", err)
		}
		var c Issue
		if err := borsh.Deserialize(&c, payload); err != nil {
			return nil, newError("CERT-INS-003", "instruction: malformed issue payload", err)
		}
		return c, nil
	case TagVerify, TagRevoke:
		if len(payload) != 0 {
			return nil, newError("CERT-INS-004", "instruction: unexpected payload for "+tag.String(), wire.ErrTrailingBytes)
		}
		if tag == TagVerify {
			return Verify{}, nil
		}
		return Revoke{}, nil
	default:
		return nil, newError("CERT-INS-002", fmt.Sprintf("instruction: unknown tag %d", data[0]), nil)
	}
}
