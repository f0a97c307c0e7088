package certificate

import (
	"errors"

	"xdao.co/certlife/internal/wire"
)

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind/RuleID rather than matching error strings.
type Kind string

const (
	KindEncode Kind = "Encode"
	KindDecode Kind = "Decode"
)

// Error is the package's structured error type.
//
// RuleID names the violated layout rule (e.g. CERT-DEC-002).
// Message is intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

func wrapError(kind Kind, ruleID, msg string, cause error) error {
	if cause == nil {
		return newError(kind, ruleID, msg)
	}
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}

func decodeError(err error) error {
	switch {
	case errors.Is(err, wire.ErrTruncated):
		return wrapError(KindDecode, "CERT-DEC-001", "certificate: truncated record", err)
	case errors.Is(err, wire.ErrLengthOverflow):
		return wrapError(KindDecode, "CERT-DEC-002", "certificate: text length exceeds record", err)
	case errors.Is(err, wire.ErrTrailingBytes):
		return wrapError(KindDecode, "CERT-DEC-003", "certificate: trailing bytes after record", err)
	case errors.Is(err, wire.ErrInvalidBool):
		return wrapError(KindDecode, "CERT-DEC-004", "certificate: invalid revocation flag", err)
	case errors.Is(err, wire.ErrInvalidUTF8):
		return wrapError(KindDecode, "CERT-DEC-005", "certificate: text field is not valid UTF-8", err)
	default:
		return wrapError(KindDecode, "CERT-DEC-006", "certificate: undecodable record", err)
	}
}
