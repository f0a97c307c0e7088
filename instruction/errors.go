package instruction

import "errors"

// Error is returned for any envelope that does not match a known command shape.
//
// RuleID is stable (CERT-INS-001..); Message is for humans.
type Error struct {
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

func newError(ruleID, msg string, cause error) error {
	return &Error{RuleID: ruleID, Message: msg, Cause: cause}
}

// RuleID returns the stable RuleID for an envelope error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
