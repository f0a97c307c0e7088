package program

import (
	"errors"

	"xdao.co/certlife/instruction"
)

// Code is the result code surfaced to callers.
type Code uint8

const (
	Success Code = iota
	MalformedCommand
	MissingSigner
	WrongOwner
	Unauthorized
	RevokedCertificate
	DecodeError
	NotEnoughAccounts
)

var codeNames = [...]string{
	Success:            "Success",
	MalformedCommand:   "MalformedCommand",
	MissingSigner:      "MissingSigner",
	WrongOwner:         "WrongOwner",
	Unauthorized:       "Unauthorized",
	RevokedCertificate: "RevokedCertificate",
	DecodeError:        "DecodeError",
	NotEnoughAccounts:  "NotEnoughAccounts",
}

func (c Code) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return "Unknown"
}

// ParseCode is the inverse of Code.String.
func ParseCode(s string) (Code, bool) {
	for i, n := range codeNames {
		if n == s {
			return Code(i), true
		}
	}
	return 0, false
}

// Builtin error numbers are shifted into the upper 32 bits so they never
// collide with the custom codes.
const builtinShift = 32

// Number is the numeric result code recorded in receipts. The two custom
// codes are small integers; the rest use the builtin numbering.
func (c Code) Number() uint64 {
	switch c {
	case Success:
		return 0
	case RevokedCertificate:
		return 1
	case Unauthorized:
		return 2
	case MalformedCommand:
		return 3 << builtinShift // InvalidInstructionData
	case WrongOwner:
		return 7 << builtinShift // IncorrectProgramId
	case MissingSigner:
		return 8 << builtinShift // MissingRequiredSignature
	case NotEnoughAccounts:
		return 11 << builtinShift // NotEnoughAccountKeys
	case DecodeError:
		return 15 << builtinShift // BorshIoError
	default:
		return 1 << builtinShift
	}
}

// Category is the failure class of a code.
type Category string

const (
	CategoryNone          Category = ""
	CategoryInputShape    Category = "InputShape"
	CategoryAuthorization Category = "Authorization"
	CategoryDomainState   Category = "DomainState"
)

func (c Code) Category() Category {
	switch c {
	case MalformedCommand, DecodeError:
		return CategoryInputShape
	case MissingSigner, WrongOwner, Unauthorized, NotEnoughAccounts:
		return CategoryAuthorization
	case RevokedCertificate:
		return CategoryDomainState
	default:
		return CategoryNone
	}
}

// Error is the processor's failure type.
//
// Message is intended for humans; do not match on it.
type Error struct {
	Code    Code
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

// ResultCode and ResultNumber satisfy ledger.ResultCoder.
func (e *Error) ResultCode() string   { return e.Code.String() }
func (e *Error) ResultNumber() uint64 { return e.Code.Number() }

func newError(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

func wrapError(code Code, msg string, cause error) error {
	return &Error{Code: code, Message: msg, Cause: cause}
}

// CodeOf returns the Code carried by err. nil is Success. Envelope errors
// are MalformedCommand; record errors and anything else are DecodeError.
func CodeOf(err error) Code {
	if err == nil {
		return Success
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var ie *instruction.Error
	if errors.As(err, &ie) {
		return MalformedCommand
	}
	return DecodeError
}

// IsCode reports whether err carries code.
func IsCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
