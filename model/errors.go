package model

import "fmt"

// ErrorCode classifies a failure for clients.
type ErrorCode string

const (
	// ErrInvalidRequest: the caller supplied an unusable argument.
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST"
	// ErrRejected: the ledger refused the transaction without running it.
	ErrRejected ErrorCode = "REJECTED"
	// ErrFailed: the transaction ran and its program failed.
	ErrFailed   ErrorCode = "FAILED"
	ErrNotFound ErrorCode = "NOT_FOUND"
	ErrInternal ErrorCode = "INTERNAL"
)

// CodedError is a stable error with a machine-readable code and a human message.
type CodedError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *CodedError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewError(code ErrorCode, message string) *CodedError {
	return &CodedError{Code: code, Message: message}
}

// Wrap classifies err under code. A nil err yields nil.
func Wrap(code ErrorCode, err error) *CodedError {
	if err == nil {
		return nil
	}
	return NewError(code, err.Error())
}
