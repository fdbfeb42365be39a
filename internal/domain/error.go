package domain

import (
	"context"
	"errors"
	"strings"
)

type ErrorCode string

const (
	CodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeUnavailable     ErrorCode = "UNAVAILABLE"
	CodeFailedPrecond   ErrorCode = "FAILED_PRECONDITION"
	CodeInternal        ErrorCode = "INTERNAL"
	CodeCanceled        ErrorCode = "CANCELED"
)

var (
	ErrUnknownTool     = errors.New(MessageUnknownTool)
	ErrUnsupportedTool = errors.New(MessageUnsupportedTool)
	ErrInvalidInput    = errors.New(MessageInvalidInput)
	ErrCancelled       = errors.New(MessageCancelled)
	ErrTaskNotFound    = errors.New("task not found")
	ErrTaskCompleted   = errors.New("task already completed")
	ErrInvalidCursor   = errors.New("invalid cursor")
	ErrRecordNotFound  = errors.New("history record not found")
	ErrStoreClosed     = errors.New("history store is closed")
)

// Error carries a failure code through the service layers. Processing
// failures inside a run are reported as ProcessResult data instead.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	parts := make([]string, 0, 3)
	if e.Op != "" {
		parts = append(parts, e.Op)
	}
	parts = append(parts, string(e.Code))
	if msg != "" {
		parts = append(parts, msg)
	}
	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// E builds a coded error. An empty msg takes the cause's text.
func E(code ErrorCode, op, msg string, cause error) *Error {
	if msg == "" && cause != nil {
		msg = cause.Error()
	}
	return &Error{Code: code, Op: op, Message: msg, Cause: cause}
}

// Wrap codes err unless it already carries a code, in which case only a
// missing op is filled in.
func Wrap(code ErrorCode, op string, err error) *Error {
	if err == nil {
		return nil
	}
	var existing *Error
	if !errors.As(err, &existing) {
		return E(code, op, "", err)
	}
	if existing.Op != "" || op == "" {
		return existing
	}
	wrapped := *existing
	wrapped.Op = op
	return &wrapped
}

// CodeFrom resolves the code of err, falling back to the sentinel errors.
func CodeFrom(err error) (ErrorCode, bool) {
	if err == nil {
		return "", false
	}
	var coded *Error
	if errors.As(err, &coded) && coded.Code != "" {
		return coded.Code, true
	}
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidCursor):
		return CodeInvalidArgument, true
	case errors.Is(err, ErrUnknownTool), errors.Is(err, ErrTaskNotFound), errors.Is(err, ErrRecordNotFound):
		return CodeNotFound, true
	case errors.Is(err, ErrUnsupportedTool), errors.Is(err, ErrTaskCompleted):
		return CodeFailedPrecond, true
	case errors.Is(err, ErrCancelled), errors.Is(err, context.Canceled):
		return CodeCanceled, true
	case errors.Is(err, ErrStoreClosed):
		return CodeUnavailable, true
	default:
		return "", false
	}
}
