package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies failures so transports can map them uniformly.
type Kind string

const (
	KindInvalidArgument  Kind = "INVALID_ARGUMENT"
	KindUnauthenticated  Kind = "UNAUTHENTICATED"
	KindPermissionDenied Kind = "PERMISSION_DENIED"
	KindNotFound         Kind = "NOT_FOUND"
	KindQuotaExceeded    Kind = "QUOTA_EXCEEDED"
	KindInternal         Kind = "INTERNAL"
)

// Error is the one error type services return. Current/Limit are only
// meaningful for KindQuotaExceeded.
type Error struct {
	Kind    Kind
	Msg     string
	Cause   error
	Current int
	Limit   int
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

func InvalidArgument(msg string) *Error  { return &Error{Kind: KindInvalidArgument, Msg: msg} }
func Unauthenticated(msg string) *Error  { return &Error{Kind: KindUnauthenticated, Msg: msg} }
func PermissionDenied(msg string) *Error { return &Error{Kind: KindPermissionDenied, Msg: msg} }
func NotFound(msg string) *Error         { return &Error{Kind: KindNotFound, Msg: msg} }

func QuotaExceeded(current, limit int) *Error {
	return &Error{
		Kind:    KindQuotaExceeded,
		Msg:     fmt.Sprintf("plan limit reached (%d/%d)", current, limit),
		Current: current,
		Limit:   limit,
	}
}

// Internal wraps an unexpected store/runtime failure, keeping the cause for
// diagnostics.
func Internal(msg string, cause error) *Error {
	return &Error{Kind: KindInternal, Msg: msg, Cause: cause}
}

// KindOf reports the taxonomy kind of err, defaulting to KindInternal for
// anything that is not an *Error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// As is a convenience wrapper around errors.As for the callable surface.
func As(err error) (*Error, bool) {
	var ae *Error
	ok := errors.As(err, &ae)
	return ae, ok
}
