// Package apperr carries the business-rule error kinds the service layer
// reports to callers. Every kind is recoverable: handlers map kinds to HTTP
// statuses, while errors without a kind are treated as internal faults.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a business-rule violation.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindForbidden
	KindInvalidState
	KindCapacityExceeded
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindForbidden:
		return "forbidden"
	case KindInvalidState:
		return "invalid state"
	case KindCapacityExceeded:
		return "capacity exceeded"
	}
	return "unknown"
}

// Error is a business-rule violation with a caller-facing message.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// NotFound reports that a referenced entity does not exist.
func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Forbidden reports an ownership or role violation.
func Forbidden(format string, args ...any) error {
	return &Error{Kind: KindForbidden, Msg: fmt.Sprintf(format, args...)}
}

// InvalidState reports a business-rule violation such as an illegal status
// transition, an unpurchasable product or an empty cart.
func InvalidState(format string, args ...any) error {
	return &Error{Kind: KindInvalidState, Msg: fmt.Sprintf(format, args...)}
}

// CapacityExceeded reports that a requested quantity exceeds available stock.
func CapacityExceeded(format string, args ...any) error {
	return &Error{Kind: KindCapacityExceeded, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind carried by err, or KindUnknown for errors that did
// not originate from this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}
