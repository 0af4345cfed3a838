// Package apperr classifies failures from remote collaborators so callers
// can turn them into user-facing state without inspecting transport details.
package apperr

import (
	"errors"
	"fmt"
)

// Kind buckets an error by which contract it broke.
type Kind string

const (
	// KindNetwork covers transport-level failures reaching a remote API.
	KindNetwork Kind = "NETWORK"
	// KindDecode covers responses whose shape does not match the contract.
	KindDecode Kind = "DECODE"
	// KindRemoteStore covers failed document-store operations. Callers must
	// treat the remote state as unknown: the operation may or may not have
	// applied.
	KindRemoteStore Kind = "REMOTE_STORE"
)

// Error carries the classification plus the operation that failed.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Op, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a classified error.
func New(kind Kind, op, message string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Cause: cause}
}

// Network wraps a transport failure.
func Network(op string, cause error) *Error {
	return New(KindNetwork, op, "", cause)
}

// Networkf creates a transport-level failure with a formatted message.
func Networkf(op, format string, args ...any) *Error {
	return New(KindNetwork, op, fmt.Sprintf(format, args...), nil)
}

// Decode wraps a malformed-response failure.
func Decode(op string, cause error) *Error {
	return New(KindDecode, op, "", cause)
}

// RemoteStore wraps a document-store failure.
func RemoteStore(op string, cause error) *Error {
	return New(KindRemoteStore, op, "", cause)
}

// RemoteStoref creates a document-store failure with a formatted message.
func RemoteStoref(op, format string, args ...any) *Error {
	return New(KindRemoteStore, op, fmt.Sprintf(format, args...), nil)
}

// IsKind reports whether err or anything it wraps carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
