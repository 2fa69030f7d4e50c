package engine

import (
	"errors"
	"fmt"
)

// Kind classifies a failure. Kinds travel as data inside results and summaries.
type Kind string

const (
	KindNoTranscripts     Kind = "NoTranscriptsAvailable"
	KindBackend           Kind = "BackendError"
	KindUnrecognizedShape Kind = "UnrecognizedPayloadShape"
	KindSearchProvider    Kind = "SearchProviderError"
	KindArtifactWrite     Kind = "ArtifactWriteError"
)

// Error is a failure tagged with its Kind.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf builds an *Error of the given kind with no underlying cause.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewError wraps cause under kind, keeping the cause's text as the message.
func NewError(kind Kind, cause error) *Error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return &Error{Kind: kind, Message: msg, Err: cause}
}

// KindOf returns the Kind carried by err, or KindBackend for untagged errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindBackend
}
