// Package boltconn implements the physical connection state machine
// (spec.md §4.7): it sequences handshake, authentication, request/
// response, RESET and GOODBYE on top of pkg/bolt and pkg/bolt/messages,
// tracks connection state, and classifies server FAILUREs.
package boltconn

import "fmt"

// Code mirrors spec.md §7's flat error taxonomy in full, since this is
// the layer every other kind eventually surfaces through.
type Code int

const (
	Success Code = iota
	NetworkError
	HandshakeFailed
	UnsupportedProtocolVersion
	SerializationError
	DeserializationError
	InvalidMessageFormat
	RecursionDepthExceeded
	MessageTooLarge
	OutOfMemory
	InvalidArgument
	UnknownError
)

func (c Code) String() string {
	switch c {
	case Success:
		return "Success"
	case NetworkError:
		return "NetworkError"
	case HandshakeFailed:
		return "HandshakeFailed"
	case UnsupportedProtocolVersion:
		return "UnsupportedProtocolVersion"
	case SerializationError:
		return "SerializationError"
	case DeserializationError:
		return "DeserializationError"
	case InvalidMessageFormat:
		return "InvalidMessageFormat"
	case RecursionDepthExceeded:
		return "RecursionDepthExceeded"
	case MessageTooLarge:
		return "MessageTooLarge"
	case OutOfMemory:
		return "OutOfMemory"
	case InvalidArgument:
		return "InvalidArgument"
	case UnknownError:
		return "UnknownError"
	default:
		return "Unknown"
	}
}

type Error struct {
	Code Code
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("boltconn: %s: %s: %v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("boltconn: %s: %s", e.Code, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(code Code, msg string) *Error { return &Error{Code: code, Msg: msg} }

func wrapErr(code Code, msg string, err error) *Error {
	return &Error{Code: code, Msg: msg, Err: err}
}

func CodeOf(err error) Code {
	for err != nil {
		if ce, ok := err.(*Error); ok {
			return ce.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return Success
}

// FailureError wraps a server FAILURE (or IGNORED) reply so callers can
// recover its code and message with errors.As, alongside the Severity
// classification (spec.md §7). The reply's other metadata is not kept.
type FailureError struct {
	ServerCode    string
	ServerMessage string
	Severity      Severity
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("boltconn: server failure %s: %s", e.ServerCode, e.ServerMessage)
}
