package model

import (
	"errors"
	"fmt"
	"net/http"
)

// Programmer/config errors. These should not happen with correct wiring.
var (
	ErrInvalidSelection = errors.New("invalid selection: room id and room name must be set together")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrNoRoomSelected   = errors.New("no room selected")
)

// ValidationError means the server rejected the submitted fields.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return "validation failed"
	}
	return e.Message
}

// RemoteError means the server answered with a failure status.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("server error %d: %s", e.StatusCode, msg)
}

func (e *RemoteError) NotFound() bool { return e.StatusCode == http.StatusNotFound }

// NetworkError wraps transport failures (offline, refused, timeout).
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("%s: network error: %v", e.Op, e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// ProtocolError means the response body could not be understood.
type ProtocolError struct {
	Op  string
	Err error
}

func (e *ProtocolError) Error() string { return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Err) }
func (e *ProtocolError) Unwrap() error { return e.Err }

// Retryable reports whether a manual retry could plausibly succeed.
func Retryable(err error) bool {
	var ne *NetworkError
	var pe *ProtocolError
	return errors.As(err, &ne) || errors.As(err, &pe)
}

// UserMessage converts an error into the text shown to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Error()
	}
	if Retryable(err) {
		return "could not reach the server (retry to try again)"
	}
	return err.Error()
}
