package llm

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"
)

// Kind is the sub-cause of a failed remote call.
type Kind string

const (
	KindRefused        Kind = "refused"
	KindNoResponse     Kind = "no_response"
	KindServerRejected Kind = "server_rejected"
	KindUnknown        Kind = "unknown"
)

const (
	ReasonRefused    = "Cannot connect to server. Please make sure the server is running."
	ReasonNoResponse = "No response from server. Please check your connection."
	ReasonGenerate   = "Failed to generate AI response"
)

// RemoteError is a failed login or text-generation call with a reason fit to
// show the user.
type RemoteError struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *RemoteError) Error() string { return e.Reason }

func (e *RemoteError) Unwrap() error { return e.Err }

// StatusError is a non-2xx reply. Message is the server-supplied text, if
// any.
type StatusError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unexpected status"
}

func (e *StatusError) Unwrap() error { return e.Err }

// Classify turns a transport or provider error into a RemoteError. fallback
// is used when nothing more specific can be said.
func Classify(err error, fallback string) *RemoteError {
	if err == nil {
		return nil
	}
	var re *RemoteError
	if errors.As(err, &re) {
		return re
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return &RemoteError{Kind: KindRefused, Reason: ReasonRefused, Err: err}
	}

	var status *StatusError
	if errors.As(err, &status) {
		reason := status.Message
		if reason == "" {
			reason = fallback
		}
		return &RemoteError{Kind: KindServerRejected, Reason: reason, Err: err}
	}

	if noResponse(err) {
		return &RemoteError{Kind: KindNoResponse, Reason: ReasonNoResponse, Err: err}
	}
	return &RemoteError{Kind: KindUnknown, Reason: fallback, Err: err}
}

func noResponse(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
