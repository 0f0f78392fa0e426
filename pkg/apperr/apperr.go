package apperr

import "errors"

// Kind classifies a failure for the HTTP boundary.
type Kind int

const (
	ClientInput Kind = iota
	NotFound
	Upstream
)

// Error carries a kind and a message that is safe to return to clients.
// The wrapped cause is for server-side logs only.
type Error struct {
	kind Kind
	msg  string
	err  error
}

func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{kind: kind, msg: msg, err: err}
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Kind() Kind { return e.kind }

// KindOf reports the kind carried by err, if any.
func KindOf(err error) (Kind, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.kind, true
	}
	return 0, false
}

// AsUpstream returns err unchanged when it already carries a kind, otherwise
// wraps it as an upstream failure with the given safe message.
func AsUpstream(err error, msg string) error {
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return Wrap(Upstream, msg, err)
}
