package identity

import "errors"

// Kind classifies an authentication failure.
type Kind string

const (
	KindInvalidCredentials Kind = "invalid-credentials"
	KindUserNotFound       Kind = "user-not-found"
	KindNetwork            Kind = "network-error"
	KindEmailInUse         Kind = "email-already-in-use"
	KindWeakPassword       Kind = "weak-password"
	KindInvalidEmail       Kind = "invalid-email"
)

// Error is the error type returned by sign-in, sign-up and sign-out. Match it
// with errors.Is against the sentinels below or read the Kind with KindOf.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return "identity: " + string(e.Kind) + ": " + e.Err.Error()
	}
	return "identity: " + string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials}
	ErrUserNotFound       = &Error{Kind: KindUserNotFound}
	ErrNetwork            = &Error{Kind: KindNetwork}
	ErrEmailInUse         = &Error{Kind: KindEmailInUse}
	ErrWeakPassword       = &Error{Kind: KindWeakPassword}
	ErrInvalidEmail       = &Error{Kind: KindInvalidEmail}
)

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// KindOf returns the Kind of err, or "" when err is not an identity error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
