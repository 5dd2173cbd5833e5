package domain

import "errors"

// ErrorKind classifies a domain failure so callers can branch on it
// without string matching.
type ErrorKind string

const (
	KindUserNotFound         ErrorKind = "user_not_found"
	KindInvalidPassword      ErrorKind = "invalid_password"
	KindInvalidCredentials   ErrorKind = "invalid_credentials"
	KindAccountDisabled      ErrorKind = "account_disabled"
	KindDuplicateIdentity    ErrorKind = "duplicate_identity"
	KindTokenExpired         ErrorKind = "token_expired"
	KindInvalidToken         ErrorKind = "invalid_token"
	KindNotificationFailure  ErrorKind = "notification_failure"
	KindCandidateNotFound    ErrorKind = "candidate_not_found"
	KindInvalidCandidateFile ErrorKind = "invalid_candidate_file"
	KindInvalidCandidate     ErrorKind = "invalid_candidate"
	KindPasswordTooLong      ErrorKind = "password_too_long"
)

// Error is a typed domain failure. Two errors with the same Kind compare
// equal under errors.Is, so a sentinel matches a copy carrying a cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// WithCause returns a copy of e that wraps cause.
func (e *Error) WithCause(cause error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Err: cause}
}

// WithMessage returns a copy of e with a more specific message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Kind: e.Kind, Message: msg, Err: e.Err}
}

var (
	ErrUserNotFound         = &Error{Kind: KindUserNotFound, Message: "user not found"}
	ErrInvalidPassword      = &Error{Kind: KindInvalidPassword, Message: "invalid password"}
	ErrInvalidCredentials   = &Error{Kind: KindInvalidCredentials, Message: "invalid credentials"}
	ErrAccountDisabled      = &Error{Kind: KindAccountDisabled, Message: "account disabled"}
	ErrDuplicateIdentity    = &Error{Kind: KindDuplicateIdentity, Message: "login name or email already registered"}
	ErrTokenExpired         = &Error{Kind: KindTokenExpired, Message: "token expired"}
	ErrInvalidToken         = &Error{Kind: KindInvalidToken, Message: "token is invalid"}
	ErrNotificationFailure  = &Error{Kind: KindNotificationFailure, Message: "could not deliver notification"}
	ErrCandidateNotFound    = &Error{Kind: KindCandidateNotFound, Message: "hired candidate not found"}
	ErrInvalidCandidateFile = &Error{Kind: KindInvalidCandidateFile, Message: "invalid candidate file"}
	ErrInvalidCandidate     = &Error{Kind: KindInvalidCandidate, Message: "invalid candidate"}
	ErrPasswordTooLong      = &Error{Kind: KindPasswordTooLong, Message: "password must be at most 72 bytes"}
)

// KindOf returns the kind of the first domain error in err's chain, or ""
// if there is none.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
