package device

import (
	"errors"
	"fmt"
)

// AuthErrorKind - Classification of a failed login.
type AuthErrorKind int

// Authentication failure kinds.
const (
	// AuthInvalidCredentials - The device rejected the credentials.
	AuthInvalidCredentials AuthErrorKind = iota
	// AuthUnreachable - The device could not be reached at all.
	AuthUnreachable
	// AuthProtocolMismatch - The login page didn't match any known scheme,
	// likely firmware drift.
	AuthProtocolMismatch
)

func (kind AuthErrorKind) String() string {
	switch kind {
	case AuthInvalidCredentials:
		return "invalid credentials"
	case AuthUnreachable:
		return "unreachable"
	case AuthProtocolMismatch:
		return "protocol mismatch"
	default:
		return "unknown"
	}
}

// AuthError - Login failure with its classification.
type AuthError struct {
	Kind AuthErrorKind
	Err  error
}

func (err *AuthError) Error() string {
	if err.Err != nil {
		return fmt.Sprintf("authentication failed (%v): %v", err.Kind, err.Err)
	}
	return fmt.Sprintf("authentication failed (%v)", err.Kind)
}

func (err *AuthError) Unwrap() error {
	return err.Err
}

// AuthErrorIs - Check whether an error wraps an AuthError of the given kind.
func AuthErrorIs(err error, kind AuthErrorKind) bool {
	var authErr *AuthError
	return errors.As(err, &authErr) && authErr.Kind == kind
}
