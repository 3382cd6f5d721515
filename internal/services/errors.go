package services

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when no user exists for the given ID.
var ErrNotFound = errors.New("user not found")

// ErrInvalidCredentials is returned for any failed login attempt, whether
// the email is unknown or the password is wrong. Callers must not be able
// to tell the two apart.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ValidationErrors carries the field-level messages for a rejected create
// or update.
type ValidationErrors []string

func (v ValidationErrors) Error() string {
	return strings.Join(v, ", ")
}
