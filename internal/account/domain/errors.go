package domain

import (
	"github.com/allisson/tokengate/internal/errors"
)

// Account domain errors.
var (
	// ErrAccountNotFound indicates an account with the specified ID or access key was not found.
	ErrAccountNotFound = errors.Wrap(errors.ErrNotFound, "account not found")

	// ErrEmailAlreadyRegistered indicates the email is already bound to an account.
	ErrEmailAlreadyRegistered = errors.Wrap(errors.ErrConflict, "email already registered")

	// ErrAccountSuspended indicates the account exists but may not authenticate.
	ErrAccountSuspended = errors.Wrap(errors.ErrForbidden, "account suspended")
)
