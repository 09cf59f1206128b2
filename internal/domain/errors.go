package domain

import "errors"

var (
	// ErrInvalidCredentials is the single, deliberately generic login
	// failure. It never reveals which field was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSuspended gates every mutation for a suspended tenant. Callers
	// translate it into a blocking notice; no partial execution happens.
	ErrSuspended = errors.New("workspace suspended")

	// ErrForbidden marks an operation outside the session's role.
	ErrForbidden = errors.New("insufficient role")

	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateCode     = errors.New("plantation code already exists")
	ErrSelfRemoval       = errors.New("cannot remove own account")
	ErrNotFound          = errors.New("not found")
	ErrNotAuthenticated  = errors.New("not authenticated")
)

// ValidationError reports a rejected creation form. The state is left
// unchanged when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// Invalid builds a ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
