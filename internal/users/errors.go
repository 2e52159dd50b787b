package users

import "errors"

var (
	// ErrInvalidCredentials is returned for both unknown emails and wrong
	// passwords so callers cannot tell which emails are registered.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// ValidationError reports the first constraint a create request violated.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
