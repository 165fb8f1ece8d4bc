package domain

import "errors"

// ErrNotConfigured marks an optional collaborator that was left unconfigured at startup.
var ErrNotConfigured = errors.New("not configured")

// ValidationError is a client error whose message is shown to the customer as-is.
type ValidationError struct {
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
