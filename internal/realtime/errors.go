package realtime

import "errors"

// Errors reported to the originating session only.
var (
	ErrUnauthenticated      = errors.New("not authenticated")
	ErrAlreadyAuthenticated = errors.New("already authenticated")
	ErrRateLimited          = errors.New("too many messages, slow down")
	ErrInvalidToken         = errors.New("invalid token")
	ErrInvalidEvent         = errors.New("invalid event")
)

// ValidationError rejects malformed input. Message is shown to the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationError(msg string) error {
	return &ValidationError{Message: msg}
}
