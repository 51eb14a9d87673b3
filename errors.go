package semaphore

import (
	"fmt"

	"github.com/pkg/errors"
)

// MaxRecipients is the number of recipients the API accepts in a single send.
const MaxRecipients = 1000

var TooManyRecipientsErr = &ValidationError{
	Field:   "number",
	Message: fmt.Sprintf("API is limited to sending to %d recipients at a time", MaxRecipients),
}

// ValidationError is returned before any request is made when the input
// cannot be sent to the gateway.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StatusError is returned together with the response when the gateway
// answers with a status outside of the 2xx range.
type StatusError struct {
	Method   string
	Path     string
	Response Response
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Unexpected response code %d received from semaphore for %s %s",
		e.Response.StatusCode, e.Method, e.Path)
}

// IsValidationError reports whether the cause of err is a *ValidationError.
func IsValidationError(err error) bool {
	_, ok := errors.Cause(err).(*ValidationError)
	return ok
}

// IsStatusError reports whether the cause of err is a *StatusError.
func IsStatusError(err error) bool {
	_, ok := errors.Cause(err).(*StatusError)
	return ok
}
