package cleverreach

import "fmt"

// APIError is returned for any transport failure or non-2xx response. The
// client performs no retries; retry policy belongs to the callers.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("cleverreach: %s", e.Message)
	}
	return fmt.Sprintf("cleverreach: status %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is an APIError with HTTP status 404.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Status == 404
}
