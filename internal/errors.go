package internal

import "fmt"

// AuthenticationError is returned for failures while establishing or using
// an AIMS session: a failed authenticate call, a malformed identity
// response, or a failed endpoint directory lookup.
type AuthenticationError struct {
	Message string
	Err     error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication error: %s", e.Message)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

func authError(err error, format string, args ...any) *AuthenticationError {
	return &AuthenticationError{
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// HTTPError reports a non-2xx response from a generic request when the
// session was created with error-on-status enabled. The response itself is
// still returned to the caller for inspection.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s returned %s", e.Method, e.URL, e.Status)
}
