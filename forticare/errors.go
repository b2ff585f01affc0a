package forticare

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions that make a whole run meaningless.
var (
	ErrMissingCredentials = errors.New("missing API credentials")
	ErrNoCodes            = errors.New("no registration codes found")
)

// Sentinel errors for per-item failures.
var (
	ErrNoCode        = errors.New("no registration code found")
	ErrNoLicenseFile = errors.New("no license file returned")
	ErrInvalidSerial = errors.New("invalid serial number")
	ErrUnauthorized  = errors.New("access token rejected")
)

// unknownError is the message used when an error body carries nothing recognizable.
const unknownError = "Unknown Error"

// AuthError is returned when the OAuth token endpoint refuses the credentials.
// Message is classified from the response body, see classifyAuthError.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed (%d): %s", e.StatusCode, e.Message)
}

// APIError represents an error response from the registration API.
// The API returns errors in the format: {"message": "..."}.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// mapAPIError converts an APIError to a well-known sentinel error if possible.
// The returned error wraps both so callers can use errors.Is() for the sentinel
// and errors.As() for the server message.
func mapAPIError(ae *APIError) error {
	var sentinel error
	switch ae.StatusCode {
	case 401:
		sentinel = ErrUnauthorized
	default:
		return ae
	}
	return &mappedError{sentinel: sentinel, api: ae}
}

// mappedError wraps a sentinel error with the original APIError details.
type mappedError struct {
	sentinel error
	api      *APIError
}

func (e *mappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.sentinel, e.api.Message)
}

func (e *mappedError) Is(target error) bool {
	return target == e.sentinel
}

func (e *mappedError) As(target interface{}) bool {
	if t, ok := target.(**APIError); ok {
		*t = e.api
		return true
	}
	return false
}

func (e *mappedError) Unwrap() error {
	return e.sentinel
}

// ServerMessage returns the vendor-supplied message carried by err, or err.Error()
// when err did not come from the API.
func ServerMessage(err error) string {
	var ae *APIError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	var au *AuthError
	if errors.As(err, &au) {
		return au.Message
	}
	return err.Error()
}
