package sheets

import (
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

// ErrNotAuthenticated is returned when a remote call is attempted with no
// credential available. Fatal to the operation; never retried.
var ErrNotAuthenticated = errors.New("not authenticated")

// RemoteError carries the backend's status and message for a failed call.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote store error: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("remote store error: %s (HTTP %d)", e.Message, e.StatusCode)
}

// wrapErr converts backend API errors into RemoteError, preserving other
// errors (network, context) as-is.
func wrapErr(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %w", op, &RemoteError{StatusCode: apiErr.Code, Message: apiErr.Message})
	}
	return fmt.Errorf("%s: %w", op, err)
}
