package airtable

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the store has no record for a given id.
var ErrNotFound = errors.New("record not found")

// RemoteError carries the store's raw error payload so callers can
// surface it to the user unchanged.
type RemoteError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("airtable error %d (%s): %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("airtable error %d: %s", e.StatusCode, e.Message)
}

// IsAuthError reports whether the store rejected our credentials.
func (e *RemoteError) IsAuthError() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}
