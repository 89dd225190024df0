package sessions

import "errors"

// ErrNotFound is returned when no session exists for the requested key.
var ErrNotFound = errors.New("session not found")
