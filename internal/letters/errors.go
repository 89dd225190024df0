package letters

import "errors"

// ErrInvalidSession means the referenced combined session does not exist.
var ErrInvalidSession = errors.New("invalid session")
