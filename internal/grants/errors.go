package grants

import "errors"

var (
	// ErrInvalidSession means the referenced organization session does not exist.
	ErrInvalidSession = errors.New("invalid session")
	// ErrInvalidGrantID means the selected grant is not in the session's generated batch.
	ErrInvalidGrantID = errors.New("invalid grant id")
	// ErrEmptyOpportunity means no usable opportunity text could be acquired.
	ErrEmptyOpportunity = errors.New("empty opportunity text")
)
