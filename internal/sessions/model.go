package sessions

import "time"

// Record is one stored session: the caller-supplied payload plus the analysis
// produced for it. Both maps are opaque to the store.
type Record struct {
	Payload   map[string]any
	Analysis  map[string]any
	CreatedAt time.Time
}
