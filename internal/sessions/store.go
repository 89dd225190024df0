package sessions

import "context"

// Store persists session records keyed by session id. Writing an existing key
// replaces the record (last writer wins).
type Store interface {
	Put(ctx context.Context, sessionID string, payload, analysis map[string]any) error
	Get(ctx context.Context, sessionID string) (Record, error)
}
