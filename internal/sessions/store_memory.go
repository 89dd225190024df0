package sessions

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in memory and is safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	byID map[string]Record
}

// NewMemoryStore constructs a MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]Record)}
}

// Put stores the record, replacing any existing record for the same id. The
// maps are copied in, so later caller mutations do not leak into the store.
func (s *MemoryStore) Put(ctx context.Context, sessionID string, payload, analysis map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[sessionID] = Record{
		Payload:   cloneMap(payload),
		Analysis:  cloneMap(analysis),
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// Get returns a copy of the record for the id, or ErrNotFound. Callers own
// the returned maps; the pg store gives the same guarantee via the JSONB
// round-trip.
func (s *MemoryStore) Get(ctx context.Context, sessionID string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.byID[sessionID]
	if !ok {
		return Record{}, ErrNotFound
	}
	return Record{
		Payload:   cloneMap(record.Payload),
		Analysis:  cloneMap(record.Analysis),
		CreatedAt: record.CreatedAt,
	}, nil
}
