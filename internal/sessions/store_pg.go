package sessions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// PGStore implements Store using Postgres.
type PGStore struct {
	DB *sql.DB
}

// Put upserts the record for the session id.
func (s *PGStore) Put(ctx context.Context, sessionID string, payload, analysis map[string]any) error {
	const query = `
INSERT INTO sessions (id, payload, analysis, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, analysis = EXCLUDED.analysis, created_at = EXCLUDED.created_at`
	payloadJSON, err := marshalJSONB(payload)
	if err != nil {
		return err
	}
	analysisJSON, err := marshalJSONB(analysis)
	if err != nil {
		return err
	}
	_, err = s.DB.ExecContext(ctx, query, sessionID, payloadJSON, analysisJSON, time.Now().UTC())
	return err
}

// Get returns the record for the id, or ErrNotFound.
func (s *PGStore) Get(ctx context.Context, sessionID string) (Record, error) {
	const query = `SELECT payload, analysis, created_at FROM sessions WHERE id = $1`
	var (
		payloadJSON  []byte
		analysisJSON []byte
		record       Record
	)
	err := s.DB.QueryRowContext(ctx, query, sessionID).Scan(&payloadJSON, &analysisJSON, &record.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	if record.Payload, err = unmarshalJSONB(payloadJSON); err != nil {
		return Record{}, err
	}
	if record.Analysis, err = unmarshalJSONB(analysisJSON); err != nil {
		return Record{}, err
	}
	return record, nil
}

func marshalJSONB(m map[string]any) ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func unmarshalJSONB(raw []byte) (map[string]any, error) {
	if len(raw) == 0 {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}
