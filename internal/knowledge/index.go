package knowledge

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"

	_ "modernc.org/sqlite"
)

// Passage is a stored chunk plus its embedding vector.
type Passage struct {
	ID        int64
	Content   string
	Section   string
	Source    string
	ChunkType string
	Embedding []float32
}

// Index persists passages and their embeddings in a sqlite file.
type Index struct {
	db *sql.DB
}

// OpenIndex opens (creating if needed) the passage index at path.
func OpenIndex(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open index %s: %w", path, err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS passages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	content TEXT NOT NULL,
	section TEXT NOT NULL,
	source TEXT NOT NULL,
	chunk_type TEXT NOT NULL,
	embedding BLOB NOT NULL
)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init index schema: %w", err)
	}
	return &Index{db: db}, nil
}

// Close releases the underlying database handle.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// Add stores chunks with their vectors. len(vectors) must equal len(chunks).
func (ix *Index) Add(ctx context.Context, chunks []Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunk/vector count mismatch: %d vs %d", len(chunks), len(vectors))
	}
	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const insert = `INSERT INTO passages (content, section, source, chunk_type, embedding) VALUES (?, ?, ?, ?, ?)`
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, chunk := range chunks {
		if _, err := stmt.ExecContext(ctx, chunk.Content, chunk.Section, chunk.Source, chunk.Type, encodeVector(vectors[i])); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// All loads every passage with its embedding.
func (ix *Index) All(ctx context.Context) ([]Passage, error) {
	const query = `SELECT id, content, section, source, chunk_type, embedding FROM passages ORDER BY id`
	rows, err := ix.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var passages []Passage
	for rows.Next() {
		var p Passage
		var blob []byte
		if err := rows.Scan(&p.ID, &p.Content, &p.Section, &p.Source, &p.ChunkType, &blob); err != nil {
			return nil, err
		}
		if p.Embedding, err = decodeVector(blob); err != nil {
			return nil, fmt.Errorf("passage %d: %w", p.ID, err)
		}
		passages = append(passages, p)
	}
	return passages, rows.Err()
}

// Count returns the number of stored passages.
func (ix *Index) Count(ctx context.Context) (int, error) {
	var n int
	err := ix.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM passages`).Scan(&n)
	return n, err
}

// Embeddings are stored as little-endian float32 sequences.

func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("embedding blob length %d not a multiple of 4", len(blob))
	}
	v := make([]float32, len(blob)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[4*i:]))
	}
	return v, nil
}
