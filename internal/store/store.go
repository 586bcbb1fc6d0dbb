// Package store persists domain records as JSONB documents with
// upsert-by-id semantics, one logical collection per record kind.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Collection names.
const (
	Payments       = "payments"
	Claims         = "claims"
	Appointments   = "appointments"
	Charges        = "charges"
	Payers         = "payers"
	Services       = "services"
	JournalEntries = "journal_entries"
)

// ErrNotFound is returned by Get when no document has the given id.
var ErrNotFound = fmt.Errorf("document not found")

// Store is a document store over Postgres JSONB.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps an existing pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Upsert inserts or replaces the document with the given id, tagging it
// with the run's batch id.
func (s *Store) Upsert(ctx context.Context, collection, id string, doc any, batchID uuid.UUID) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", collection, id, err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO recon.documents (collection, doc_id, doc, batch_id)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (collection, doc_id)
		 DO UPDATE SET doc = EXCLUDED.doc, batch_id = EXCLUDED.batch_id, updated_at = now()`,
		collection, id, data, batchID,
	)
	if err != nil {
		return fmt.Errorf("upsert %s/%s: %w", collection, id, err)
	}
	return nil
}

// Get unmarshals the document with the given id into out.
func (s *Store) Get(ctx context.Context, collection, id string, out any) error {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT doc FROM recon.documents WHERE collection = $1 AND doc_id = $2`,
		collection, id,
	).Scan(&data)
	if err == pgx.ErrNoRows {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return json.Unmarshal(data, out)
}

// Find returns the raw documents in a collection whose content contains
// the filter document (jsonb containment). A nil filter lists the whole
// collection in id order.
func (s *Store) Find(ctx context.Context, collection string, filter any) ([]json.RawMessage, error) {
	query := `SELECT doc FROM recon.documents WHERE collection = $1 ORDER BY doc_id`
	args := []any{collection}
	if filter != nil {
		fdata, err := json.Marshal(filter)
		if err != nil {
			return nil, fmt.Errorf("marshal filter: %w", err)
		}
		query = `SELECT doc FROM recon.documents WHERE collection = $1 AND doc @> $2 ORDER BY doc_id`
		args = append(args, fdata)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []json.RawMessage
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan %s document: %w", collection, err)
		}
		docs = append(docs, json.RawMessage(data))
	}
	return docs, rows.Err()
}

// Count returns the number of documents in a collection.
func (s *Store) Count(ctx context.Context, collection string) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM recon.documents WHERE collection = $1`, collection,
	).Scan(&n)
	return n, err
}
