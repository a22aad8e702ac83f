package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/solatis/dtogen/internal/logging"
	"github.com/solatis/dtogen/internal/types"
)

// Batch describes one stored generation run.
type Batch struct {
	ID        types.BatchID `db:"batch_id"`
	Type      string        `db:"dto_type"`
	Count     int           `db:"item_count"`
	CreatedAt time.Time     `db:"created_at"`
}

// Store keeps generated batches as JSON documents, one row per item,
// ordered by batch index.
type Store struct {
	db      *sqlx.DB
	queries *Queries
}

// OpenStore connects to dbURL, applies pending migrations and loads queries.
func OpenStore(dbURL string) (*Store, error) {
	conn, err := Open(dbURL)
	if err != nil {
		return nil, err
	}
	if err := MigrateUp(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	queries, err := LoadQueries()
	if err != nil {
		conn.Close()
		return nil, err
	}

	logger := logging.GetLogger("db")
	logger.Debug().Str("driver", conn.DriverName()).Msg("Fixture store opened")
	return &Store{db: conn, queries: queries}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveBatch stores items as a new batch in a single transaction. Item i is
// stored at index i.
func SaveBatch[T any](ctx context.Context, s *Store, dtoType string, items []T) (Batch, error) {
	b := Batch{
		ID:        types.NewBatchID(),
		Type:      dtoType,
		Count:     len(items),
		CreatedAt: time.Now().UTC(),
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return Batch{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.queries.Exec(ctx, tx, "insert-batch", b.ID, b.Type, b.Count, b.CreatedAt); err != nil {
		return Batch{}, fmt.Errorf("failed to insert batch: %w", err)
	}
	for i, item := range items {
		payload, err := json.Marshal(item)
		if err != nil {
			return Batch{}, fmt.Errorf("item %d: %w", i, err)
		}
		if _, err := s.queries.Exec(ctx, tx, "insert-item", b.ID, i, string(payload)); err != nil {
			return Batch{}, fmt.Errorf("failed to insert item %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return Batch{}, fmt.Errorf("failed to commit batch: %w", err)
	}

	logger := logging.GetLogger("db")
	logger.Info().Str("batch_id", string(b.ID)).Str("type", b.Type).Int("count", b.Count).Msg("Batch stored")
	return b, nil
}

// Batch returns the batch with the given ID or ErrBatchNotFound.
func (s *Store) Batch(ctx context.Context, id types.BatchID) (Batch, error) {
	var b Batch
	if err := s.queries.Get(ctx, s.db, "get-batch", &b, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Batch{}, fmt.Errorf("%w: %s", types.ErrBatchNotFound, id)
		}
		return Batch{}, err
	}
	return b, nil
}

// ListBatches returns stored batches oldest first. An empty dtoType lists all.
func (s *Store) ListBatches(ctx context.Context, dtoType string) ([]Batch, error) {
	var batches []Batch
	var err error
	if dtoType == "" {
		err = s.queries.Select(ctx, s.db, "list-batches", &batches)
	} else {
		err = s.queries.Select(ctx, s.db, "list-batches-by-type", &batches, dtoType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	return batches, nil
}

// Items returns the batch's JSON documents in index order.
func (s *Store) Items(ctx context.Context, id types.BatchID) ([]json.RawMessage, error) {
	if _, err := s.Batch(ctx, id); err != nil {
		return nil, err
	}

	var payloads []string
	if err := s.queries.Select(ctx, s.db, "list-items", &payloads, id); err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	out := make([]json.RawMessage, len(payloads))
	for i, p := range payloads {
		out[i] = json.RawMessage(p)
	}
	return out, nil
}

// DeleteBatch removes a batch and its items.
func (s *Store) DeleteBatch(ctx context.Context, id types.BatchID) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.queries.Exec(ctx, tx, "delete-items", id); err != nil {
		return fmt.Errorf("failed to delete items: %w", err)
	}
	res, err := s.queries.Exec(ctx, tx, "delete-batch", id)
	if err != nil {
		return fmt.Errorf("failed to delete batch: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", types.ErrBatchNotFound, id)
	}
	return tx.Commit()
}
