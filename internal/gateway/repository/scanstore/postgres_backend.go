package scanstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

func (s *Store) ensureSchema(ctx context.Context) error {
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS scan_records (
  id TEXT PRIMARY KEY,
  repo TEXT NOT NULL DEFAULT '',
  stack TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
  payload JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scan_records_repo_created ON scan_records (repo, created_at DESC);
`)
	})
	return s.schemaErr
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecordRow(row rowScanner) (Record, error) {
	var (
		payload   []byte
		createdAt time.Time
	)
	if err := row.Scan(&payload, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return Record{}, fmt.Errorf("scanstore: decode payload: %w", err)
	}
	rec.CreatedAt = createdAt.UTC()
	return normalizeRecord(rec), nil
}

func (s *Store) putDB(ctx context.Context, rec Record) error {
	if err := s.ensureSchema(ctx); err != nil {
		return fmt.Errorf("scanstore: schema: %w", err)
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("scanstore: encode: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO scan_records (id, repo, stack, created_at, payload)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (id)
DO UPDATE SET repo=EXCLUDED.repo,
  stack=EXCLUDED.stack,
  payload=EXCLUDED.payload`,
		rec.ID, rec.Repo, rec.Stack, rec.CreatedAt, payload)
	if err != nil {
		return fmt.Errorf("scanstore: put %s: %w", rec.ID, err)
	}
	s.readCache.Remove(rec.ID)
	return nil
}

func (s *Store) getDB(ctx context.Context, id string) (Record, error) {
	if rec, ok := s.readCache.Get(id); ok {
		return rec, nil
	}
	if err := s.ensureSchema(ctx); err != nil {
		return Record{}, fmt.Errorf("scanstore: schema: %w", err)
	}
	row := s.db.QueryRowContext(ctx, `SELECT payload, created_at FROM scan_records WHERE id = $1`, id)
	rec, err := scanRecordRow(row)
	if err != nil {
		return Record{}, err
	}
	s.readCache.Add(id, rec)
	return rec, nil
}

func (s *Store) listDB(ctx context.Context, repo string, limit int) ([]Record, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("scanstore: schema: %w", err)
	}
	if limit <= 0 {
		limit = 1000
	}
	var (
		rows *sql.Rows
		err  error
	)
	if repo == "" {
		rows, err = s.db.QueryContext(ctx, `SELECT payload, created_at FROM scan_records
ORDER BY created_at DESC LIMIT $1`, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, `SELECT payload, created_at FROM scan_records
WHERE lower(repo) = lower($1) ORDER BY created_at DESC LIMIT $2`, repo, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("scanstore: list: %w", err)
	}
	defer rows.Close()
	out := make([]Record, 0, 32)
	for rows.Next() {
		rec, err := scanRecordRow(rows)
		if err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
