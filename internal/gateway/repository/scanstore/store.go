// Package scanstore keeps scan history in Postgres when a DSN is
// configured and in a JSON file otherwise.
package scanstore

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const readCacheSize = 1024

type Store struct {
	path string
	db   *sql.DB

	loadOnce sync.Once
	mu       sync.RWMutex
	byID     map[string]Record

	schemaOnce sync.Once
	schemaErr  error

	readCache *lru.Cache[string, Record]
}

func New(path string) *Store {
	return &Store{
		path: path,
		byID: make(map[string]Record),
	}
}

func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	cache, err := lru.New[string, Record](readCacheSize)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, readCache: cache}, nil
}

// Open uses Postgres when dsn is set and falls back to the file at path
// when it is empty or unreachable.
func Open(dsn, path string) *Store {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return New(path)
	}
	s, err := NewPostgres(dsn)
	if err != nil {
		log.Printf("scanstore: postgres unavailable, using %s: %v", path, err)
		return New(path)
	}
	return s
}

// Backend names the active backend for logs.
func (s *Store) Backend() string {
	if s != nil && s.db != nil {
		return "postgres"
	}
	return "file"
}

// DB returns the Postgres handle, nil for the file backend.
func (s *Store) DB() *sql.DB {
	if s == nil {
		return nil
	}
	return s.db
}

func (s *Store) Put(ctx context.Context, rec Record) (Record, error) {
	if s == nil {
		return Record{}, fmt.Errorf("scanstore: nil store")
	}
	rec = normalizeRecord(rec)
	if rec.ID == "" {
		rec.ID = NewID()
	}
	if s.db != nil {
		return rec, s.putDB(ctx, rec)
	}
	return rec, s.putFile(rec)
}

func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	if s == nil {
		return Record{}, ErrNotFound
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Record{}, ErrNotFound
	}
	if s.db != nil {
		return s.getDB(ctx, id)
	}
	return s.getFile(id)
}

// ListByRepo returns the newest records for repo first. limit <= 0 means no
// limit.
func (s *Store) ListByRepo(ctx context.Context, repo string, limit int) ([]Record, error) {
	if s == nil {
		return nil, nil
	}
	repo = strings.TrimSpace(repo)
	if s.db != nil {
		return s.listDB(ctx, repo, limit)
	}
	return s.listFile(repo, limit), nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
