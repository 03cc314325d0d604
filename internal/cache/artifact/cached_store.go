// Package artifact fronts an artifact store with read caches.
package artifact

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	artifactrepo "github.com/spivx/devcontext-sub000/internal/gateway/repository/artifact"
)

type Store = artifactrepo.Store

type CacheConfig struct {
	BlobTTL        time.Duration
	BlobMaxEntries int

	ListTTL        time.Duration
	ListMaxEntries int

	URLTTL        time.Duration
	URLMaxEntries int
}

func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		BlobTTL:        5 * time.Minute,
		BlobMaxEntries: 512,
		ListTTL:        30 * time.Second,
		ListMaxEntries: 256,
		// Presigned URLs live for 15 minutes.
		URLTTL:        5 * time.Minute,
		URLMaxEntries: 512,
	}
}

type MetricsSnapshot struct {
	BlobHits      uint64
	BlobMisses    uint64
	ListHits      uint64
	ListMisses    uint64
	URLHits       uint64
	URLMisses     uint64
	OriginReadErr uint64
}

type metrics struct {
	blobHits      atomic.Uint64
	blobMisses    atomic.Uint64
	listHits      atomic.Uint64
	listMisses    atomic.Uint64
	urlHits       atomic.Uint64
	urlMisses     atomic.Uint64
	originReadErr atomic.Uint64
}

// CachedStore caches reads of an origin store. Writes go to the origin
// first and refresh the blob cache.
type CachedStore struct {
	origin Store

	blobs *expirable.LRU[string, []byte]
	lists *expirable.LRU[string, []string]
	urls  *expirable.LRU[string, string]
	stats metrics
}

func NewCachedStore(origin Store, cfg CacheConfig) *CachedStore {
	def := DefaultCacheConfig()
	if cfg.BlobTTL <= 0 {
		cfg.BlobTTL = def.BlobTTL
	}
	if cfg.BlobMaxEntries <= 0 {
		cfg.BlobMaxEntries = def.BlobMaxEntries
	}
	if cfg.ListTTL <= 0 {
		cfg.ListTTL = def.ListTTL
	}
	if cfg.ListMaxEntries <= 0 {
		cfg.ListMaxEntries = def.ListMaxEntries
	}
	if cfg.URLTTL <= 0 {
		cfg.URLTTL = def.URLTTL
	}
	if cfg.URLMaxEntries <= 0 {
		cfg.URLMaxEntries = def.URLMaxEntries
	}
	return &CachedStore{
		origin: origin,
		blobs:  expirable.NewLRU[string, []byte](cfg.BlobMaxEntries, nil, cfg.BlobTTL),
		lists:  expirable.NewLRU[string, []string](cfg.ListMaxEntries, nil, cfg.ListTTL),
		urls:   expirable.NewLRU[string, string](cfg.URLMaxEntries, nil, cfg.URLTTL),
	}
}

func (s *CachedStore) Put(ctx context.Context, scanID, name string, content []byte) error {
	if err := s.origin.Put(ctx, scanID, name, content); err != nil {
		return err
	}
	key := cacheKey(scanID, name)
	s.blobs.Add(key, append([]byte(nil), content...))
	s.lists.Remove(strings.TrimSpace(scanID))
	s.urls.Remove(key)
	return nil
}

func (s *CachedStore) Get(ctx context.Context, scanID, name string) ([]byte, error) {
	key := cacheKey(scanID, name)
	if raw, ok := s.blobs.Get(key); ok {
		s.stats.blobHits.Add(1)
		return append([]byte(nil), raw...), nil
	}
	s.stats.blobMisses.Add(1)

	raw, err := s.origin.Get(ctx, scanID, name)
	if err != nil {
		s.stats.originReadErr.Add(1)
		return nil, err
	}
	s.blobs.Add(key, append([]byte(nil), raw...))
	return raw, nil
}

func (s *CachedStore) GetURL(ctx context.Context, scanID, name string) (string, error) {
	key := cacheKey(scanID, name)
	if url, ok := s.urls.Get(key); ok {
		s.stats.urlHits.Add(1)
		return url, nil
	}
	s.stats.urlMisses.Add(1)

	url, err := s.origin.GetURL(ctx, scanID, name)
	if err != nil {
		s.stats.originReadErr.Add(1)
		return "", err
	}
	if strings.TrimSpace(url) != "" {
		s.urls.Add(key, url)
	}
	return url, nil
}

func (s *CachedStore) List(ctx context.Context, scanID string) ([]string, error) {
	scanID = strings.TrimSpace(scanID)
	if list, ok := s.lists.Get(scanID); ok {
		s.stats.listHits.Add(1)
		return append([]string(nil), list...), nil
	}
	s.stats.listMisses.Add(1)

	list, err := s.origin.List(ctx, scanID)
	if err != nil {
		s.stats.originReadErr.Add(1)
		return nil, err
	}
	s.lists.Add(scanID, append([]string(nil), list...))
	return list, nil
}

func (s *CachedStore) Metrics() MetricsSnapshot {
	if s == nil {
		return MetricsSnapshot{}
	}
	return MetricsSnapshot{
		BlobHits:      s.stats.blobHits.Load(),
		BlobMisses:    s.stats.blobMisses.Load(),
		ListHits:      s.stats.listHits.Load(),
		ListMisses:    s.stats.listMisses.Load(),
		URLHits:       s.stats.urlHits.Load(),
		URLMisses:     s.stats.urlMisses.Load(),
		OriginReadErr: s.stats.originReadErr.Load(),
	}
}

func cacheKey(scanID, name string) string {
	return strings.TrimSpace(scanID) + "/" + strings.TrimLeft(strings.TrimSpace(name), "/")
}
