package storage

import (
	"context"
	"time"

	"expensetracker/internal/cache"
	"expensetracker/internal/core"
)

// CachedUserStore wraps a UserStore with a positive-existence cache. Users
// are never deleted, so a cached "exists" answer cannot go stale; negative
// answers are never cached.
type CachedUserStore struct {
	inner UserStore
	known *cache.LRUCache[bool]
}

func NewCachedUserStore(inner UserStore, maxSize int, ttl time.Duration) *CachedUserStore {
	return &CachedUserStore{
		inner: inner,
		known: cache.NewLRUCache[bool](maxSize, ttl),
	}
}

func (s *CachedUserStore) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	created, err := s.inner.CreateUser(ctx, u)
	if err != nil {
		return core.User{}, err
	}
	s.known.Set(created.ID, true)
	return created, nil
}

func (s *CachedUserStore) UserExists(ctx context.Context, id string) (bool, error) {
	if _, ok := s.known.Get(id); ok {
		return true, nil
	}

	exists, err := s.inner.UserExists(ctx, id)
	if err != nil {
		return false, err
	}
	if exists {
		s.known.Set(id, true)
	}
	return exists, nil
}

// Cache exposes the underlying cache for cleanup registration.
func (s *CachedUserStore) Cache() *cache.LRUCache[bool] {
	return s.known
}
