package storage

import (
	"context"
	"testing"
	"time"

	"expensetracker/internal/core"
)

// countingUserStore counts lookups that reach the backing store.
type countingUserStore struct {
	inner   UserStore
	lookups int
}

func (s *countingUserStore) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	return s.inner.CreateUser(ctx, u)
}

func (s *countingUserStore) UserExists(ctx context.Context, id string) (bool, error) {
	s.lookups++
	return s.inner.UserExists(ctx, id)
}

func TestCachedUserStoreSkipsRepeatLookups(t *testing.T) {
	ctx := context.Background()
	counting := &countingUserStore{inner: NewMemoryStore()}
	cached := NewCachedUserStore(counting, 16, time.Minute)

	user, err := cached.CreateUser(ctx, core.User{Name: "Ada"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	for i := 0; i < 3; i++ {
		exists, err := cached.UserExists(ctx, user.ID)
		if err != nil {
			t.Fatalf("UserExists: %v", err)
		}
		if !exists {
			t.Fatal("created user reported missing")
		}
	}

	// CreateUser primes the cache, so no lookup hits the store.
	if counting.lookups != 0 {
		t.Fatalf("lookups = %d, want 0", counting.lookups)
	}
}

func TestCachedUserStoreDoesNotCacheMisses(t *testing.T) {
	ctx := context.Background()
	counting := &countingUserStore{inner: NewMemoryStore()}
	cached := NewCachedUserStore(counting, 16, time.Minute)

	for i := 0; i < 2; i++ {
		exists, err := cached.UserExists(ctx, "no-such-user")
		if err != nil {
			t.Fatalf("UserExists: %v", err)
		}
		if exists {
			t.Fatal("unknown user reported as existing")
		}
	}

	if counting.lookups != 2 {
		t.Fatalf("lookups = %d, want 2 (misses are not cached)", counting.lookups)
	}
}

func TestCachedUserStorePopulatesOnHit(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	user, err := mem.CreateUser(ctx, core.User{Name: "Grace"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	counting := &countingUserStore{inner: mem}
	cached := NewCachedUserStore(counting, 16, time.Minute)

	for i := 0; i < 3; i++ {
		exists, err := cached.UserExists(ctx, user.ID)
		if err != nil {
			t.Fatalf("UserExists: %v", err)
		}
		if !exists {
			t.Fatal("existing user reported missing")
		}
	}

	// First call reaches the store, the rest are served from cache.
	if counting.lookups != 1 {
		t.Fatalf("lookups = %d, want 1", counting.lookups)
	}
}
