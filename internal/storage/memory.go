package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
)

// MemoryStore is an in-process ledger backend. It backs the default dev
// configuration and the service tests.
type MemoryStore struct {
	mu     sync.Mutex
	users  map[string]core.User
	items  []core.Transaction // insertion order
	events []AuditEvent
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]core.User)}
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (*core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range s.items {
		if tx.ID == id {
			found := tx
			return &found, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) Save(_ context.Context, tx core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx.ID = uuid.NewString()
	tx.CreatedAt = time.Now().UTC()
	s.items = append(s.items, tx)
	return tx, nil
}

func (s *MemoryStore) Delete(_ context.Context, tx core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.items {
		if item.ID == tx.ID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *MemoryStore) FindByOwner(_ context.Context, ownerID string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collect(func(tx core.Transaction) bool {
		return tx.OwnerID == ownerID
	}), nil
}

func (s *MemoryStore) FindByOwnerAndType(_ context.Context, ownerID string, typ core.TransactionType) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collect(func(tx core.Transaction) bool {
		return tx.OwnerID == ownerID && tx.Type == typ
	}), nil
}

func (s *MemoryStore) FindByOwnerAndCategory(_ context.Context, ownerID string, category core.Category) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collect(func(tx core.Transaction) bool {
		return tx.OwnerID == ownerID && tx.Category == category
	}), nil
}

func (s *MemoryStore) FindByOwnerAndDateRange(_ context.Context, ownerID string, start, end core.Date) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := core.Period{Start: start, End: end}
	return s.collect(func(tx core.Transaction) bool {
		return tx.OwnerID == ownerID && p.Contains(tx.Date)
	}), nil
}

func (s *MemoryStore) SumAmount(_ context.Context, ownerID string, typ core.TransactionType, start, end core.Date) (*decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := core.Period{Start: start, End: end}
	var (
		sum     decimal.Decimal
		matched bool
	)
	for _, tx := range s.items {
		if tx.OwnerID == ownerID && tx.Type == typ && p.Contains(tx.Date) {
			sum = sum.Add(tx.Amount)
			matched = true
		}
	}
	if !matched {
		return nil, nil
	}
	return &sum, nil
}

func (s *MemoryStore) SumAmountGroupedByCategory(_ context.Context, ownerID string, typ core.TransactionType, start, end core.Date) ([]core.CategoryTotal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := core.Period{Start: start, End: end}
	totals := make(map[core.Category]decimal.Decimal)
	for _, tx := range s.items {
		if tx.OwnerID == ownerID && tx.Type == typ && p.Contains(tx.Date) {
			totals[tx.Category] = totals[tx.Category].Add(tx.Amount)
		}
	}
	return sortedCategoryTotals(totals), nil
}

func (s *MemoryStore) CreateUser(_ context.Context, u core.User) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now().UTC()
	s.users[u.ID] = u
	return u, nil
}

func (s *MemoryStore) UserExists(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[id]
	return ok, nil
}

func (s *MemoryStore) RecordAuditEvent(_ context.Context, e AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

// AuditEvents returns a copy of the recorded audit trail.
func (s *MemoryStore) AuditEvents() []AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]AuditEvent(nil), s.events...)
}

// collect walks items most-recent-insert first so the stable sort keeps
// insertion order as the tie break within equal dates. Caller holds the lock.
func (s *MemoryStore) collect(match func(core.Transaction) bool) []core.Transaction {
	out := []core.Transaction{}
	for i := len(s.items) - 1; i >= 0; i-- {
		if match(s.items[i]) {
			out = append(out, s.items[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out
}
