package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"expensetracker/internal/amqp"
	"expensetracker/internal/core"
	"expensetracker/internal/storage"
)

type capturingPublisher struct {
	mu     sync.Mutex
	events []*amqp.TransactionEvent
	fail   error
}

func (p *capturingPublisher) PublishTransactionEvent(_ context.Context, event *amqp.TransactionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.events = append(p.events, event)
	return nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestService(t *testing.T) (*TransactionService, *storage.MemoryStore, *capturingPublisher, core.User) {
	t.Helper()
	store := storage.NewMemoryStore()
	owner, err := store.CreateUser(context.Background(), core.User{Name: "Ada"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	publisher := &capturingPublisher{}
	return NewTransactionService(store, store, publisher), store, publisher, owner
}

func TestCreate(t *testing.T) {
	svc, _, publisher, owner := newTestService(t)

	tx, err := svc.Create(context.Background(), owner.ID, dec("42.50"), core.Expense, core.Food, core.NewDate(2024, 3, 10), "groceries")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tx.ID == "" || tx.CreatedAt.IsZero() {
		t.Fatalf("expected server-assigned identity, got %+v", tx)
	}
	if !tx.Amount.Equal(dec("42.50")) || tx.Note != "groceries" {
		t.Fatalf("unexpected canonical record: %+v", tx)
	}

	if len(publisher.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(publisher.events))
	}
	if e := publisher.events[0]; e.Action != amqp.ActionCreated || e.TransactionID != tx.ID || e.OwnerID != owner.ID {
		t.Fatalf("unexpected event: %+v", e)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _, _, owner := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		run  func() error
	}{
		{"zero amount", func() error {
			_, err := svc.Create(ctx, owner.ID, decimal.Zero, core.Expense, core.Food, core.NewDate(2024, 3, 10), "")
			return err
		}},
		{"negative amount", func() error {
			_, err := svc.Create(ctx, owner.ID, dec("-5"), core.Expense, core.Food, core.NewDate(2024, 3, 10), "")
			return err
		}},
		{"missing type", func() error {
			_, err := svc.Create(ctx, owner.ID, dec("5"), "", core.Food, core.NewDate(2024, 3, 10), "")
			return err
		}},
		{"missing category", func() error {
			_, err := svc.Create(ctx, owner.ID, dec("5"), core.Expense, "", core.NewDate(2024, 3, 10), "")
			return err
		}},
		{"missing date", func() error {
			_, err := svc.Create(ctx, owner.ID, dec("5"), core.Expense, core.Food, core.Date{}, "")
			return err
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.run(); !errors.Is(err, core.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	// No orphan records from failed creates.
	list, err := svc.ListAll(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no persisted records, got %d", len(list))
	}
}

func TestCreateUnknownOwner(t *testing.T) {
	svc, _, publisher, _ := newTestService(t)

	_, err := svc.Create(context.Background(), "ghost", dec("10"), core.Expense, core.Food, core.NewDate(2024, 3, 10), "")
	if !errors.Is(err, core.ErrOwnerNotFound) {
		t.Fatalf("expected ErrOwnerNotFound, got %v", err)
	}
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not-found kind, got %v", err)
	}
	if len(publisher.events) != 0 {
		t.Fatalf("no event expected for failed create")
	}
}

func TestCreateSurvivesPublishFailure(t *testing.T) {
	svc, _, publisher, owner := newTestService(t)
	publisher.fail = errors.New("broker down")

	tx, err := svc.Create(context.Background(), owner.ID, dec("10"), core.Income, core.Salary, core.NewDate(2024, 3, 1), "")
	if err != nil {
		t.Fatalf("create should not fail on publish error: %v", err)
	}

	list, err := svc.ListAll(context.Background(), owner.ID)
	if err != nil || len(list) != 1 || list[0].ID != tx.ID {
		t.Fatalf("expected record persisted despite publish failure: %v, %+v", err, list)
	}
}

func TestDelete(t *testing.T) {
	svc, _, publisher, owner := newTestService(t)
	ctx := context.Background()

	tx, err := svc.Create(ctx, owner.ID, dec("10"), core.Expense, core.Food, core.NewDate(2024, 3, 10), "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, owner.ID, tx.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(publisher.events) != 2 || publisher.events[1].Action != amqp.ActionDeleted {
		t.Fatalf("expected deleted event, got %+v", publisher.events)
	}

	// Re-delete is not idempotent: the record is already gone.
	if err := svc.Delete(ctx, owner.ID, tx.ID); !errors.Is(err, core.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound on re-delete, got %v", err)
	}
}

func TestDeleteUnknownTransaction(t *testing.T) {
	svc, _, _, owner := newTestService(t)

	err := svc.Delete(context.Background(), owner.ID, "missing")
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not-found kind, got %v", err)
	}
}

func TestDeleteByNonOwner(t *testing.T) {
	svc, store, _, owner := newTestService(t)
	ctx := context.Background()

	intruder, err := store.CreateUser(ctx, core.User{Name: "Mallory"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	tx, err := svc.Create(ctx, owner.ID, dec("10"), core.Expense, core.Food, core.NewDate(2024, 3, 10), "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = svc.Delete(ctx, intruder.ID, tx.ID)
	if !errors.Is(err, core.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("expected unauthorized kind, got %v", err)
	}

	// The record must remain retrievable by its owner.
	list, err := svc.ListAll(ctx, owner.ID)
	if err != nil || len(list) != 1 || list[0].ID != tx.ID {
		t.Fatalf("expected record untouched: %v, %+v", err, list)
	}
}

func TestListsReturnEmptyNotError(t *testing.T) {
	svc, _, _, owner := newTestService(t)
	ctx := context.Background()

	all, err := svc.ListAll(ctx, owner.ID)
	if err != nil || len(all) != 0 {
		t.Fatalf("ListAll: %v, %+v", err, all)
	}
	byType, err := svc.ListByType(ctx, owner.ID, core.Income)
	if err != nil || len(byType) != 0 {
		t.Fatalf("ListByType: %v, %+v", err, byType)
	}
	byCat, err := svc.ListByCategory(ctx, owner.ID, core.Rent)
	if err != nil || len(byCat) != 0 {
		t.Fatalf("ListByCategory: %v, %+v", err, byCat)
	}
	byRange, err := svc.ListByDateRange(ctx, owner.ID, core.NewDate(2024, 1, 1), core.NewDate(2024, 12, 31))
	if err != nil || len(byRange) != 0 {
		t.Fatalf("ListByDateRange: %v, %+v", err, byRange)
	}
}
