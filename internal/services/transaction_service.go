package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"expensetracker/internal/amqp"
	"expensetracker/internal/core"
	"expensetracker/internal/storage"
)

// EventPublisher pushes ledger events to the queue. *amqp.Client satisfies
// it; a nil publisher disables eventing.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, event *amqp.TransactionEvent) error
}

// TransactionService validates and persists single-transaction operations,
// enforcing ownership on every mutation.
type TransactionService struct {
	store     storage.TransactionStore
	users     storage.UserStore
	publisher EventPublisher
}

func NewTransactionService(store storage.TransactionStore, users storage.UserStore, publisher EventPublisher) *TransactionService {
	return &TransactionService{
		store:     store,
		users:     users,
		publisher: publisher,
	}
}

// Create persists a new transaction for ownerID. The store assigns the id
// and creation timestamp; a failed create leaves nothing behind.
func (s *TransactionService) Create(ctx context.Context, ownerID string, amount decimal.Decimal, typ core.TransactionType, category core.Category, date core.Date, note string) (core.Transaction, error) {
	tx := core.Transaction{
		OwnerID:  ownerID,
		Amount:   amount,
		Type:     typ,
		Category: category,
		Date:     date,
		Note:     note,
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	exists, err := s.users.UserExists(ctx, ownerID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("resolve owner: %w", err)
	}
	if !exists {
		return core.Transaction{}, core.ErrOwnerNotFound
	}

	saved, err := s.store.Save(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	// Eventing is best effort: the record is durable, a lost event is only
	// a gap in the audit trail.
	s.publish(ctx, amqp.NewTransactionEvent(saved.ID, saved.OwnerID, amqp.ActionCreated))

	return saved, nil
}

// Delete removes a transaction permanently. Only the owner may delete; an
// unauthorized attempt leaves the record untouched.
func (s *TransactionService) Delete(ctx context.Context, ownerID, transactionID string) error {
	tx, err := s.store.FindByID(ctx, transactionID)
	if err != nil {
		return fmt.Errorf("find transaction: %w", err)
	}
	if tx == nil {
		return core.ErrTransactionNotFound
	}
	if tx.OwnerID != ownerID {
		return core.ErrNotOwner
	}

	if err := s.store.Delete(ctx, *tx); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.publish(ctx, amqp.NewTransactionEvent(tx.ID, tx.OwnerID, amqp.ActionDeleted))

	return nil
}

// ListAll returns every transaction of ownerID, date descending.
func (s *TransactionService) ListAll(ctx context.Context, ownerID string) ([]core.Transaction, error) {
	return s.store.FindByOwner(ctx, ownerID)
}

func (s *TransactionService) ListByType(ctx context.Context, ownerID string, typ core.TransactionType) ([]core.Transaction, error) {
	return s.store.FindByOwnerAndType(ctx, ownerID, typ)
}

func (s *TransactionService) ListByCategory(ctx context.Context, ownerID string, category core.Category) ([]core.Transaction, error) {
	return s.store.FindByOwnerAndCategory(ctx, ownerID, category)
}

// ListByDateRange returns transactions dated within [start, end] inclusive.
func (s *TransactionService) ListByDateRange(ctx context.Context, ownerID string, start, end core.Date) ([]core.Transaction, error) {
	return s.store.FindByOwnerAndDateRange(ctx, ownerID, start, end)
}

func (s *TransactionService) publish(ctx context.Context, event *amqp.TransactionEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"transaction_id", event.TransactionID,
			"action", event.Action,
			"error", err)
	}
}
