package storage

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
)

// Ports every persistence backend must provide.
type (
	// TransactionStore is the durable, queryable ledger. List results are
	// ordered by date descending, ties broken most-recent-insert first.
	// Each sum query is a single read against a consistent snapshot of the
	// backend; concurrent writes are reflected entirely or not at all.
	TransactionStore interface {
		// FindByID returns nil (with no error) when the id is unknown.
		FindByID(ctx context.Context, id string) (*core.Transaction, error)

		// Save persists a new transaction, assigning its id and creation
		// timestamp, and returns the canonical record.
		Save(ctx context.Context, tx core.Transaction) (core.Transaction, error)

		// Delete removes the record permanently.
		Delete(ctx context.Context, tx core.Transaction) error

		FindByOwner(ctx context.Context, ownerID string) ([]core.Transaction, error)
		FindByOwnerAndType(ctx context.Context, ownerID string, typ core.TransactionType) ([]core.Transaction, error)
		FindByOwnerAndCategory(ctx context.Context, ownerID string, category core.Category) ([]core.Transaction, error)
		FindByOwnerAndDateRange(ctx context.Context, ownerID string, start, end core.Date) ([]core.Transaction, error)

		// SumAmount sums matching amounts over [start, end] inclusive and
		// returns nil when no transactions match.
		SumAmount(ctx context.Context, ownerID string, typ core.TransactionType, start, end core.Date) (*decimal.Decimal, error)

		// SumAmountGroupedByCategory returns one entry per category with at
		// least one matching transaction, sorted by category name.
		SumAmountGroupedByCategory(ctx context.Context, ownerID string, typ core.TransactionType, start, end core.Date) ([]core.CategoryTotal, error)
	}

	// UserStore resolves transaction owners.
	UserStore interface {
		CreateUser(ctx context.Context, u core.User) (core.User, error)
		UserExists(ctx context.Context, id string) (bool, error)
	}

	// AuditStore records ledger events consumed from the queue.
	AuditStore interface {
		RecordAuditEvent(ctx context.Context, e AuditEvent) error
	}
)

// Store is the full surface the application wires against.
type Store interface {
	TransactionStore
	UserStore
	AuditStore
}

// AuditEvent is one row of the append-only audit trail.
type AuditEvent struct {
	TransactionID string
	OwnerID       string
	Action        string
	OccurredAt    time.Time
}
