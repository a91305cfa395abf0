package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
	"expensetracker/internal/storage"
)

// Aggregator computes period sums over an owner's ledger.
type Aggregator struct {
	store storage.TransactionStore
}

func NewAggregator(store storage.TransactionStore) *Aggregator {
	return &Aggregator{store: store}
}

// SumByType sums the amounts of ownerID's transactions of the given type
// within the period. An empty month yields exact zero, never an absent
// value: the store's nil is coalesced here so downstream arithmetic can
// rely on it.
func (a *Aggregator) SumByType(ctx context.Context, ownerID string, typ core.TransactionType, p core.Period) (decimal.Decimal, error) {
	sum, err := a.store.SumAmount(ctx, ownerID, typ, p.Start, p.End)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("sum by type: %w", err)
	}
	if sum == nil {
		return decimal.Zero, nil
	}
	return *sum, nil
}

// SumByCategory groups matching transactions by category and sums each
// group. Categories with no matching transactions are omitted.
func (a *Aggregator) SumByCategory(ctx context.Context, ownerID string, typ core.TransactionType, p core.Period) ([]core.CategoryTotal, error) {
	groups, err := a.store.SumAmountGroupedByCategory(ctx, ownerID, typ, p.Start, p.End)
	if err != nil {
		return nil, fmt.Errorf("sum by category: %w", err)
	}
	return groups, nil
}
