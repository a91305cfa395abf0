package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"expensetracker/internal/core"
)

// SummaryService assembles the monthly view of an owner's ledger.
type SummaryService struct {
	agg *Aggregator
}

func NewSummaryService(agg *Aggregator) *SummaryService {
	return &SummaryService{agg: agg}
}

// Assemble computes the summary for ownerID's given month: total income,
// total expense, net savings and the per-category expense breakdown.
// Income is never broken down by category. The three aggregate reads are
// independent snapshot queries and run concurrently.
func (s *SummaryService) Assemble(ctx context.Context, ownerID string, year, month int) (core.MonthlySummary, error) {
	period, err := core.ResolvePeriod(year, month)
	if err != nil {
		return core.MonthlySummary{}, err
	}

	summary := core.MonthlySummary{Year: year, Month: month}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		income, err := s.agg.SumByType(gctx, ownerID, core.Income, period)
		if err != nil {
			return err
		}
		summary.TotalIncome = income
		return nil
	})
	g.Go(func() error {
		expense, err := s.agg.SumByType(gctx, ownerID, core.Expense, period)
		if err != nil {
			return err
		}
		summary.TotalExpense = expense
		return nil
	})
	g.Go(func() error {
		breakdown, err := s.agg.SumByCategory(gctx, ownerID, core.Expense, period)
		if err != nil {
			return err
		}
		summary.ExpenseBreakdown = breakdown
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.MonthlySummary{}, err
	}

	summary.NetSavings = summary.TotalIncome.Sub(summary.TotalExpense)
	return summary, nil
}
