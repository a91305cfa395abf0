package services

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
	"expensetracker/internal/storage"
)

func newSummaryFixture(t *testing.T) (*SummaryService, *TransactionService, core.User) {
	t.Helper()
	store := storage.NewMemoryStore()
	owner, err := store.CreateUser(context.Background(), core.User{Name: "Ada"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	txSvc := NewTransactionService(store, store, nil)
	return NewSummaryService(NewAggregator(store)), txSvc, owner
}

func seed(t *testing.T, svc *TransactionService, ownerID, amount string, typ core.TransactionType, category core.Category, date core.Date) {
	t.Helper()
	if _, err := svc.Create(context.Background(), ownerID, dec(amount), typ, category, date, ""); err != nil {
		t.Fatalf("seed %s %s: %v", typ, amount, err)
	}
}

func TestAssemble(t *testing.T) {
	summarySvc, txSvc, owner := newSummaryFixture(t)

	seed(t, txSvc, owner.ID, "1000", core.Income, core.Salary, core.NewDate(2024, 3, 5))
	seed(t, txSvc, owner.ID, "200", core.Expense, core.Food, core.NewDate(2024, 3, 10))
	seed(t, txSvc, owner.ID, "50", core.Expense, core.Food, core.NewDate(2024, 3, 20))
	seed(t, txSvc, owner.ID, "300", core.Expense, core.Rent, core.NewDate(2024, 3, 1))
	// Outside the requested month.
	seed(t, txSvc, owner.ID, "999", core.Expense, core.Travel, core.NewDate(2024, 4, 1))

	s, err := summarySvc.Assemble(context.Background(), owner.ID, 2024, 3)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	if !s.TotalIncome.Equal(dec("1000")) {
		t.Fatalf("TotalIncome = %s, want 1000", s.TotalIncome)
	}
	if !s.TotalExpense.Equal(dec("550")) {
		t.Fatalf("TotalExpense = %s, want 550", s.TotalExpense)
	}
	if !s.NetSavings.Equal(dec("450")) {
		t.Fatalf("NetSavings = %s, want 450", s.NetSavings)
	}

	// Ordering across categories is unspecified; sort before comparing.
	breakdown := append([]core.CategoryTotal(nil), s.ExpenseBreakdown...)
	sort.Slice(breakdown, func(i, j int) bool { return breakdown[i].Category < breakdown[j].Category })
	want := []core.CategoryTotal{
		{Category: core.Food, Total: dec("250")},
		{Category: core.Rent, Total: dec("300")},
	}
	if len(breakdown) != len(want) {
		t.Fatalf("breakdown = %+v, want %+v", breakdown, want)
	}
	for i := range want {
		if breakdown[i].Category != want[i].Category || !breakdown[i].Total.Equal(want[i].Total) {
			t.Fatalf("breakdown[%d] = %+v, want %+v", i, breakdown[i], want[i])
		}
	}
}

func TestAssembleEmptyMonth(t *testing.T) {
	summarySvc, _, owner := newSummaryFixture(t)

	s, err := summarySvc.Assemble(context.Background(), owner.ID, 2024, 7)
	if err != nil {
		t.Fatalf("assemble on empty month must not fail: %v", err)
	}
	if !s.TotalIncome.Equal(decimal.Zero) || !s.TotalExpense.Equal(decimal.Zero) || !s.NetSavings.Equal(decimal.Zero) {
		t.Fatalf("expected exact zeros, got %+v", s)
	}
	if len(s.ExpenseBreakdown) != 0 {
		t.Fatalf("expected empty breakdown, got %+v", s.ExpenseBreakdown)
	}
}

func TestAssembleInvalidMonth(t *testing.T) {
	summarySvc, _, owner := newSummaryFixture(t)

	for _, month := range []int{0, 13} {
		_, err := summarySvc.Assemble(context.Background(), owner.ID, 2024, month)
		if !errors.Is(err, core.ErrInvalidMonth) {
			t.Fatalf("month %d: expected ErrInvalidMonth, got %v", month, err)
		}
	}
}

func TestAssembleNegativeNetSavings(t *testing.T) {
	summarySvc, txSvc, owner := newSummaryFixture(t)

	seed(t, txSvc, owner.ID, "100", core.Income, core.Salary, core.NewDate(2024, 3, 1))
	seed(t, txSvc, owner.ID, "350.75", core.Expense, core.Rent, core.NewDate(2024, 3, 2))

	s, err := summarySvc.Assemble(context.Background(), owner.ID, 2024, 3)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if !s.NetSavings.Equal(dec("-250.75")) {
		t.Fatalf("NetSavings = %s, want -250.75", s.NetSavings)
	}
}

func TestAssembleBreakdownIsExpenseOnly(t *testing.T) {
	summarySvc, txSvc, owner := newSummaryFixture(t)

	// Income never contributes to the breakdown, even with an expense
	// category; an expense tagged with an income category does.
	seed(t, txSvc, owner.ID, "500", core.Income, core.Rent, core.NewDate(2024, 3, 1))
	seed(t, txSvc, owner.ID, "75", core.Expense, core.Salary, core.NewDate(2024, 3, 2))

	s, err := summarySvc.Assemble(context.Background(), owner.ID, 2024, 3)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if len(s.ExpenseBreakdown) != 1 {
		t.Fatalf("breakdown = %+v, want single SALARY entry", s.ExpenseBreakdown)
	}
	if s.ExpenseBreakdown[0].Category != core.Salary || !s.ExpenseBreakdown[0].Total.Equal(dec("75")) {
		t.Fatalf("unexpected breakdown entry: %+v", s.ExpenseBreakdown[0])
	}

	// Breakdown totals always add up to the expense total.
	sum := decimal.Zero
	for _, g := range s.ExpenseBreakdown {
		sum = sum.Add(g.Total)
	}
	if !sum.Equal(s.TotalExpense) {
		t.Fatalf("breakdown sum %s != total expense %s", sum, s.TotalExpense)
	}
}

func TestAssembleScopedToOwner(t *testing.T) {
	summarySvc, txSvc, owner := newSummaryFixture(t)

	seed(t, txSvc, owner.ID, "100", core.Income, core.Salary, core.NewDate(2024, 3, 1))

	s, err := summarySvc.Assemble(context.Background(), "someone-else", 2024, 3)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if !s.TotalIncome.Equal(decimal.Zero) {
		t.Fatalf("expected zero income for other owner, got %s", s.TotalIncome)
	}
}
