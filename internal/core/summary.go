package core

import "github.com/shopspring/decimal"

// CategoryTotal is one breakdown entry: the summed amount for a category.
type CategoryTotal struct {
	Category Category
	Total    decimal.Decimal
}

// MonthlySummary is the derived monthly view of an owner's ledger. It is
// computed fresh on every request and never persisted.
type MonthlySummary struct {
	Year             int
	Month            int
	TotalIncome      decimal.Decimal
	TotalExpense     decimal.Decimal
	NetSavings       decimal.Decimal
	ExpenseBreakdown []CategoryTotal
}
