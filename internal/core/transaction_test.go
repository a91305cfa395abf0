package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func validTransaction() Transaction {
	return Transaction{
		OwnerID:  "u1",
		Amount:   decimal.NewFromInt(100),
		Type:     Expense,
		Category: Food,
		Date:     NewDate(2024, 3, 10),
	}
}

func TestTransactionValidate(t *testing.T) {
	if err := validTransaction().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Transaction)
		want   error
	}{
		{"missing owner", func(tx *Transaction) { tx.OwnerID = "" }, ErrMissingOwner},
		{"zero amount", func(tx *Transaction) { tx.Amount = decimal.Zero }, ErrInvalidAmount},
		{"negative amount", func(tx *Transaction) { tx.Amount = decimal.NewFromInt(-5) }, ErrInvalidAmount},
		{"missing type", func(tx *Transaction) { tx.Type = "" }, ErrInvalidType},
		{"bad type", func(tx *Transaction) { tx.Type = "TRANSFER" }, ErrInvalidType},
		{"missing category", func(tx *Transaction) { tx.Category = "" }, ErrInvalidCategory},
		{"bad category", func(tx *Transaction) { tx.Category = "GROCERIES" }, ErrInvalidCategory},
		{"zero date", func(tx *Transaction) { tx.Date = Date{} }, ErrMissingDate},
		{"note too long", func(tx *Transaction) { tx.Note = strings.Repeat("x", MaxNoteLength+1) }, ErrNoteTooLong},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := validTransaction()
			tc.mutate(&tx)
			err := tx.Validate()
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected validation kind, got %v", err)
			}
		})
	}
}

func TestTransactionValidatePermissiveCategories(t *testing.T) {
	// A category's intended type is never enforced: an EXPENSE tagged SALARY
	// is accepted.
	tx := validTransaction()
	tx.Category = Salary
	if err := tx.Validate(); err != nil {
		t.Fatalf("expected ok for expense with income category, got %v", err)
	}
	tx.Type = Income
	tx.Category = Rent
	if err := tx.Validate(); err != nil {
		t.Fatalf("expected ok for income with expense category, got %v", err)
	}
}

func TestParseTransactionType(t *testing.T) {
	if got, err := ParseTransactionType("INCOME"); err != nil || got != Income {
		t.Fatalf("parse INCOME: got %q, %v", got, err)
	}
	if _, err := ParseTransactionType("income"); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType for lowercase input, got %v", err)
	}
	if _, err := ParseTransactionType(""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for empty input, got %v", err)
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories {
		got, err := ParseCategory(string(c))
		if err != nil || got != c {
			t.Fatalf("parse %q: got %q, %v", c, got, err)
		}
	}
	if _, err := ParseCategory("PETS"); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
}
