package core

import (
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

// MaxNoteLength bounds the free-text note attached to a transaction.
const MaxNoteLength = 500

type (
	TransactionType string

	// Category is the closed set of ledger categories. A category is never
	// cross-checked against the transaction type: EXPENSE with SALARY is
	// legal. Tightening this would silently reject data the original
	// system accepts, so the permissive behaviour is kept.
	Category string

	// Date is a calendar day with no time component. The zero value means
	// "no date".
	Date struct {
		time.Time
	}

	// Transaction is a single income or expense entry in an owner's ledger.
	// Records are immutable after creation; the only mutation is an
	// owner-issued delete.
	Transaction struct {
		ID        string
		OwnerID   string
		Amount    decimal.Decimal
		Type      TransactionType
		Category  Category
		Date      Date
		Note      string
		CreatedAt time.Time
	}

	// User is the minimal owner record a transaction references. Account
	// handling beyond existence lives outside this system.
	User struct {
		ID        string
		Name      string
		CreatedAt time.Time
	}
)

const (
	// Expense categories
	Food          Category = "FOOD"
	Travel        Category = "TRAVEL"
	Rent          Category = "RENT"
	Shopping      Category = "SHOPPING"
	Utilities     Category = "UTILITIES"
	Entertainment Category = "ENTERTAINMENT"
	Healthcare    Category = "HEALTHCARE"
	Education     Category = "EDUCATION"
	Misc          Category = "MISC"

	// Income categories
	Salary     Category = "SALARY"
	Freelance  Category = "FREELANCE"
	Investment Category = "INVESTMENT"
	Gift       Category = "GIFT"
	Other      Category = "OTHER"
)

// Categories lists every valid category in declaration order.
var Categories = []Category{
	Food, Travel, Rent, Shopping, Utilities, Entertainment, Healthcare, Education, Misc,
	Salary, Freelance, Investment, Gift, Other,
}

func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

func (c Category) IsValid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// ParseTransactionType converts external input into a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(s)
	if !t.IsValid() {
		return "", ErrInvalidType
	}
	return t, nil
}

// ParseCategory converts external input into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}

// NewDate creates a Date for the given calendar day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (t Transaction) Validate() error {
	if t.OwnerID == "" {
		return ErrMissingOwner
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if !t.Category.IsValid() {
		return ErrInvalidCategory
	}
	if t.Date.IsZero() {
		return ErrMissingDate
	}
	if utf8.RuneCountInString(t.Note) > MaxNoteLength {
		return ErrNoteTooLong
	}
	return nil
}
