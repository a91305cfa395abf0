package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"expensetracker/internal/core"
)

const dateFormat = "2006-01-02"

// SQLiteStore is the durable ledger backend.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// storeErr tags backend failures with the store error kind so callers can
// classify them without seeing driver details leak into the taxonomy.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, core.ErrStore, err)
}

const transactionColumns = "id, owner_id, amount, type, category, date, note, created_at"

func (s *SQLiteStore) FindByID(ctx context.Context, id string) (*core.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ?", id)
	tx, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("find transaction", err)
	}
	return &tx, nil
}

func (s *SQLiteStore) Save(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	tx.ID = uuid.NewString()
	tx.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO transactions (id, owner_id, amount, type, category, date, note, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		tx.ID, tx.OwnerID, tx.Amount.String(), string(tx.Type), string(tx.Category),
		tx.Date.Format(dateFormat), tx.Note, tx.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return core.Transaction{}, storeErr("save transaction", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", tx.ID,
		"owner_id", tx.OwnerID,
		"type", tx.Type,
		"category", tx.Category,
		"amount", tx.Amount.String(),
		"date", tx.Date.String())

	return tx, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, tx core.Transaction) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", tx.ID); err != nil {
		return storeErr("delete transaction", err)
	}
	return nil
}

func (s *SQLiteStore) FindByOwner(ctx context.Context, ownerID string) ([]core.Transaction, error) {
	return s.queryTransactions(ctx, "find by owner",
		"SELECT "+transactionColumns+" FROM transactions WHERE owner_id = ? ORDER BY date DESC, rowid DESC",
		ownerID)
}

func (s *SQLiteStore) FindByOwnerAndType(ctx context.Context, ownerID string, typ core.TransactionType) ([]core.Transaction, error) {
	return s.queryTransactions(ctx, "find by owner and type",
		"SELECT "+transactionColumns+" FROM transactions WHERE owner_id = ? AND type = ? ORDER BY date DESC, rowid DESC",
		ownerID, string(typ))
}

func (s *SQLiteStore) FindByOwnerAndCategory(ctx context.Context, ownerID string, category core.Category) ([]core.Transaction, error) {
	return s.queryTransactions(ctx, "find by owner and category",
		"SELECT "+transactionColumns+" FROM transactions WHERE owner_id = ? AND category = ? ORDER BY date DESC, rowid DESC",
		ownerID, string(category))
}

func (s *SQLiteStore) FindByOwnerAndDateRange(ctx context.Context, ownerID string, start, end core.Date) ([]core.Transaction, error) {
	return s.queryTransactions(ctx, "find by owner and date range",
		"SELECT "+transactionColumns+" FROM transactions WHERE owner_id = ? AND date >= ? AND date <= ? ORDER BY date DESC, rowid DESC",
		ownerID, start.Format(dateFormat), end.Format(dateFormat))
}

// SumAmount reads raw amounts in one query and sums them with decimal
// arithmetic; SQLite's SUM would coerce the stored strings to float and
// drift. A single SELECT keeps the read atomic.
func (s *SQLiteStore) SumAmount(ctx context.Context, ownerID string, typ core.TransactionType, start, end core.Date) (*decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT amount FROM transactions WHERE owner_id = ? AND type = ? AND date >= ? AND date <= ?",
		ownerID, string(typ), start.Format(dateFormat), end.Format(dateFormat))
	if err != nil {
		return nil, storeErr("sum amounts", err)
	}
	defer rows.Close()

	var (
		sum     decimal.Decimal
		matched bool
	)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, storeErr("scan amount", err)
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, storeErr("parse stored amount", err)
		}
		sum = sum.Add(amount)
		matched = true
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("sum amounts", err)
	}
	if !matched {
		return nil, nil
	}
	return &sum, nil
}

func (s *SQLiteStore) SumAmountGroupedByCategory(ctx context.Context, ownerID string, typ core.TransactionType, start, end core.Date) ([]core.CategoryTotal, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT category, amount FROM transactions WHERE owner_id = ? AND type = ? AND date >= ? AND date <= ?",
		ownerID, string(typ), start.Format(dateFormat), end.Format(dateFormat))
	if err != nil {
		return nil, storeErr("sum amounts by category", err)
	}
	defer rows.Close()

	totals := make(map[core.Category]decimal.Decimal)
	for rows.Next() {
		var category, raw string
		if err := rows.Scan(&category, &raw); err != nil {
			return nil, storeErr("scan category amount", err)
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, storeErr("parse stored amount", err)
		}
		c := core.Category(category)
		totals[c] = totals[c].Add(amount)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("sum amounts by category", err)
	}

	return sortedCategoryTotals(totals), nil
}

func (s *SQLiteStore) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, name, created_at) VALUES (?, ?, ?)",
		u.ID, u.Name, u.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return core.User{}, storeErr("create user", err)
	}
	return u, nil
}

func (s *SQLiteStore) UserExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, storeErr("check user", err)
	}
	return true, nil
}

func (s *SQLiteStore) RecordAuditEvent(ctx context.Context, e AuditEvent) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO audit_log (transaction_id, owner_id, action, occurred_at) VALUES (?, ?, ?, ?)",
		e.TransactionID, e.OwnerID, e.Action, e.OccurredAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return storeErr("record audit event", err)
	}
	return nil
}

func (s *SQLiteStore) queryTransactions(ctx context.Context, op, query string, args ...any) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer rows.Close()

	out := []core.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, storeErr(op, err)
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(op, err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx                    core.Transaction
		amount, typ, category string
		date, createdAt       string
	)
	if err := row.Scan(&tx.ID, &tx.OwnerID, &amount, &typ, &category, &date, &tx.Note, &createdAt); err != nil {
		return core.Transaction{}, err
	}

	parsedAmount, err := decimal.NewFromString(amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse stored amount: %w", err)
	}
	parsedDate, err := time.Parse(dateFormat, date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse stored date: %w", err)
	}
	parsedCreated, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse stored timestamp: %w", err)
	}

	tx.Amount = parsedAmount
	tx.Type = core.TransactionType(typ)
	tx.Category = core.Category(category)
	tx.Date = core.Date{Time: parsedDate}
	tx.CreatedAt = parsedCreated
	return tx, nil
}

func sortedCategoryTotals(totals map[core.Category]decimal.Decimal) []core.CategoryTotal {
	out := make([]core.CategoryTotal, 0, len(totals))
	for c, sum := range totals {
		out = append(out, core.CategoryTotal{Category: c, Total: sum})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}
