package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/madina-shop/cashbook-services/internal/cashsvc/models"
)

type TransactionStore struct {
	db *pgxpool.Pool
}

func NewTransactionStore(db *pgxpool.Pool) *TransactionStore {
	return &TransactionStore{db: db}
}

const transactionColumns = `id, ref, ttype, payment_mode, amount, fee, cash_in, cash_out, note, created_by, created_at, updated_at`

func scanTransaction(row interface{ Scan(...any) error }) (*models.Transaction, error) {
	t := &models.Transaction{}
	err := row.Scan(
		&t.ID,
		&t.Ref,
		&t.TType,
		&t.PaymentMode,
		&t.Amount,
		&t.Fee,
		&t.CashIn,
		&t.CashOut,
		&t.Note,
		&t.CreatedBy,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TransactionStore) Insert(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	row := s.db.QueryRow(ctx, `
        INSERT INTO transactions (ref, ttype, payment_mode, amount, fee, cash_in, cash_out, note, created_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING `+transactionColumns+`
    `, t.Ref, t.TType, t.PaymentMode, t.Amount, t.Fee, t.CashIn, t.CashOut, t.Note, t.CreatedBy)

	created, err := scanTransaction(row)
	if err != nil {
		return nil, fmt.Errorf("could not create transaction: %w", err)
	}
	return created, nil
}

func (s *TransactionStore) GetByID(ctx context.Context, id int64) (*models.Transaction, error) {
	row := s.db.QueryRow(ctx, `
        SELECT `+transactionColumns+`
        FROM transactions
        WHERE id = $1
    `, id)
	return scanTransaction(row)
}

// Update rewrites the mutable fields. cash_in and cash_out must already be
// reclassified from the new type/amount/fee; created_at is never touched.
func (s *TransactionStore) Update(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	row := s.db.QueryRow(ctx, `
        UPDATE transactions
        SET ttype = $2, payment_mode = $3, amount = $4, fee = $5,
            cash_in = $6, cash_out = $7, note = $8, updated_at = now()
        WHERE id = $1
        RETURNING `+transactionColumns+`
    `, t.ID, t.TType, t.PaymentMode, t.Amount, t.Fee, t.CashIn, t.CashOut, t.Note)

	updated, err := scanTransaction(row)
	if err != nil {
		return nil, fmt.Errorf("could not update transaction %d: %w", t.ID, err)
	}
	return updated, nil
}

// TransactionFilter narrows List. Zero fields are ignored.
type TransactionFilter struct {
	TType       string
	PaymentMode string
	From        *time.Time
	To          *time.Time
	Search      string
	Limit       int
}

func (s *TransactionStore) List(ctx context.Context, f TransactionFilter) ([]*models.Transaction, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.TType != "" {
		where = append(where, "ttype = "+arg(f.TType))
	}
	if f.PaymentMode != "" {
		where = append(where, "payment_mode = "+arg(f.PaymentMode))
	}
	if f.From != nil {
		where = append(where, "created_at >= "+arg(*f.From))
	}
	if f.To != nil {
		where = append(where, "created_at < "+arg(*f.To))
	}
	if f.Search != "" {
		where = append(where, "(note ILIKE "+arg("%"+f.Search+"%")+" OR created_by ILIKE "+arg("%"+f.Search+"%")+")")
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		query += " LIMIT " + arg(f.Limit)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []*models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// RangeTotals holds SQL-side sums for a time window.
type RangeTotals struct {
	CashIn  decimal.Decimal
	CashOut decimal.Decimal
	Fee     decimal.Decimal
	Count   int
}

// SumRange aggregates over [from, to); nil bounds are open ends.
func (s *TransactionStore) SumRange(ctx context.Context, from, to *time.Time) (RangeTotals, error) {
	var (
		where []string
		args  []any
	)
	if from != nil {
		args = append(args, *from)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if to != nil {
		args = append(args, *to)
		where = append(where, fmt.Sprintf("created_at < $%d", len(args)))
	}

	query := `
        SELECT
            COALESCE(SUM(cash_in), 0),
            COALESCE(SUM(cash_out), 0),
            COALESCE(SUM(fee), 0),
            COUNT(id)
        FROM transactions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	var t RangeTotals
	err := s.db.QueryRow(ctx, query, args...).Scan(&t.CashIn, &t.CashOut, &t.Fee, &t.Count)
	if err != nil {
		return RangeTotals{}, err
	}
	return t, nil
}

// TypeBreakdown is one row of the per-type activity summary.
type TypeBreakdown struct {
	TType       string          `json:"ttype"`
	Count       int             `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	TotalFees   decimal.Decimal `json:"total_fees"`
}

// SumByType groups a window's transactions by type, busiest first.
func (s *TransactionStore) SumByType(ctx context.Context, from, to time.Time) ([]TypeBreakdown, error) {
	rows, err := s.db.Query(ctx, `
        SELECT ttype, COUNT(id), COALESCE(SUM(amount), 0), COALESCE(SUM(fee), 0)
        FROM transactions
        WHERE created_at >= $1 AND created_at < $2
        GROUP BY ttype
        ORDER BY SUM(amount) DESC
    `, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TypeBreakdown
	for rows.Next() {
		var b TypeBreakdown
		if err := rows.Scan(&b.TType, &b.Count, &b.TotalAmount, &b.TotalFees); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
