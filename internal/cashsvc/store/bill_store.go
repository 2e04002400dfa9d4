package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/madina-shop/cashbook-services/internal/cashsvc/ledger"
	"github.com/madina-shop/cashbook-services/internal/cashsvc/models"
)

type BillStore struct {
	db *pgxpool.Pool
}

func NewBillStore(db *pgxpool.Pool) *BillStore {
	return &BillStore{db: db}
}

const billColumns = `id, customer_id, customer_name, amount, fee, due_date, status, transaction_id, paid_at, note, created_by, created_at`

// rowQuerier is the slice of pgx satisfied by both *pgxpool.Pool and
// pgx.Tx, so inserts can run standalone or inside a transaction.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func scanBill(row interface{ Scan(...any) error }) (*models.Bill, error) {
	b := &models.Bill{}
	err := row.Scan(
		&b.ID,
		&b.CustomerID,
		&b.CustomerName,
		&b.Amount,
		&b.Fee,
		&b.DueDate,
		&b.Status,
		&b.TransactionID,
		&b.PaidAt,
		&b.Note,
		&b.CreatedBy,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BillStore) Insert(ctx context.Context, b *models.Bill) (*models.Bill, error) {
	return insertBill(ctx, s.db, b)
}

func insertBill(ctx context.Context, q rowQuerier, b *models.Bill) (*models.Bill, error) {
	row := q.QueryRow(ctx, `
        INSERT INTO bills (customer_id, customer_name, amount, fee, due_date, status, note, created_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING `+billColumns+`
    `, b.CustomerID, b.CustomerName, b.Amount, b.Fee, b.DueDate, models.BillPending, b.Note, b.CreatedBy)

	created, err := scanBill(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, fmt.Errorf("invalid reference: %s", pgErr.Message)
		}
		return nil, fmt.Errorf("could not create bill: %w", err)
	}
	return created, nil
}

func (s *BillStore) GetByID(ctx context.Context, id int64) (*models.Bill, error) {
	row := s.db.QueryRow(ctx, `
        SELECT `+billColumns+`
        FROM bills
        WHERE id = $1
    `, id)

	b, err := scanBill(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrBillNotFound
		}
		return nil, err
	}
	return b, nil
}

// Update rewrites the editable fields of an unpaid bill. Status, the
// transaction link and paid_at only change through MarkPaid.
func (s *BillStore) Update(ctx context.Context, b *models.Bill) (*models.Bill, error) {
	row := s.db.QueryRow(ctx, `
        UPDATE bills
        SET customer_id = $2, customer_name = $3, amount = $4, fee = $5, due_date = $6, note = $7
        WHERE id = $1
        RETURNING `+billColumns+`
    `, b.ID, b.CustomerID, b.CustomerName, b.Amount, b.Fee, b.DueDate, b.Note)

	updated, err := scanBill(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrBillNotFound
		}
		return nil, fmt.Errorf("could not update bill %d: %w", b.ID, err)
	}
	return updated, nil
}

// BillFilter narrows List. Zero fields are ignored. OVERDUE is never a
// stored status, so callers asking for overdue bills set OverdueOn to the
// shop-local date instead of Status.
type BillFilter struct {
	Status     string
	OverdueOn  *time.Time
	CustomerID string
	DueFrom    *time.Time
	DueTo      *time.Time
	Search     string
	Limit      int
}

func (s *BillStore) List(ctx context.Context, f BillFilter) ([]*models.Bill, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Status != "" {
		where = append(where, "status = "+arg(f.Status))
	}
	if f.OverdueOn != nil {
		where = append(where, "(status = 'PENDING' AND due_date < "+arg(*f.OverdueOn)+")")
	}
	if f.CustomerID != "" {
		where = append(where, "customer_id ILIKE "+arg("%"+f.CustomerID+"%"))
	}
	if f.DueFrom != nil {
		where = append(where, "due_date >= "+arg(*f.DueFrom))
	}
	if f.DueTo != nil {
		where = append(where, "due_date <= "+arg(*f.DueTo))
	}
	if f.Search != "" {
		p := "%" + f.Search + "%"
		where = append(where, "(customer_id ILIKE "+arg(p)+" OR customer_name ILIKE "+arg(p)+" OR note ILIKE "+arg(p)+")")
	}

	query := `SELECT ` + billColumns + ` FROM bills`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY due_date ASC, created_at DESC"
	if f.Limit > 0 {
		query += " LIMIT " + arg(f.Limit)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bills []*models.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

// StatusCounts summarizes the bill book. Overdue means pending past due,
// computed against the given civil date, never stored.
type StatusCounts struct {
	Total   int `json:"total"`
	Pending int `json:"pending"`
	Paid    int `json:"paid"`
	Overdue int `json:"overdue"`
}

func (s *BillStore) CountByStatus(ctx context.Context, today time.Time) (StatusCounts, error) {
	var c StatusCounts
	err := s.db.QueryRow(ctx, `
        SELECT
            COUNT(id),
            COUNT(id) FILTER (WHERE status = 'PENDING'),
            COUNT(id) FILTER (WHERE status = 'PAID'),
            COUNT(id) FILTER (WHERE status = 'PENDING' AND due_date < $1)
        FROM bills
    `, today).Scan(&c.Total, &c.Pending, &c.Paid, &c.Overdue)
	if err != nil {
		return StatusCounts{}, err
	}
	return c, nil
}

// DueDateGroup is one upcoming due date with its pending load.
type DueDateGroup struct {
	DueDate     time.Time       `json:"due_date"`
	Count       int             `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

func (s *BillStore) PendingByDueDate(ctx context.Context, limit int) ([]DueDateGroup, error) {
	rows, err := s.db.Query(ctx, `
        SELECT due_date, COUNT(id), COALESCE(SUM(amount), 0)
        FROM bills
        WHERE status = 'PENDING'
        GROUP BY due_date
        ORDER BY due_date ASC
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DueDateGroup
	for rows.Next() {
		var g DueDateGroup
		if err := rows.Scan(&g.DueDate, &g.Count, &g.TotalAmount); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// MarkPaid transitions one bill PENDING -> PAID and records the
// BILL_PAYMENT transaction in the same database transaction. If either
// write fails the bill keeps its prior state and no transaction row is
// left behind. A bill that is not PENDING returns ledger.ErrAlreadyPaid
// and is left untouched.
func (s *BillStore) MarkPaid(ctx context.Context, billID int64, actor string) (*models.Transaction, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	created, err := payBill(ctx, tx, billID, actor)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return created, nil
}

// CreateAndPay records a bill and settles it in the same database
// transaction, for the walk-in flow. A failure in either write rolls both
// back, so no unpaid bill or orphan transaction survives the error.
func (s *BillStore) CreateAndPay(ctx context.Context, b *models.Bill, actor string) (*models.Bill, *models.Transaction, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	created, err := insertBill(ctx, tx, b)
	if err != nil {
		return nil, nil, err
	}

	txn, err := payBill(ctx, tx, created.ID, actor)
	if err != nil {
		return nil, nil, err
	}

	row := tx.QueryRow(ctx, `SELECT `+billColumns+` FROM bills WHERE id = $1`, created.ID)
	paid, err := scanBill(row)
	if err != nil {
		return nil, nil, fmt.Errorf("reload bill %d: %w", created.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit tx: %w", err)
	}

	return paid, txn, nil
}

// payBill runs the PENDING -> PAID transition inside the caller's
// transaction: the guarded status update, the BILL_PAYMENT transaction
// insert and the back-link.
func payBill(ctx context.Context, tx pgx.Tx, billID int64, actor string) (*models.Transaction, error) {
	// Guarded transition: only a PENDING bill moves, the row lock from
	// UPDATE keeps a concurrent pay attempt out until commit.
	var (
		customerID string
		amount     decimal.Decimal
		fee        decimal.Decimal
	)
	err := tx.QueryRow(ctx, `
        UPDATE bills
        SET status = 'PAID', paid_at = now()
        WHERE id = $1 AND status = 'PENDING'
        RETURNING customer_id, amount, fee
    `, billID).Scan(&customerID, &amount, &fee)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// zero rows: either already paid or missing
			var exists bool
			if checkErr := tx.QueryRow(ctx,
				`SELECT EXISTS(SELECT 1 FROM bills WHERE id = $1)`, billID,
			).Scan(&exists); checkErr != nil {
				return nil, checkErr
			}
			if exists {
				return nil, ledger.ErrAlreadyPaid
			}
			return nil, ledger.ErrBillNotFound
		}
		return nil, fmt.Errorf("mark bill %d paid: %w", billID, err)
	}

	cashIn, cashOut := ledger.Classify(models.BillPayment, amount, fee)

	row := tx.QueryRow(ctx, `
        INSERT INTO transactions (ref, ttype, payment_mode, amount, fee, cash_in, cash_out, note, created_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING `+transactionColumns+`
    `, uuid.NewString(), models.BillPayment, models.PayCash, amount, fee, cashIn, cashOut,
		fmt.Sprintf("Bill payment for customer %s", customerID), actor)

	created, err := scanTransaction(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && (pgErr.Code == "23505" || pgErr.Code == "23503") {
			return nil, fmt.Errorf("integrity violation: %s", pgErr.Message)
		}
		return nil, fmt.Errorf("create bill payment transaction: %w", err)
	}

	if _, err := tx.Exec(ctx, `
        UPDATE bills SET transaction_id = $2 WHERE id = $1
    `, billID, created.ID); err != nil {
		return nil, fmt.Errorf("link transaction to bill %d: %w", billID, err)
	}

	return created, nil
}
