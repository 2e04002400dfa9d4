package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madina-shop/cashbook-services/internal/cashsvc/ledger"
	"github.com/madina-shop/cashbook-services/internal/cashsvc/models"
	"github.com/madina-shop/cashbook-services/internal/cashsvc/store"
)

// fakeBillStore keeps bills in memory and mirrors the pgx store's
// MarkPaid contract: the PENDING guard, the single linked transaction and
// ErrAlreadyPaid for repeats.
type fakeBillStore struct {
	bills  map[int64]*models.Bill
	txs    map[int64]*models.Transaction
	nextID int64

	// payErr makes the transaction insert inside a pay fail, the way a
	// constraint violation would.
	payErr error
}

func newFakeBillStore() *fakeBillStore {
	return &fakeBillStore{
		bills: make(map[int64]*models.Bill),
		txs:   make(map[int64]*models.Transaction),
	}
}

func (f *fakeBillStore) Insert(_ context.Context, b *models.Bill) (*models.Bill, error) {
	f.nextID++
	stored := *b
	stored.ID = f.nextID
	stored.Status = models.BillPending
	stored.CreatedAt = time.Now()
	f.bills[stored.ID] = &stored
	return &stored, nil
}

func (f *fakeBillStore) GetByID(_ context.Context, id int64) (*models.Bill, error) {
	b, ok := f.bills[id]
	if !ok {
		return nil, ledger.ErrBillNotFound
	}
	return b, nil
}

func (f *fakeBillStore) Update(_ context.Context, b *models.Bill) (*models.Bill, error) {
	if _, ok := f.bills[b.ID]; !ok {
		return nil, ledger.ErrBillNotFound
	}
	f.bills[b.ID] = b
	return b, nil
}

func (f *fakeBillStore) List(_ context.Context, _ store.BillFilter) ([]*models.Bill, error) {
	var out []*models.Bill
	for _, b := range f.bills {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBillStore) CountByStatus(_ context.Context, today time.Time) (store.StatusCounts, error) {
	var c store.StatusCounts
	for _, b := range f.bills {
		c.Total++
		switch b.Status {
		case models.BillPending:
			c.Pending++
			if b.IsOverdue(today) {
				c.Overdue++
			}
		case models.BillPaid:
			c.Paid++
		}
	}
	return c, nil
}

func (f *fakeBillStore) PendingByDueDate(_ context.Context, _ int) ([]store.DueDateGroup, error) {
	return nil, nil
}

func (f *fakeBillStore) MarkPaid(_ context.Context, billID int64, actor string) (*models.Transaction, error) {
	b, ok := f.bills[billID]
	if !ok {
		return nil, ledger.ErrBillNotFound
	}
	if b.Status != models.BillPending {
		return nil, ledger.ErrAlreadyPaid
	}
	if f.payErr != nil {
		return nil, f.payErr
	}

	cashIn, cashOut := ledger.Classify(models.BillPayment, b.Amount, b.Fee)
	f.nextID++
	txn := &models.Transaction{
		ID:        f.nextID,
		TType:     models.BillPayment,
		Amount:    b.Amount,
		Fee:       b.Fee,
		CashIn:    cashIn,
		CashOut:   cashOut,
		CreatedBy: actor,
		CreatedAt: time.Now(),
	}
	f.txs[txn.ID] = txn

	now := time.Now()
	b.Status = models.BillPaid
	b.TransactionID = &txn.ID
	b.PaidAt = &now
	return txn, nil
}

// CreateAndPay mirrors the pgx store's single-transaction contract: a
// failed pay rolls the bill insert back too.
func (f *fakeBillStore) CreateAndPay(ctx context.Context, b *models.Bill, actor string) (*models.Bill, *models.Transaction, error) {
	created, err := f.Insert(ctx, b)
	if err != nil {
		return nil, nil, err
	}
	txn, err := f.MarkPaid(ctx, created.ID, actor)
	if err != nil {
		delete(f.bills, created.ID)
		return nil, nil, err
	}
	return f.bills[created.ID], txn, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newBill(amount, fee string) *models.Bill {
	return &models.Bill{
		CustomerID: "C-100",
		Amount:     dec(amount),
		Fee:        dec(fee),
		DueDate:    time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestMarkPaidCreatesOneTransaction(t *testing.T) {
	fake := newFakeBillStore()
	svc := NewBillService(fake, nil, nil)
	ctx := context.Background()

	bill, err := svc.Create(ctx, newBill("500", "50"))
	require.NoError(t, err)
	assert.Equal(t, models.BillPending, bill.Status)

	txn, err := svc.MarkPaid(ctx, bill.ID, "counter")
	require.NoError(t, err)
	assert.Equal(t, models.BillPayment, txn.TType)
	assert.True(t, txn.CashIn.Equal(dec("550")))
	assert.True(t, txn.CashOut.IsZero())

	paid, err := svc.GetByID(ctx, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BillPaid, paid.Status)
	require.NotNil(t, paid.TransactionID)
	assert.Equal(t, txn.ID, *paid.TransactionID)
	assert.NotNil(t, paid.PaidAt)
}

func TestMarkPaidIdempotent(t *testing.T) {
	fake := newFakeBillStore()
	svc := NewBillService(fake, nil, nil)
	ctx := context.Background()

	bill, err := svc.Create(ctx, newBill("500", "50"))
	require.NoError(t, err)

	first, err := svc.MarkPaid(ctx, bill.ID, "counter")
	require.NoError(t, err)

	_, err = svc.MarkPaid(ctx, bill.ID, "counter")
	assert.ErrorIs(t, err, ledger.ErrAlreadyPaid)

	// still exactly one transaction, still linked to the first
	assert.Len(t, fake.txs, 1)
	paid, err := svc.GetByID(ctx, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, *paid.TransactionID)
}

func TestMarkPaidMissingBill(t *testing.T) {
	svc := NewBillService(newFakeBillStore(), nil, nil)

	_, err := svc.MarkPaid(context.Background(), 404, "counter")
	assert.ErrorIs(t, err, ledger.ErrBillNotFound)
}

func TestBulkMarkPaidSkipsAlreadyPaid(t *testing.T) {
	fake := newFakeBillStore()
	svc := NewBillService(fake, nil, nil)
	ctx := context.Background()

	b1, err := svc.Create(ctx, newBill("100", "10"))
	require.NoError(t, err)
	b2, err := svc.Create(ctx, newBill("200", "20"))
	require.NoError(t, err)
	b3, err := svc.Create(ctx, newBill("300", "30"))
	require.NoError(t, err)

	// settle one up front
	pre, err := svc.MarkPaid(ctx, b2.ID, "counter")
	require.NoError(t, err)

	count, err := svc.BulkMarkPaid(ctx, []int64{b1.ID, b2.ID, b3.ID}, "counter")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// the already-paid bill kept its original transaction
	paid, err := svc.GetByID(ctx, b2.ID)
	require.NoError(t, err)
	assert.Equal(t, pre.ID, *paid.TransactionID)
	assert.Len(t, fake.txs, 3)
}

func TestCreateRejectsInvalidAmounts(t *testing.T) {
	svc := NewBillService(newFakeBillStore(), nil, nil)
	ctx := context.Background()

	var vErr *ledger.ValidationError

	_, err := svc.Create(ctx, newBill("0", "0"))
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "amount", vErr.Field)

	_, err = svc.Create(ctx, newBill("500", "600"))
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "fee", vErr.Field)
}

func TestCreateAndPay(t *testing.T) {
	fake := newFakeBillStore()
	svc := NewBillService(fake, nil, nil)

	bill, txn, err := svc.CreateAndPay(context.Background(), newBill("750", "25"), "counter")
	require.NoError(t, err)
	assert.Equal(t, models.BillPaid, bill.Status)
	assert.True(t, txn.CashIn.Equal(dec("775")))
	assert.Len(t, fake.txs, 1)
}

// A failed pay must take the bill insert down with it; no PENDING bill
// survives a create-and-pay that errored.
func TestCreateAndPayLeavesNothingOnFailure(t *testing.T) {
	fake := newFakeBillStore()
	fake.payErr = errors.New("integrity violation: transactions insert rejected")
	svc := NewBillService(fake, nil, nil)

	_, _, err := svc.CreateAndPay(context.Background(), newBill("750", "25"), "counter")
	require.Error(t, err)
	assert.Empty(t, fake.bills)
	assert.Empty(t, fake.txs)
}
