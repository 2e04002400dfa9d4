package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/madina-shop/cashbook-services/internal/cashsvc/broker"
	"github.com/madina-shop/cashbook-services/internal/cashsvc/ledger"
	"github.com/madina-shop/cashbook-services/internal/cashsvc/models"
	"github.com/madina-shop/cashbook-services/internal/cashsvc/store"
	"github.com/madina-shop/cashbook-services/internal/notify"
)

// BillStore is the persistence surface the bill lifecycle needs. The pgx
// implementation lives in the store package; tests use a fake.
type BillStore interface {
	Insert(ctx context.Context, b *models.Bill) (*models.Bill, error)
	GetByID(ctx context.Context, id int64) (*models.Bill, error)
	Update(ctx context.Context, b *models.Bill) (*models.Bill, error)
	List(ctx context.Context, f store.BillFilter) ([]*models.Bill, error)
	CountByStatus(ctx context.Context, today time.Time) (store.StatusCounts, error)
	PendingByDueDate(ctx context.Context, limit int) ([]store.DueDateGroup, error)
	MarkPaid(ctx context.Context, billID int64, actor string) (*models.Transaction, error)
	CreateAndPay(ctx context.Context, b *models.Bill, actor string) (*models.Bill, *models.Transaction, error)
}

type BillService struct {
	bills    BillStore
	broker   *broker.Broker
	notifier *notify.TelegramNotifier
}

func NewBillService(bills BillStore, b *broker.Broker, n *notify.TelegramNotifier) *BillService {
	return &BillService{bills: bills, broker: b, notifier: n}
}

func (s *BillService) Create(ctx context.Context, b *models.Bill) (*models.Bill, error) {
	// bill amounts follow the bill-payment rules, including the fee cap
	if err := ledger.Validate(models.BillPayment, b.Amount, b.Fee); err != nil {
		return nil, err
	}
	return s.bills.Insert(ctx, b)
}

func (s *BillService) Update(ctx context.Context, b *models.Bill) (*models.Bill, error) {
	if err := ledger.Validate(models.BillPayment, b.Amount, b.Fee); err != nil {
		return nil, err
	}
	return s.bills.Update(ctx, b)
}

func (s *BillService) GetByID(ctx context.Context, id int64) (*models.Bill, error) {
	return s.bills.GetByID(ctx, id)
}

func (s *BillService) List(ctx context.Context, f store.BillFilter) ([]*models.Bill, error) {
	return s.bills.List(ctx, f)
}

func (s *BillService) CountByStatus(ctx context.Context, today time.Time) (store.StatusCounts, error) {
	return s.bills.CountByStatus(ctx, today)
}

func (s *BillService) PendingByDueDate(ctx context.Context, limit int) ([]store.DueDateGroup, error) {
	return s.bills.PendingByDueDate(ctx, limit)
}

// MarkPaid transitions a PENDING bill to PAID, creating exactly one linked
// BILL_PAYMENT transaction. Paying an already-paid bill returns
// ledger.ErrAlreadyPaid and creates nothing; the bill and its pair of
// writes are atomic in the store.
func (s *BillService) MarkPaid(ctx context.Context, billID int64, actor string) (*models.Transaction, error) {
	txn, err := s.bills.MarkPaid(ctx, billID, actor)
	if err != nil {
		return nil, err
	}

	bill, err := s.bills.GetByID(ctx, billID)
	if err != nil {
		// the pay itself committed; only the event enrichment failed
		log.Errorf("load bill %d after pay: %v", billID, err)
		return txn, nil
	}

	s.broker.BillPaid(bill, txn)
	s.notifyBillPaid(bill, txn)

	return txn, nil
}

// BulkMarkPaid applies MarkPaid to each bill independently. Bills that are
// not PENDING (or no longer exist) are skipped; the count of bills actually
// transitioned comes back. Each bill+transaction pair is individually
// atomic, so a failure partway leaves earlier pays committed.
func (s *BillService) BulkMarkPaid(ctx context.Context, billIDs []int64, actor string) (int, error) {
	count := 0
	for _, id := range billIDs {
		_, err := s.MarkPaid(ctx, id, actor)
		if err != nil {
			if errors.Is(err, ledger.ErrAlreadyPaid) || errors.Is(err, ledger.ErrBillNotFound) {
				continue
			}
			return count, err
		}
		count++
	}
	return count, nil
}

// CreateAndPay records a bill and settles it immediately, for the walk-in
// flow where the customer pays on the spot. The store runs both writes in
// one database transaction, so a failed pay leaves no bill behind.
func (s *BillService) CreateAndPay(ctx context.Context, b *models.Bill, actor string) (*models.Bill, *models.Transaction, error) {
	if err := ledger.Validate(models.BillPayment, b.Amount, b.Fee); err != nil {
		return nil, nil, err
	}

	paid, txn, err := s.bills.CreateAndPay(ctx, b, actor)
	if err != nil {
		return nil, nil, err
	}

	s.broker.BillPaid(paid, txn)
	s.notifyBillPaid(paid, txn)

	return paid, txn, nil
}

func (s *BillService) notifyBillPaid(bill *models.Bill, txn *models.Transaction) {
	if s.notifier == nil {
		return
	}
	s.notifier.SendNotification(fmt.Sprintf(
		"*BILL PAID*\n\n*Customer:* %s\n*Amount:* %s PKR\n*Fee:* %s PKR\n*Txn:* #%d",
		bill.CustomerID,
		bill.Amount.StringFixed(2),
		bill.Fee.StringFixed(2),
		txn.ID,
	))
}
