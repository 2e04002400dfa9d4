package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	config "github.com/madina-shop/cashbook-services/configs"
	"github.com/madina-shop/cashbook-services/internal/cashsvc/broker"
	"github.com/madina-shop/cashbook-services/internal/cashsvc/ledger"
	"github.com/madina-shop/cashbook-services/internal/cashsvc/models"
	"github.com/madina-shop/cashbook-services/internal/cashsvc/store"
	"github.com/madina-shop/cashbook-services/internal/notify"
)

// SettingsProvider supplies the current shop settings; reads go through it
// on every resolve so a settings update applies without a restart.
type SettingsProvider interface {
	Get(ctx context.Context) (*models.ShopSettings, error)
}

type TransactionService struct {
	txStore  *store.TransactionStore
	broker   *broker.Broker
	notifier *notify.TelegramNotifier
	shop     config.Shop
	settings SettingsProvider
}

func NewTransactionService(txStore *store.TransactionStore, b *broker.Broker, n *notify.TelegramNotifier, shop config.Shop, settings SettingsProvider) *TransactionService {
	return &TransactionService{
		txStore:  txStore,
		broker:   b,
		notifier: n,
		shop:     shop,
		settings: settings,
	}
}

// TransactionInput is what staff actually enter. cash_in and cash_out are
// never accepted from callers, they are derived on every write.
type TransactionInput struct {
	TType       string          `json:"ttype"`
	PaymentMode string          `json:"payment_mode"`
	Amount      decimal.Decimal `json:"amount"`
	Fee         decimal.Decimal `json:"fee"`
	PrintType   string          `json:"print_type"`
	Quantity    int             `json:"quantity"`
	Note        string          `json:"note"`
}

// printCopyAmount derives a PRINT_COPY amount from the configured per-page
// cost when the caller supplied a quantity instead of an amount.
func printCopyAmount(settings *models.ShopSettings, printType string, quantity int) decimal.Decimal {
	cost := settings.PrintBWCost
	if printType == models.PrintColor {
		cost = settings.PrintColorCost
	}
	return cost.Mul(decimal.NewFromInt(int64(quantity)))
}

// resolve canonicalizes and validates an input, returning the classified
// type/amount/fee triple ready to store.
func (s *TransactionService) resolve(ctx context.Context, in TransactionInput) (ttype string, amount, fee decimal.Decimal, cashIn, cashOut decimal.Decimal, err error) {
	ttype, err = ledger.ParseType(in.TType)
	if err != nil {
		return "", decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero,
			&ledger.ValidationError{Field: "ttype", Message: err.Error()}
	}

	amount = in.Amount
	if ttype == models.PrintCopy && in.Quantity > 0 && amount.IsZero() {
		settings, serr := s.settings.Get(ctx)
		if serr != nil {
			return "", decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero,
				fmt.Errorf("load shop settings: %w", serr)
		}
		amount = printCopyAmount(settings, in.PrintType, in.Quantity)
	}
	fee = in.Fee

	if err = ledger.Validate(ttype, amount, fee); err != nil {
		return "", decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, err
	}

	cashIn, cashOut = ledger.Classify(ttype, amount, fee)
	return ttype, amount, fee, cashIn, cashOut, nil
}

func (s *TransactionService) Create(ctx context.Context, in TransactionInput, actor string) (*models.Transaction, error) {
	ttype, amount, fee, cashIn, cashOut, err := s.resolve(ctx, in)
	if err != nil {
		return nil, err
	}

	paymentMode := in.PaymentMode
	if paymentMode == "" {
		paymentMode = models.PayCash
	}

	created, err := s.txStore.Insert(ctx, &models.Transaction{
		Ref:         uuid.NewString(),
		TType:       ttype,
		PaymentMode: paymentMode,
		Amount:      amount,
		Fee:         fee,
		CashIn:      cashIn,
		CashOut:     cashOut,
		Note:        in.Note,
		CreatedBy:   actor,
	})
	if err != nil {
		return nil, err
	}

	s.broker.TransactionRecorded(created)
	s.notifyLargeMovement(created)

	return created, nil
}

// Update reapplies validation and classification to the stored row.
// created_at stays as recorded; only the entered fields move.
func (s *TransactionService) Update(ctx context.Context, id int64, in TransactionInput) (*models.Transaction, error) {
	existing, err := s.txStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ttype, amount, fee, cashIn, cashOut, err := s.resolve(ctx, in)
	if err != nil {
		return nil, err
	}

	existing.TType = ttype
	existing.Amount = amount
	existing.Fee = fee
	existing.CashIn = cashIn
	existing.CashOut = cashOut
	existing.Note = in.Note
	if in.PaymentMode != "" {
		existing.PaymentMode = in.PaymentMode
	}

	return s.txStore.Update(ctx, existing)
}

func (s *TransactionService) GetByID(ctx context.Context, id int64) (*models.Transaction, error) {
	return s.txStore.GetByID(ctx, id)
}

func (s *TransactionService) List(ctx context.Context, f store.TransactionFilter) ([]*models.Transaction, error) {
	return s.txStore.List(ctx, f)
}

func (s *TransactionService) notifyLargeMovement(t *models.Transaction) {
	if s.notifier == nil || s.shop.NotifyThreshold.IsZero() {
		return
	}
	moved := t.CashIn
	if t.CashOut.GreaterThan(moved) {
		moved = t.CashOut
	}
	if moved.LessThan(s.shop.NotifyThreshold) {
		return
	}
	s.notifier.SendNotification(fmt.Sprintf(
		"*LARGE CASH MOVEMENT*\n\n*Type:* %s\n*Amount:* %s PKR\n*Cash in:* %s\n*Cash out:* %s\n*By:* %s\n*Time:* %s",
		t.TType,
		t.Amount.StringFixed(2),
		t.CashIn.StringFixed(2),
		t.CashOut.StringFixed(2),
		t.CreatedBy,
		time.Now().In(s.shop.Location).Format("2006-01-02 15:04:05"),
	))
}
