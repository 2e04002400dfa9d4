package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types. Legacy wallet-brand tags from older records collapse
// onto the MOBILE_WALLET_* pair at parse time.
const (
	MobileWalletSend    = "MOBILE_WALLET_SEND"
	MobileWalletReceive = "MOBILE_WALLET_RECEIVE"
	StationarySale      = "STATIONARY_SALE"
	PrintCopy           = "PRINT_COPY"
	Deposit             = "DEPOSIT"
	Credit              = "CREDIT"
	LoadPackage         = "LOAD_PACKAGE"
	BillPayment         = "BILL_PAYMENT"
	BankDeposit         = "BANK_DEPOSIT"
	BankWithdrawal      = "BANK_WITHDRAWAL"
	Other               = "OTHER"
)

// Payment modes
const (
	PayCash      = "CASH"
	PayJazzCash  = "JAZZCASH"
	PayEasyPaisa = "EASYPAISA"
	PayBank      = "BANK"
)

// Print types for PRINT_COPY transactions
const (
	PrintBW    = "BW"
	PrintColor = "COLOR"
)

type Transaction struct {
	ID          int64           `json:"id"`
	Ref         string          `json:"ref"`
	TType       string          `json:"ttype"`
	PaymentMode string          `json:"payment_mode"`
	Amount      decimal.Decimal `json:"amount"`
	Fee         decimal.Decimal `json:"fee"`
	CashIn      decimal.Decimal `json:"cash_in"`
	CashOut     decimal.Decimal `json:"cash_out"`
	Note        string          `json:"note"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NetAmount is the transaction's net effect on the till,
// positive for cash in and negative for cash out.
func (t *Transaction) NetAmount() decimal.Decimal {
	return t.CashIn.Sub(t.CashOut)
}

func (t *Transaction) IsCashIn() bool {
	return t.CashIn.GreaterThan(t.CashOut)
}

func (t *Transaction) IsCashOut() bool {
	return t.CashOut.GreaterThan(t.CashIn)
}
