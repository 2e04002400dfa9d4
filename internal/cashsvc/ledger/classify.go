package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/madina-shop/cashbook-services/internal/cashsvc/models"
)

// legacy tags still present in old records and import files
var typeAliases = map[string]string{
	"JAZZCASH_SEND":     models.MobileWalletSend,
	"EASYPAISA_SEND":    models.MobileWalletSend,
	"JAZZCASH_RECEIVE":  models.MobileWalletReceive,
	"EASYPAISA_RECEIVE": models.MobileWalletReceive,
	"CASH_CREDIT":       models.Credit,
}

var validTypes = map[string]bool{
	models.MobileWalletSend:    true,
	models.MobileWalletReceive: true,
	models.StationarySale:      true,
	models.PrintCopy:           true,
	models.Deposit:             true,
	models.Credit:              true,
	models.LoadPackage:         true,
	models.BillPayment:         true,
	models.BankDeposit:         true,
	models.BankWithdrawal:      true,
	models.Other:               true,
}

// ParseType canonicalizes a transaction type tag, collapsing legacy
// aliases onto the current set.
func ParseType(s string) (string, error) {
	if canonical, ok := typeAliases[s]; ok {
		return canonical, nil
	}
	if validTypes[s] {
		return s, nil
	}
	return "", fmt.Errorf("unknown transaction type %q", s)
}

// Classify derives the cash flow pair for a transaction. It is the single
// place the shop's accounting rules live:
//
//   - wallet send / bill payment: customer hands over amount + fee in cash,
//     the app transfer itself never touches the till
//   - wallet receive: amount leaves the till to the customer, the fee stays
//   - credit: cash leaves the till to load the shop SIM
//   - bank deposit / withdrawal: cash moves between till and bank
//
// The caller must have validated inputs; Classify itself never fails.
// cash_in and cash_out are fully derived, including for OTHER.
func Classify(ttype string, amount, fee decimal.Decimal) (cashIn, cashOut decimal.Decimal) {
	zero := decimal.Zero
	switch ttype {
	case models.MobileWalletSend:
		return amount.Add(fee), zero
	case models.MobileWalletReceive:
		return fee, amount
	case models.StationarySale:
		return amount, zero
	case models.PrintCopy:
		return amount, zero
	case models.Deposit:
		return amount, zero
	case models.Credit:
		return zero, amount
	case models.LoadPackage:
		return amount, zero
	case models.BillPayment:
		return amount.Add(fee), zero
	case models.BankDeposit:
		return zero, amount
	case models.BankWithdrawal:
		return amount, zero
	default: // OTHER and anything unrecognized
		return zero, amount
	}
}

// feeCapped lists the types where the service fee may not exceed the amount.
var feeCapped = map[string]bool{
	models.MobileWalletSend:    true,
	models.MobileWalletReceive: true,
	models.BillPayment:         true,
}

// Validate checks a transaction's inputs before any write. It returns nil
// or a *ValidationError keyed by the offending field.
func Validate(ttype string, amount, fee decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return &ValidationError{Field: "amount", Message: "Amount must be greater than zero."}
	}
	if fee.IsNegative() {
		return &ValidationError{Field: "fee", Message: "Fee cannot be negative."}
	}
	if feeCapped[ttype] && fee.GreaterThan(amount) {
		return &ValidationError{Field: "fee", Message: "Service fee cannot exceed transaction amount."}
	}
	return nil
}
