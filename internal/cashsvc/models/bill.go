package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill statuses. OVERDUE is derived at read time and never stored.
const (
	BillPending = "PENDING"
	BillPaid    = "PAID"
	BillOverdue = "OVERDUE"
)

type Bill struct {
	ID            int64           `json:"id"`
	CustomerID    string          `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	Amount        decimal.Decimal `json:"amount"`
	Fee           decimal.Decimal `json:"fee"`
	DueDate       time.Time       `json:"due_date"`
	Status        string          `json:"status"`
	TransactionID *int64          `json:"transaction_id"`
	PaidAt        *time.Time      `json:"paid_at"`
	Note          string          `json:"note"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`

	// DisplayStatus is Status with OVERDUE applied against the shop-local
	// date. Stamped for API payloads, never stored.
	DisplayStatus string `json:"display_status,omitempty"`
}

// TotalAmount is the cash the customer hands over, bill plus service fee.
func (b *Bill) TotalAmount() decimal.Decimal {
	return b.Amount.Add(b.Fee)
}

// IsOverdue reports whether the bill is pending past its due date.
// today is the shop-local civil date.
func (b *Bill) IsOverdue(today time.Time) bool {
	if b.Status == BillPaid {
		return false
	}
	y1, m1, d1 := b.DueDate.Year(), b.DueDate.Month(), b.DueDate.Day()
	y2, m2, d2 := today.Year(), today.Month(), today.Day()
	if y1 != y2 {
		return y1 < y2
	}
	if m1 != m2 {
		return m1 < m2
	}
	return d1 < d2
}

// StatusOn maps a pending bill past due onto OVERDUE as of the given date.
func (b *Bill) StatusOn(today time.Time) string {
	if b.Status == BillPending && b.IsOverdue(today) {
		return BillOverdue
	}
	return b.Status
}

// StampDisplayStatus fills DisplayStatus on each bill for a response.
func StampDisplayStatus(bills []*Bill, today time.Time) {
	for _, b := range bills {
		b.DisplayStatus = b.StatusOn(today)
	}
}
