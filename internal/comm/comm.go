package comm

import (
	"time"

	"github.com/madina-shop/cashbook-services/internal/cashsvc/models"
)

// Subjects published by the cash service for external consumers
// (display boards, audit tailers).
const (
	SubjectTransaction = "ledger.transaction"
	SubjectBill        = "ledger.bill"
)

type TransactionEvent struct {
	Transaction *models.Transaction `json:"transaction"`
	Timestamp   int64               `json:"timestamp"`
}

type BillEvent struct {
	BillID      int64               `json:"bill_id"`
	CustomerID  string              `json:"customer_id"`
	Status      string              `json:"status"`
	Transaction *models.Transaction `json:"transaction"`
	Timestamp   int64               `json:"timestamp"`
}

type ServiceHeartbeat struct {
	ID        string    `json:"id"` // service instance id
	Timestamp time.Time `json:"timestamp"`
}
