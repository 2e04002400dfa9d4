package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBillOverdue(t *testing.T) {
	b := &Bill{Status: BillPending, DueDate: day(2026, time.August, 10)}

	assert.False(t, b.IsOverdue(day(2026, time.August, 9)))
	assert.False(t, b.IsOverdue(day(2026, time.August, 10)))
	assert.True(t, b.IsOverdue(day(2026, time.August, 11)))

	assert.Equal(t, BillOverdue, b.StatusOn(day(2026, time.August, 11)))
	assert.Equal(t, BillPending, b.StatusOn(day(2026, time.August, 10)))

	// a paid bill is never overdue
	b.Status = BillPaid
	assert.False(t, b.IsOverdue(day(2026, time.September, 1)))
	assert.Equal(t, BillPaid, b.StatusOn(day(2026, time.September, 1)))
}

func TestStampDisplayStatus(t *testing.T) {
	today := day(2026, time.August, 29)
	bills := []*Bill{
		{Status: BillPending, DueDate: day(2026, time.August, 20)},
		{Status: BillPending, DueDate: day(2026, time.September, 5)},
		{Status: BillPaid, DueDate: day(2026, time.August, 1)},
	}

	StampDisplayStatus(bills, today)

	assert.Equal(t, BillOverdue, bills[0].DisplayStatus)
	assert.Equal(t, BillPending, bills[1].DisplayStatus)
	assert.Equal(t, BillPaid, bills[2].DisplayStatus)
}

func TestBillTotalAmount(t *testing.T) {
	b := &Bill{
		Amount: decimal.RequireFromString("500"),
		Fee:    decimal.RequireFromString("50"),
	}
	assert.True(t, b.TotalAmount().Equal(decimal.RequireFromString("550")))
}

func TestTransactionNet(t *testing.T) {
	tx := &Transaction{
		CashIn:  decimal.RequireFromString("20"),
		CashOut: decimal.RequireFromString("1000"),
	}
	assert.True(t, tx.NetAmount().Equal(decimal.RequireFromString("-980")))
	assert.True(t, tx.IsCashOut())
	assert.False(t, tx.IsCashIn())
}
