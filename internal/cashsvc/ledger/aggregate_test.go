package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madina-shop/cashbook-services/internal/cashsvc/models"
)

var karachi = time.FixedZone("PKT", 5*60*60)

func tx(ttype, amount, fee string, at time.Time) *models.Transaction {
	a := dec(amount)
	f := dec(fee)
	cashIn, cashOut := Classify(ttype, a, f)
	return &models.Transaction{
		TType:     ttype,
		Amount:    a,
		Fee:       f,
		CashIn:    cashIn,
		CashOut:   cashOut,
		CreatedAt: at,
	}
}

func at(day int, hour int) time.Time {
	return time.Date(2026, time.August, day, hour, 0, 0, 0, karachi)
}

func TestAggregateEmpty(t *testing.T) {
	totals := Aggregate(nil)
	assert.True(t, totals.CashIn.IsZero())
	assert.True(t, totals.CashOut.IsZero())
	assert.True(t, totals.Net.IsZero())
	assert.True(t, totals.Profit.IsZero())
	assert.Equal(t, 0, totals.Count)
}

func TestAggregateBankMovements(t *testing.T) {
	txs := []*models.Transaction{
		tx(models.BankDeposit, "2000", "0", at(10, 9)),
		tx(models.BankWithdrawal, "500", "0", at(10, 12)),
	}
	totals := Aggregate(txs)
	assert.True(t, totals.Net.Equal(dec("-1500")), "net got %s", totals.Net)
	assert.Equal(t, 2, totals.Count)
}

func TestAggregateProfitIsFeeSum(t *testing.T) {
	txs := []*models.Transaction{
		tx(models.MobileWalletSend, "1000", "20", at(10, 9)),
		tx(models.BillPayment, "500", "50", at(10, 10)),
		tx(models.StationarySale, "300", "0", at(10, 11)),
	}
	totals := Aggregate(txs)
	assert.True(t, totals.Profit.Equal(dec("70")))
	assert.True(t, totals.CashIn.Equal(dec("1870")))
	assert.True(t, totals.CashOut.IsZero())
}

func TestDailyRollupCarriesBalance(t *testing.T) {
	// day 10 and day 13 trade, 11 and 12 are quiet
	txs := []*models.Transaction{
		tx(models.StationarySale, "100", "0", at(10, 9)),
		tx(models.Credit, "40", "0", at(13, 15)),
	}
	start := at(10, 0)
	end := at(14, 0)
	today := at(20, 12) // outside the range

	days := DailyRollup(dec("500"), txs, start, end, today, karachi)

	// quiet days are omitted, most recent first
	require.Len(t, days, 2)
	assert.Equal(t, 13, days[0].Date.Day())
	assert.Equal(t, 10, days[1].Date.Day())

	assert.True(t, days[1].OpeningBalance.Equal(dec("500")))
	assert.True(t, days[1].ClosingBalance.Equal(dec("600")))

	// the balance rode through the two skipped days unchanged
	assert.True(t, days[0].OpeningBalance.Equal(dec("600")))
	assert.True(t, days[0].ClosingBalance.Equal(dec("560")))
}

func TestDailyRollupIncludesTodayWithoutTrades(t *testing.T) {
	txs := []*models.Transaction{
		tx(models.Deposit, "250", "0", at(10, 9)),
	}
	start := at(10, 0)
	end := at(12, 0)
	today := at(12, 8)

	days := DailyRollup(decimal.Zero, txs, start, end, today, karachi)

	require.Len(t, days, 2)
	assert.True(t, days[0].IsToday)
	assert.Equal(t, 12, days[0].Date.Day())
	assert.Equal(t, 0, days[0].Count)
	assert.True(t, days[0].NetChange.IsZero())
	assert.True(t, days[0].ClosingBalance.Equal(dec("250")))
}

// The last closing balance must equal the opening balance plus the net of
// everything in the range, whatever days were skipped.
func TestDailyRollupRoundTrip(t *testing.T) {
	txs := []*models.Transaction{
		tx(models.MobileWalletSend, "1000", "20", at(3, 10)),
		tx(models.MobileWalletReceive, "400", "10", at(5, 11)),
		tx(models.BankDeposit, "2000", "0", at(5, 16)),
		tx(models.BankWithdrawal, "500", "0", at(9, 9)),
		tx(models.Other, "75", "0", at(14, 13)),
	}
	opening := dec("1234.56")
	start := at(1, 0)
	end := at(15, 0)
	today := at(15, 18)

	days := DailyRollup(opening, txs, start, end, today, karachi)
	require.NotEmpty(t, days)

	want := opening.Add(Aggregate(txs).Net)
	assert.True(t, days[0].ClosingBalance.Equal(want),
		"closing got %s want %s", days[0].ClosingBalance, want)
}

func TestDailyRollupEmptyRange(t *testing.T) {
	days := DailyRollup(dec("100"), nil, at(10, 0), at(12, 0), at(20, 0), karachi)
	assert.Empty(t, days)
}

func TestCategoryRollupWindows(t *testing.T) {
	today := at(20, 14)
	txs := []*models.Transaction{
		tx(models.MobileWalletSend, "1000", "20", at(20, 9)),                                   // today
		tx(models.MobileWalletSend, "500", "10", at(19, 9)),                                    // yesterday
		tx(models.StationarySale, "300", "0", at(5, 9)),                                        // this month
		tx(models.BillPayment, "200", "25", at(20, 10)),                                        // today
		tx(models.BankDeposit, "900", "0", time.Date(2026, time.July, 2, 9, 0, 0, 0, karachi)), // previous month
	}

	report := CategoryRollup(txs, today, karachi)

	sendToday := report.Today.Groups["mobile_wallet_send"]
	assert.True(t, sendToday.Cash.Equal(dec("1020")))
	assert.True(t, sendToday.Profit.Equal(dec("20")))
	assert.Equal(t, 1, sendToday.Count)

	sendYesterday := report.Yesterday.Groups["mobile_wallet_send"]
	assert.True(t, sendYesterday.Cash.Equal(dec("510")))
	assert.Equal(t, 1, sendYesterday.Count)

	// month-to-date picks up today, yesterday and the day-5 sale,
	// but not July
	assert.Equal(t, 4, report.Monthly.Total.Count)
	assert.Equal(t, 5, report.AllTime.Total.Count)

	// bank movements fold into the catch-all group
	other := report.AllTime.Groups["other"]
	assert.True(t, other.Cash.Equal(dec("-900")))
}

// The grand total of a period must equal the sum over its groups: the
// partition has no overlap and drops nothing.
func TestCategoryRollupPartition(t *testing.T) {
	seen := make(map[string]string)
	for _, g := range CategoryGroups {
		for _, ttype := range g.Types {
			prev, dup := seen[ttype]
			assert.False(t, dup, "type %s in both %s and %s", ttype, prev, g.Key)
			seen[ttype] = g.Key
		}
	}
	for ttype := range validTypes {
		_, ok := seen[ttype]
		assert.True(t, ok, "type %s not covered by any group", ttype)
	}

	today := at(20, 14)
	txs := []*models.Transaction{
		tx(models.MobileWalletSend, "1000", "20", at(20, 9)),
		tx(models.Credit, "50", "0", at(20, 10)),
		tx(models.BankWithdrawal, "700", "0", at(20, 11)),
	}
	report := CategoryRollup(txs, today, karachi)

	sumCash := decimal.Zero
	sumCount := 0
	for _, g := range report.Today.Groups {
		sumCash = sumCash.Add(g.Cash)
		sumCount += g.Count
	}
	assert.True(t, report.Today.Total.Cash.Equal(sumCash))
	assert.Equal(t, report.Today.Total.Count, sumCount)
}

func TestCategoryRollupEmpty(t *testing.T) {
	report := CategoryRollup(nil, at(20, 14), karachi)
	assert.True(t, report.AllTime.Total.Cash.IsZero())
	assert.Equal(t, 0, report.AllTime.Total.Count)
	for key, g := range report.AllTime.Groups {
		assert.True(t, g.Cash.IsZero(), "group %s", key)
	}
}
