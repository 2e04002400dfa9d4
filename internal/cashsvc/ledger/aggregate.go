package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/madina-shop/cashbook-services/internal/cashsvc/models"
)

// Totals sums a set of classified transactions. The zero value is the
// correct result for an empty set.
type Totals struct {
	CashIn  decimal.Decimal `json:"cash_in"`
	CashOut decimal.Decimal `json:"cash_out"`
	Net     decimal.Decimal `json:"net"`
	Profit  decimal.Decimal `json:"profit"`
	Count   int             `json:"count"`
}

// Aggregate folds transactions into totals. Profit is the fee sum.
func Aggregate(txs []*models.Transaction) Totals {
	t := Totals{
		CashIn:  decimal.Zero,
		CashOut: decimal.Zero,
		Net:     decimal.Zero,
		Profit:  decimal.Zero,
	}
	for _, tx := range txs {
		t.CashIn = t.CashIn.Add(tx.CashIn)
		t.CashOut = t.CashOut.Add(tx.CashOut)
		t.Profit = t.Profit.Add(tx.Fee)
		t.Count++
	}
	t.Net = t.CashIn.Sub(t.CashOut)
	return t
}

// DaySummary is one emitted row of the daily balance history.
type DaySummary struct {
	Date           time.Time       `json:"date"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	CashIn         decimal.Decimal `json:"cash_in"`
	CashOut        decimal.Decimal `json:"cash_out"`
	Fee            decimal.Decimal `json:"fee"`
	NetChange      decimal.Decimal `json:"net_change"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	Count          int             `json:"transaction_count"`
	IsToday        bool            `json:"is_today"`
}

// civilDate truncates t to its calendar day in loc.
func civilDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DailyRollup walks each calendar day in [start, end] and chains the
// running balance: day N's closing is day N+1's opening. opening is the
// net of all transactions strictly before start. Days without transactions
// are omitted from the result unless they are today, but the balance still
// carries through them. Rows come back most recent first.
//
// txs must already be limited to the [start, end] window; attribution is
// by the civil date of created_at in loc.
func DailyRollup(opening decimal.Decimal, txs []*models.Transaction, start, end, today time.Time, loc *time.Location) []DaySummary {
	perDay := make(map[time.Time][]*models.Transaction)
	for _, tx := range txs {
		d := civilDate(tx.CreatedAt, loc)
		perDay[d] = append(perDay[d], tx)
	}

	startDay := civilDate(start, loc)
	endDay := civilDate(end, loc)
	todayDay := civilDate(today, loc)

	var out []DaySummary
	balance := opening
	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		t := Aggregate(perDay[day])
		closing := balance.Add(t.Net)

		if t.Count > 0 || day.Equal(todayDay) {
			out = append(out, DaySummary{
				Date:           day,
				OpeningBalance: balance,
				CashIn:         t.CashIn,
				CashOut:        t.CashOut,
				Fee:            t.Profit,
				NetChange:      t.Net,
				ClosingBalance: closing,
				Count:          t.Count,
				IsToday:        day.Equal(todayDay),
			})
		}

		balance = closing
	}

	// most recent first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// CategoryGroup is one slice of the static type partition used by analytics.
type CategoryGroup struct {
	Key   string
	Label string
	Types []string
}

// CategoryGroups partitions the transaction type set with no overlap.
// Bank movements and OTHER fold into the catch-all group.
var CategoryGroups = []CategoryGroup{
	{Key: "mobile_wallet_send", Label: "Mobile Wallet Send", Types: []string{models.MobileWalletSend}},
	{Key: "mobile_wallet_receive", Label: "Mobile Wallet Receive", Types: []string{models.MobileWalletReceive}},
	{Key: "print_copy", Label: "Print/Copy", Types: []string{models.PrintCopy}},
	{Key: "stationary", Label: "Stationary", Types: []string{models.StationarySale}},
	{Key: "deposit", Label: "Deposit", Types: []string{models.Deposit}},
	{Key: "credit", Label: "Credit", Types: []string{models.Credit}},
	{Key: "load_package", Label: "Load/Package", Types: []string{models.LoadPackage}},
	{Key: "bill_payment", Label: "Bill Payment", Types: []string{models.BillPayment}},
	{Key: "other", Label: "Other", Types: []string{models.Other, models.BankDeposit, models.BankWithdrawal}},
}

// GroupTotals is the per-group analytics cell: net cash, fee profit, count.
type GroupTotals struct {
	Cash   decimal.Decimal `json:"cash"`
	Profit decimal.Decimal `json:"profit"`
	Count  int             `json:"count"`
}

// PeriodReport holds one time window: every group plus the grand total.
type PeriodReport struct {
	Groups map[string]GroupTotals `json:"groups"`
	Total  GroupTotals            `json:"total"`
}

// AnalyticsReport covers the four analytics windows.
type AnalyticsReport struct {
	Today     PeriodReport `json:"today"`
	Yesterday PeriodReport `json:"yesterday"`
	Monthly   PeriodReport `json:"monthly"`
	AllTime   PeriodReport `json:"all_time"`
}

// CategoryRollup aggregates every category group over today, yesterday,
// month-to-date and all-time. today is the shop-local current time.
func CategoryRollup(txs []*models.Transaction, today time.Time, loc *time.Location) AnalyticsReport {
	todayDay := civilDate(today, loc)
	yesterdayDay := todayDay.AddDate(0, 0, -1)
	monthStart := time.Date(todayDay.Year(), todayDay.Month(), 1, 0, 0, 0, 0, loc)

	inToday := func(d time.Time) bool { return d.Equal(todayDay) }
	inYesterday := func(d time.Time) bool { return d.Equal(yesterdayDay) }
	inMonth := func(d time.Time) bool { return !d.Before(monthStart) && !d.After(todayDay) }
	inAll := func(time.Time) bool { return true }

	return AnalyticsReport{
		Today:     rollupPeriod(txs, loc, inToday),
		Yesterday: rollupPeriod(txs, loc, inYesterday),
		Monthly:   rollupPeriod(txs, loc, inMonth),
		AllTime:   rollupPeriod(txs, loc, inAll),
	}
}

func rollupPeriod(txs []*models.Transaction, loc *time.Location, include func(time.Time) bool) PeriodReport {
	groupOf := make(map[string]string, len(validTypes))
	for _, g := range CategoryGroups {
		for _, t := range g.Types {
			groupOf[t] = g.Key
		}
	}

	p := PeriodReport{Groups: make(map[string]GroupTotals, len(CategoryGroups))}
	for _, g := range CategoryGroups {
		p.Groups[g.Key] = GroupTotals{Cash: decimal.Zero, Profit: decimal.Zero}
	}
	total := GroupTotals{Cash: decimal.Zero, Profit: decimal.Zero}

	for _, tx := range txs {
		if !include(civilDate(tx.CreatedAt, loc)) {
			continue
		}
		key, ok := groupOf[tx.TType]
		if !ok {
			key = "other"
		}
		g := p.Groups[key]
		g.Cash = g.Cash.Add(tx.NetAmount())
		g.Profit = g.Profit.Add(tx.Fee)
		g.Count++
		p.Groups[key] = g

		total.Cash = total.Cash.Add(tx.NetAmount())
		total.Profit = total.Profit.Add(tx.Fee)
		total.Count++
	}

	p.Total = total
	return p
}
