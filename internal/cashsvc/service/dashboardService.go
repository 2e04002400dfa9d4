package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	config "github.com/madina-shop/cashbook-services/configs"
	"github.com/madina-shop/cashbook-services/internal/cashsvc/ledger"
	"github.com/madina-shop/cashbook-services/internal/cashsvc/models"
	"github.com/madina-shop/cashbook-services/internal/cashsvc/store"
)

type DashboardService struct {
	txStore *store.TransactionStore
	shop    config.Shop
}

func NewDashboardService(txStore *store.TransactionStore, shop config.Shop) *DashboardService {
	return &DashboardService{txStore: txStore, shop: shop}
}

// DashboardReport is the landing-page snapshot: all-time till position,
// today's activity, month-to-date profit and the latest entries.
type DashboardReport struct {
	TotalCashInHand decimal.Decimal       `json:"total_cash_in_hand"`
	TotalProfit     decimal.Decimal       `json:"total_profit"`
	TodayCount      int                   `json:"today_transactions_count"`
	TodayCashIn     decimal.Decimal       `json:"today_cash_in"`
	TodayCashOut    decimal.Decimal       `json:"today_cash_out"`
	TodayProfit     decimal.Decimal       `json:"today_profit"`
	TodayNet        decimal.Decimal       `json:"today_net"`
	MonthProfit     decimal.Decimal       `json:"month_profit"`
	TodayByType     []store.TypeBreakdown `json:"today_by_type"`
	Recent          []*models.Transaction `json:"recent_transactions"`
	Date            time.Time             `json:"current_date"`
}

func (s *DashboardService) Overview(ctx context.Context) (*DashboardReport, error) {
	now := time.Now().In(s.shop.Location)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.shop.Location)
	dayEnd := dayStart.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.shop.Location)

	allTime, err := s.txStore.SumRange(ctx, nil, nil)
	if err != nil {
		return nil, err
	}

	today, err := s.txStore.SumRange(ctx, &dayStart, &dayEnd)
	if err != nil {
		return nil, err
	}

	month, err := s.txStore.SumRange(ctx, &monthStart, &dayEnd)
	if err != nil {
		return nil, err
	}

	byType, err := s.txStore.SumByType(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	recent, err := s.txStore.List(ctx, store.TransactionFilter{Limit: 10})
	if err != nil {
		return nil, err
	}

	return &DashboardReport{
		TotalCashInHand: allTime.CashIn.Sub(allTime.CashOut),
		TotalProfit:     allTime.Fee,
		TodayCount:      today.Count,
		TodayCashIn:     today.CashIn,
		TodayCashOut:    today.CashOut,
		TodayProfit:     today.Fee,
		TodayNet:        today.CashIn.Sub(today.CashOut),
		MonthProfit:     month.Fee,
		TodayByType:     byType,
		Recent:          recent,
		Date:            now,
	}, nil
}

// DailyHistory holds the rolled-up balance history for a date range.
type DailyHistory struct {
	Days           []ledger.DaySummary `json:"days"`
	StartDate      time.Time           `json:"start_date"`
	EndDate        time.Time           `json:"end_date"`
	CurrentBalance decimal.Decimal     `json:"current_balance"`
}

// History rolls up [start, end] by calendar day. Zero start/end default to
// the trailing 30 days ending today.
func (s *DashboardService) History(ctx context.Context, start, end time.Time) (*DailyHistory, error) {
	now := time.Now().In(s.shop.Location)
	if end.IsZero() {
		end = now
	}
	if start.IsZero() {
		start = end.AddDate(0, 0, -30)
	}

	loc := s.shop.Location
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	endExclusive := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)

	before, err := s.txStore.SumRange(ctx, nil, &startDay)
	if err != nil {
		return nil, err
	}
	opening := before.CashIn.Sub(before.CashOut)

	txs, err := s.txStore.List(ctx, store.TransactionFilter{From: &startDay, To: &endExclusive})
	if err != nil {
		return nil, err
	}

	days := ledger.DailyRollup(opening, txs, start, end, now, loc)

	current := opening
	if len(days) > 0 {
		current = days[0].ClosingBalance
	}

	return &DailyHistory{
		Days:           days,
		StartDate:      startDay,
		EndDate:        endExclusive.AddDate(0, 0, -1),
		CurrentBalance: current,
	}, nil
}
