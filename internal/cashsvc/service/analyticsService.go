package service

import (
	"context"
	"time"

	config "github.com/madina-shop/cashbook-services/configs"
	"github.com/madina-shop/cashbook-services/internal/cashsvc/ledger"
	"github.com/madina-shop/cashbook-services/internal/cashsvc/store"
)

type AnalyticsService struct {
	txStore *store.TransactionStore
	shop    config.Shop
}

func NewAnalyticsService(txStore *store.TransactionStore, shop config.Shop) *AnalyticsService {
	return &AnalyticsService{txStore: txStore, shop: shop}
}

// AnalyticsPage is the rollup plus the labels the frontend renders with.
type AnalyticsPage struct {
	Report     ledger.AnalyticsReport `json:"analytics"`
	TypeLabels map[string]string      `json:"type_labels"`
	Today      time.Time              `json:"today"`
	Yesterday  time.Time              `json:"yesterday"`
	MonthStart time.Time              `json:"month_start"`
}

func (s *AnalyticsService) Report(ctx context.Context) (*AnalyticsPage, error) {
	txs, err := s.txStore.List(ctx, store.TransactionFilter{})
	if err != nil {
		return nil, err
	}

	loc := s.shop.Location
	now := time.Now().In(loc)
	report := ledger.CategoryRollup(txs, now, loc)

	labels := make(map[string]string, len(ledger.CategoryGroups))
	for _, g := range ledger.CategoryGroups {
		labels[g.Key] = g.Label
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	return &AnalyticsPage{
		Report:     report,
		TypeLabels: labels,
		Today:      today,
		Yesterday:  today.AddDate(0, 0, -1),
		MonthStart: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc),
	}, nil
}
