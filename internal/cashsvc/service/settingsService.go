package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/madina-shop/cashbook-services/internal/cashsvc/ledger"
	"github.com/madina-shop/cashbook-services/internal/cashsvc/models"
	"github.com/madina-shop/cashbook-services/internal/cashsvc/store"
)

type SettingsService struct {
	settingsStore *store.SettingsStore
}

func NewSettingsService(settingsStore *store.SettingsStore) *SettingsService {
	return &SettingsService{settingsStore: settingsStore}
}

func (s *SettingsService) Get(ctx context.Context) (*models.ShopSettings, error) {
	return s.settingsStore.Get(ctx)
}

func (s *SettingsService) Update(ctx context.Context, printBW, printColor decimal.Decimal) (*models.ShopSettings, error) {
	if printBW.LessThanOrEqual(decimal.Zero) {
		return nil, &ledger.ValidationError{Field: "print_bw_cost", Message: "Cost must be greater than zero."}
	}
	if printColor.LessThanOrEqual(decimal.Zero) {
		return nil, &ledger.ValidationError{Field: "print_color_cost", Message: "Cost must be greater than zero."}
	}
	return s.settingsStore.Update(ctx, printBW, printColor)
}
