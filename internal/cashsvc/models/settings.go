package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShopSettings is the single configuration row (id = 1). It is loaded once
// at startup and passed to the services that need it.
type ShopSettings struct {
	ID             int64           `json:"id"`
	PrintBWCost    decimal.Decimal `json:"print_bw_cost"`
	PrintColorCost decimal.Decimal `json:"print_color_cost"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
