package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/madina-shop/cashbook-services/internal/cashsvc/models"
)

type SettingsStore struct {
	db *pgxpool.Pool
}

func NewSettingsStore(db *pgxpool.Pool) *SettingsStore {
	return &SettingsStore{db: db}
}

// Get returns the single settings row, creating it with defaults on first
// use. The row is pinned to id 1.
func (s *SettingsStore) Get(ctx context.Context) (*models.ShopSettings, error) {
	row := s.db.QueryRow(ctx, `
        INSERT INTO shop_settings (id, print_bw_cost, print_color_cost)
        VALUES (1, 5.00, 5.00)
        ON CONFLICT (id) DO UPDATE SET id = shop_settings.id
        RETURNING id, print_bw_cost, print_color_cost, updated_at
    `)

	st := &models.ShopSettings{}
	err := row.Scan(&st.ID, &st.PrintBWCost, &st.PrintColorCost, &st.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("could not load shop settings: %w", err)
	}
	return st, nil
}

func (s *SettingsStore) Update(ctx context.Context, printBW, printColor decimal.Decimal) (*models.ShopSettings, error) {
	row := s.db.QueryRow(ctx, `
        UPDATE shop_settings
        SET print_bw_cost = $1, print_color_cost = $2, updated_at = now()
        WHERE id = 1
        RETURNING id, print_bw_cost, print_color_cost, updated_at
    `, printBW, printColor)

	st := &models.ShopSettings{}
	err := row.Scan(&st.ID, &st.PrintBWCost, &st.PrintColorCost, &st.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("could not update shop settings: %w", err)
	}
	return st, nil
}
