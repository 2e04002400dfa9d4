package handlers

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/madina-shop/cashbook-services/configs"
	"github.com/madina-shop/cashbook-services/internal/cashsvc/models"
)

func testHandler() *Handler {
	return &Handler{shop: config.Shop{Location: time.FixedZone("PKT", 5*60*60)}}
}

// Date windows follow the shop's civil day, not UTC.
func TestParseDayUsesShopLocation(t *testing.T) {
	h := testHandler()

	d, err := h.parseDay("2026-08-29")
	require.NoError(t, err)

	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, time.August, d.Month())
	assert.Equal(t, 29, d.Day())
	assert.Equal(t, 0, d.Hour())
	_, offset := d.Zone()
	assert.Equal(t, 5*60*60, offset)

	_, err = h.parseDay("29-08-2026")
	assert.Error(t, err)
}

func TestBillListFilterDerivesOverdue(t *testing.T) {
	h := testHandler()
	today := time.Date(2026, time.August, 29, 0, 0, 0, 0, h.shop.Location)

	f, err := h.billListFilter(url.Values{"status": {models.BillOverdue}}, today)
	require.NoError(t, err)
	assert.Empty(t, f.Status)
	require.NotNil(t, f.OverdueOn)
	assert.True(t, f.OverdueOn.Equal(today))

	// stored statuses pass through untouched
	f, err = h.billListFilter(url.Values{"status": {models.BillPending}}, today)
	require.NoError(t, err)
	assert.Equal(t, models.BillPending, f.Status)
	assert.Nil(t, f.OverdueOn)
}

func TestBillListFilterDueWindowInShopLocation(t *testing.T) {
	h := testHandler()
	today := time.Date(2026, time.August, 29, 0, 0, 0, 0, h.shop.Location)

	f, err := h.billListFilter(url.Values{
		"start_date": {"2026-08-01"},
		"end_date":   {"2026-08-31"},
	}, today)
	require.NoError(t, err)
	require.NotNil(t, f.DueFrom)
	require.NotNil(t, f.DueTo)
	_, offset := f.DueFrom.Zone()
	assert.Equal(t, 5*60*60, offset)
	assert.Equal(t, 1, f.DueFrom.Day())
	assert.Equal(t, 31, f.DueTo.Day())
}
