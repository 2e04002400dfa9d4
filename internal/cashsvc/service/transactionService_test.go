package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/madina-shop/cashbook-services/configs"
	"github.com/madina-shop/cashbook-services/internal/cashsvc/ledger"
	"github.com/madina-shop/cashbook-services/internal/cashsvc/models"
)

// fakeSettings serves whatever the current settings row holds, like the
// read-through service does.
type fakeSettings struct {
	current *models.ShopSettings
}

func (f *fakeSettings) Get(context.Context) (*models.ShopSettings, error) {
	return f.current, nil
}

func testTxService() *TransactionService {
	settings := &fakeSettings{current: &models.ShopSettings{
		PrintBWCost:    dec("5.00"),
		PrintColorCost: dec("12.00"),
	}}
	return NewTransactionService(nil, nil, nil, config.Shop{}, settings)
}

func TestResolveClassifies(t *testing.T) {
	svc := testTxService()

	ttype, amount, fee, cashIn, cashOut, err := svc.resolve(context.Background(), TransactionInput{
		TType:  models.MobileWalletSend,
		Amount: dec("1000"),
		Fee:    dec("20"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.MobileWalletSend, ttype)
	assert.True(t, amount.Equal(dec("1000")))
	assert.True(t, fee.Equal(dec("20")))
	assert.True(t, cashIn.Equal(dec("1020")))
	assert.True(t, cashOut.IsZero())

	_, _, _, cashIn, cashOut, err = svc.resolve(context.Background(), TransactionInput{
		TType:  models.MobileWalletReceive,
		Amount: dec("1000"),
		Fee:    dec("20"),
	})
	require.NoError(t, err)
	assert.True(t, cashIn.Equal(dec("20")))
	assert.True(t, cashOut.Equal(dec("1000")))
}

func TestResolveCanonicalizesLegacyTags(t *testing.T) {
	svc := testTxService()

	ttype, _, _, _, _, err := svc.resolve(context.Background(), TransactionInput{
		TType:  "JAZZCASH_SEND",
		Amount: dec("100"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.MobileWalletSend, ttype)
}

func TestResolveRejectsBadInput(t *testing.T) {
	svc := testTxService()
	var vErr *ledger.ValidationError

	_, _, _, _, _, err := svc.resolve(context.Background(), TransactionInput{
		TType:  models.MobileWalletSend,
		Amount: dec("1000"),
		Fee:    dec("1200"),
	})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "fee", vErr.Field)

	_, _, _, _, _, err = svc.resolve(context.Background(), TransactionInput{
		TType:  "BOGUS",
		Amount: dec("100"),
	})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "ttype", vErr.Field)
}

// OTHER is fully derived; callers never steer cash_in or cash_out.
func TestResolveOtherIsDerived(t *testing.T) {
	svc := testTxService()

	_, _, _, cashIn, cashOut, err := svc.resolve(context.Background(), TransactionInput{
		TType:  models.Other,
		Amount: dec("80"),
	})
	require.NoError(t, err)
	assert.True(t, cashIn.IsZero())
	assert.True(t, cashOut.Equal(dec("80")))
}

func TestPrintCopyAmountFromQuantity(t *testing.T) {
	svc := testTxService()

	_, amount, _, cashIn, _, err := svc.resolve(context.Background(), TransactionInput{
		TType:     models.PrintCopy,
		PrintType: models.PrintColor,
		Quantity:  4,
	})
	require.NoError(t, err)
	assert.True(t, amount.Equal(dec("48.00")))
	assert.True(t, cashIn.Equal(dec("48.00")))

	// an explicit amount wins over the quantity derivation
	_, amount, _, _, _, err = svc.resolve(context.Background(), TransactionInput{
		TType:     models.PrintCopy,
		PrintType: models.PrintBW,
		Quantity:  4,
		Amount:    dec("99"),
	})
	require.NoError(t, err)
	assert.True(t, amount.Equal(dec("99")))
}

// Settings are read through on every resolve, so a price change applies to
// the next print sale without a restart.
func TestPrintCopyPricingFollowsSettingsUpdate(t *testing.T) {
	settings := &fakeSettings{current: &models.ShopSettings{
		PrintBWCost:    dec("5.00"),
		PrintColorCost: dec("12.00"),
	}}
	svc := NewTransactionService(nil, nil, nil, config.Shop{}, settings)

	in := TransactionInput{TType: models.PrintCopy, PrintType: models.PrintBW, Quantity: 3}

	_, amount, _, _, _, err := svc.resolve(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, amount.Equal(dec("15.00")))

	settings.current = &models.ShopSettings{
		PrintBWCost:    dec("7.00"),
		PrintColorCost: dec("12.00"),
	}

	_, amount, _, _, _, err = svc.resolve(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, amount.Equal(dec("21.00")))
}
