package paymentmethod

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ierr "github.com/tierforge/tierforge/internal/errors"
	"github.com/tierforge/tierforge/internal/types"
)

func TestCardExpiresAt(t *testing.T) {
	tests := []struct {
		name     string
		month    int
		year     int
		expected time.Time
	}{
		{name: "MidYear", month: 6, year: 2027, expected: time.Date(2027, 7, 1, 0, 0, 0, 0, time.UTC)},
		{name: "DecemberRollsToNextYear", month: 12, year: 2027, expected: time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "January", month: 1, year: 2027, expected: time.Date(2027, 2, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := &CardDetails{ExpMonth: tt.month, ExpYear: tt.year}
			assert.Equal(t, tt.expected, card.ExpiresAt())
		})
	}
}

func TestCardExpiresWithin(t *testing.T) {
	now := time.Date(2027, 5, 15, 12, 0, 0, 0, time.UTC)
	card := &CardDetails{ExpMonth: 6, ExpYear: 2027} // expires 2027-07-01

	assert.False(t, card.ExpiresWithin(now, 24*time.Hour))
	assert.True(t, card.ExpiresWithin(now, 60*24*time.Hour))

	// A card is usable through its printed month.
	endOfJune := time.Date(2027, 6, 30, 23, 59, 0, 0, time.UTC)
	assert.True(t, card.ExpiresWithin(endOfJune, time.Hour))

	expired := &CardDetails{ExpMonth: 1, ExpYear: 2027}
	assert.True(t, expired.ExpiresWithin(now, 0))
}

func TestNew(t *testing.T) {
	pm, err := New(context.Background(), "cust_1", types.PaymentMethodTypeCard)
	require.NoError(t, err)
	assert.NotEmpty(t, pm.ID)
	assert.Equal(t, "cust_1", pm.CustomerID)
	assert.False(t, pm.IsDefault)

	_, err = New(context.Background(), "", types.PaymentMethodTypeCard)
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))

	_, err = New(context.Background(), "cust_1", types.PaymentMethodType("carrier_pigeon"))
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func validCard() *CardDetails {
	return &CardDetails{
		Brand:        types.CardBrandVisa,
		Last4:        "4242",
		MaskedNumber: "424242******4242",
		ExpMonth:     12,
		ExpYear:      2030,
	}
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		mutate     func(pm *PaymentMethod)
		methodType types.PaymentMethodType
		wantErr    bool
	}{
		{
			name:       "ValidCard",
			methodType: types.PaymentMethodTypeCard,
			mutate:     func(pm *PaymentMethod) { pm.Card = validCard() },
		},
		{
			name:       "ValidBankAccount",
			methodType: types.PaymentMethodTypeBankAccount,
			mutate: func(pm *PaymentMethod) {
				pm.BankAccount = &BankAccountDetails{BankName: "Test Bank", AccountLast4: "6789"}
			},
		},
		{
			name:       "ValidPaypal",
			methodType: types.PaymentMethodTypePaypal,
			mutate:     func(pm *PaymentMethod) { pm.Paypal = &PaypalDetails{Email: "buyer@example.com"} },
		},
		{
			name:       "ValidCrypto",
			methodType: types.PaymentMethodTypeCrypto,
			mutate: func(pm *PaymentMethod) {
				pm.Crypto = &CryptoDetails{Network: "ethereum", Address: "0xabc"}
			},
		},
		{
			name:       "NoDetails",
			methodType: types.PaymentMethodTypeCard,
			mutate:     func(pm *PaymentMethod) {},
			wantErr:    true,
		},
		{
			name:       "TwoVariants",
			methodType: types.PaymentMethodTypeCard,
			mutate: func(pm *PaymentMethod) {
				pm.Card = validCard()
				pm.Paypal = &PaypalDetails{Email: "buyer@example.com"}
			},
			wantErr: true,
		},
		{
			name:       "VariantMismatch",
			methodType: types.PaymentMethodTypeCard,
			mutate: func(pm *PaymentMethod) {
				pm.Paypal = &PaypalDetails{Email: "buyer@example.com"}
			},
			wantErr: true,
		},
		{
			name:       "CardMissingLast4",
			methodType: types.PaymentMethodTypeCard,
			mutate: func(pm *PaymentMethod) {
				card := validCard()
				card.Last4 = ""
				pm.Card = card
			},
			wantErr: true,
		},
		{
			name:       "CardBadExpMonth",
			methodType: types.PaymentMethodTypeCard,
			mutate: func(pm *PaymentMethod) {
				card := validCard()
				card.ExpMonth = 13
				pm.Card = card
			},
			wantErr: true,
		},
		{
			name:       "BankAccountMissingLast4",
			methodType: types.PaymentMethodTypeBankAccount,
			mutate:     func(pm *PaymentMethod) { pm.BankAccount = &BankAccountDetails{BankName: "Test Bank"} },
			wantErr:    true,
		},
		{
			name:       "PaypalMissingEmail",
			methodType: types.PaymentMethodTypePaypal,
			mutate:     func(pm *PaymentMethod) { pm.Paypal = &PaypalDetails{} },
			wantErr:    true,
		},
		{
			name:       "CryptoMissingAddress",
			methodType: types.PaymentMethodTypeCrypto,
			mutate:     func(pm *PaymentMethod) { pm.Crypto = &CryptoDetails{Network: "ethereum"} },
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pm, err := New(ctx, "cust_1", tt.methodType)
			require.NoError(t, err)
			tt.mutate(pm)

			err = pm.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, ierr.IsValidation(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
