package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ierr "github.com/tierforge/tierforge/internal/errors"
	"github.com/tierforge/tierforge/internal/types"
)

func TestNormalizeCardNumber(t *testing.T) {
	assert.Equal(t, "4242424242424242", NormalizeCardNumber("4242 4242 4242 4242"))
	assert.Equal(t, "4242424242424242", NormalizeCardNumber("4242-4242-4242-4242"))
	assert.Equal(t, "378282246310005", NormalizeCardNumber("3782 822463 10005"))
}

func TestValidateCardNumber(t *testing.T) {
	valid := []string{
		"4242424242424242",    // visa
		"4242 4242 4242 4242", // visa with spaces
		"5555555555554444",    // mastercard
		"378282246310005",     // amex, 15 digits
		"6011111111111117",    // discover
		"30569309025904",      // diners, 14 digits
		"3530111333300000",    // jcb
	}
	for _, number := range valid {
		assert.NoError(t, ValidateCardNumber(number), "number %s", number)
	}

	tests := []struct {
		name   string
		number string
	}{
		{name: "TooShort", number: "424242424242"},
		{name: "TooLong", number: "42424242424242424242"},
		{name: "NonDigit", number: "4242abcd42424242"},
		{name: "FailsLuhn", number: "4242424242424241"},
		{name: "Empty", number: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCardNumber(tt.number)
			require.Error(t, err)
			assert.True(t, ierr.IsValidation(err))
		})
	}
}

func TestDetectCardBrand(t *testing.T) {
	tests := []struct {
		number string
		brand  types.CardBrand
	}{
		{"4242424242424242", types.CardBrandVisa},
		{"5555555555554444", types.CardBrandMastercard},
		{"2221000000000009", types.CardBrandMastercard},
		{"2720999999999999", types.CardBrandMastercard},
		{"378282246310005", types.CardBrandAmex},
		{"341111111111111", types.CardBrandAmex},
		{"6011111111111117", types.CardBrandDiscover},
		{"6451111111111117", types.CardBrandDiscover},
		{"6511111111111117", types.CardBrandDiscover},
		{"30569309025904", types.CardBrandDiners},
		{"36227206271667", types.CardBrandDiners},
		{"3530111333300000", types.CardBrandJCB},
		{"9999999999999999", types.CardBrandUnknown},
		{"123", types.CardBrandUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.brand, DetectCardBrand(tt.number), "number %s", tt.number)
	}
}

func TestMaskCardNumber(t *testing.T) {
	tests := []struct {
		name     string
		number   string
		expected string
	}{
		{name: "SixteenDigits", number: "4242424242424242", expected: "424242******4242"},
		{name: "WithSpaces", number: "4242 4242 4242 4242", expected: "424242******4242"},
		{name: "Amex", number: "378282246310005", expected: "378282*****0005"},
		{name: "TenOrFewer", number: "1234567890", expected: "******7890"},
		{name: "FourOrFewer", number: "1234", expected: "****"},
		{name: "Empty", number: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskCardNumber(tt.number))
		})
	}
}

func TestCardLast4(t *testing.T) {
	assert.Equal(t, "4242", CardLast4("4242 4242 4242 4242"))
	assert.Equal(t, "0005", CardLast4("378282246310005"))
	assert.Equal(t, "123", CardLast4("123"))
}
