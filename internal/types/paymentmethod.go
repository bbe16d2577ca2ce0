package types

import (
	"github.com/samber/lo"

	ierr "github.com/tierforge/tierforge/internal/errors"
)

// PaymentMethodType tags the variant of a stored payment instrument.
type PaymentMethodType string

const (
	PaymentMethodTypeCard        PaymentMethodType = "card"
	PaymentMethodTypeBankAccount PaymentMethodType = "bank_account"
	PaymentMethodTypePaypal      PaymentMethodType = "paypal"
	PaymentMethodTypeCrypto      PaymentMethodType = "crypto"
)

func (t PaymentMethodType) Validate() error {
	allowed := []PaymentMethodType{
		PaymentMethodTypeCard,
		PaymentMethodTypeBankAccount,
		PaymentMethodTypePaypal,
		PaymentMethodTypeCrypto,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewErrorf("invalid payment method type: %s", t).
			WithHint("Invalid payment method type").
			WithReportableDetails(map[string]interface{}{"type": t}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CardBrand is a detected card network.
type CardBrand string

const (
	CardBrandVisa       CardBrand = "visa"
	CardBrandMastercard CardBrand = "mastercard"
	CardBrandAmex       CardBrand = "amex"
	CardBrandDiscover   CardBrand = "discover"
	CardBrandDiners     CardBrand = "diners"
	CardBrandJCB        CardBrand = "jcb"
	CardBrandUnknown    CardBrand = "unknown"
)
