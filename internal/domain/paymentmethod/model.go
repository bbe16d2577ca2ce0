package paymentmethod

import (
	"context"
	"time"

	ierr "github.com/tierforge/tierforge/internal/errors"
	"github.com/tierforge/tierforge/internal/types"
)

// CardDetails stores a card instrument. Only derived, non-sensitive
// fields are kept; the raw number never persists.
type CardDetails struct {
	Brand        types.CardBrand `json:"brand"`
	Last4        string          `json:"last4"`
	MaskedNumber string          `json:"masked_number"`
	ExpMonth     int             `json:"exp_month"`
	ExpYear      int             `json:"exp_year"`
	HolderName   string          `json:"holder_name,omitempty"`
}

// ExpiresAt returns the instant the card stops being usable: the first
// day of the month after its printed expiration month.
func (c *CardDetails) ExpiresAt() time.Time {
	return time.Date(c.ExpYear, time.Month(c.ExpMonth)+1, 1, 0, 0, 0, 0, time.UTC)
}

// ExpiresWithin reports whether the card expires within the window
// starting at now.
func (c *CardDetails) ExpiresWithin(now time.Time, window time.Duration) bool {
	expiry := c.ExpiresAt()
	return !expiry.After(now.Add(window))
}

// BankAccountDetails stores a bank account instrument.
type BankAccountDetails struct {
	BankName     string `json:"bank_name,omitempty"`
	AccountLast4 string `json:"account_last4"`
	RoutingLast4 string `json:"routing_last4,omitempty"`
	AccountType  string `json:"account_type,omitempty"`
}

// PaypalDetails stores a PayPal instrument.
type PaypalDetails struct {
	Email string `json:"email"`
}

// CryptoDetails stores a crypto wallet instrument.
type CryptoDetails struct {
	Network string `json:"network"`
	Address string `json:"address"`
}

// PaymentMethod is one stored payment instrument, owned by exactly one
// customer. The Type tag selects which detail variant is populated.
type PaymentMethod struct {
	ID         string                  `json:"id"`
	CustomerID string                  `json:"customer_id"`
	Type       types.PaymentMethodType `json:"type"`
	IsDefault  bool                    `json:"is_default"`

	Card        *CardDetails        `json:"card,omitempty"`
	BankAccount *BankAccountDetails `json:"bank_account,omitempty"`
	Paypal      *PaypalDetails      `json:"paypal,omitempty"`
	Crypto      *CryptoDetails      `json:"crypto,omitempty"`

	Metadata types.Metadata `json:"metadata,omitempty"`
	types.BaseModel
}

// New creates a payment method shell; the caller attaches the validated
// detail variant.
func New(ctx context.Context, customerID string, methodType types.PaymentMethodType) (*PaymentMethod, error) {
	if customerID == "" {
		return nil, ierr.NewError("customer id is required").
			WithHint("Customer id cannot be empty").
			Mark(ierr.ErrValidation)
	}
	if err := methodType.Validate(); err != nil {
		return nil, err
	}
	return &PaymentMethod{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT_METHOD),
		CustomerID: customerID,
		Type:       methodType,
		BaseModel:  types.GetDefaultBaseModel(ctx),
	}, nil
}

// Validate checks that exactly the detail variant matching the type tag
// is populated and well formed.
func (pm *PaymentMethod) Validate() error {
	if err := pm.Type.Validate(); err != nil {
		return err
	}

	populated := 0
	for _, present := range []bool{pm.Card != nil, pm.BankAccount != nil, pm.Paypal != nil, pm.Crypto != nil} {
		if present {
			populated++
		}
	}
	if populated != 1 {
		return ierr.NewError("exactly one detail variant must be set").
			WithHint("Payment method details must match the declared type").
			WithReportableDetails(map[string]interface{}{"payment_method_id": pm.ID, "type": pm.Type}).
			Mark(ierr.ErrValidation)
	}

	switch pm.Type {
	case types.PaymentMethodTypeCard:
		if pm.Card == nil {
			return detailMismatch(pm)
		}
		if pm.Card.Last4 == "" || pm.Card.MaskedNumber == "" {
			return ierr.NewError("card details are incomplete").
				WithHint("Card last4 and masked number are required").
				Mark(ierr.ErrValidation)
		}
		if pm.Card.ExpMonth < 1 || pm.Card.ExpMonth > 12 {
			return ierr.NewError("card expiration month must be between 1 and 12").
				WithReportableDetails(map[string]interface{}{"exp_month": pm.Card.ExpMonth}).
				Mark(ierr.ErrValidation)
		}
		if pm.Card.ExpYear < 2000 {
			return ierr.NewError("card expiration year is invalid").
				WithReportableDetails(map[string]interface{}{"exp_year": pm.Card.ExpYear}).
				Mark(ierr.ErrValidation)
		}
	case types.PaymentMethodTypeBankAccount:
		if pm.BankAccount == nil {
			return detailMismatch(pm)
		}
		if pm.BankAccount.AccountLast4 == "" {
			return ierr.NewError("bank account details are incomplete").
				WithHint("Account last4 is required").
				Mark(ierr.ErrValidation)
		}
	case types.PaymentMethodTypePaypal:
		if pm.Paypal == nil {
			return detailMismatch(pm)
		}
		if pm.Paypal.Email == "" {
			return ierr.NewError("paypal email is required").
				WithHint("A PayPal payment method needs an account email").
				Mark(ierr.ErrValidation)
		}
	case types.PaymentMethodTypeCrypto:
		if pm.Crypto == nil {
			return detailMismatch(pm)
		}
		if pm.Crypto.Network == "" || pm.Crypto.Address == "" {
			return ierr.NewError("crypto details are incomplete").
				WithHint("Network and address are required").
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

func detailMismatch(pm *PaymentMethod) error {
	return ierr.NewError("payment method details do not match its type").
		WithReportableDetails(map[string]interface{}{"payment_method_id": pm.ID, "type": pm.Type}).
		Mark(ierr.ErrValidation)
}
