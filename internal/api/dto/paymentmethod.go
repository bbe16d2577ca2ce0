package dto

import (
	"context"

	"github.com/tierforge/tierforge/internal/domain/paymentmethod"
	ierr "github.com/tierforge/tierforge/internal/errors"
	"github.com/tierforge/tierforge/internal/types"
	"github.com/tierforge/tierforge/internal/validator"
)

// CardInput carries the raw card fields submitted by a caller. The raw
// number is validated, masked, and discarded; it is never stored.
type CardInput struct {
	Number     string `json:"number" validate:"required"`
	ExpMonth   int    `json:"exp_month" validate:"required,min=1,max=12"`
	ExpYear    int    `json:"exp_year" validate:"required,min=2000"`
	HolderName string `json:"holder_name,omitempty"`
}

type BankAccountInput struct {
	BankName      string `json:"bank_name,omitempty"`
	AccountNumber string `json:"account_number" validate:"required"`
	RoutingNumber string `json:"routing_number,omitempty"`
	AccountType   string `json:"account_type,omitempty"`
}

type PaypalInput struct {
	Email string `json:"email" validate:"required,email"`
}

type CryptoInput struct {
	Network string `json:"network" validate:"required"`
	Address string `json:"address" validate:"required"`
}

type AddPaymentMethodRequest struct {
	CustomerID   string                  `json:"customer_id" validate:"required"`
	Type         types.PaymentMethodType `json:"type" validate:"required"`
	SetAsDefault bool                    `json:"set_as_default,omitempty"`

	Card        *CardInput        `json:"card,omitempty"`
	BankAccount *BankAccountInput `json:"bank_account,omitempty"`
	Paypal      *PaypalInput      `json:"paypal,omitempty"`
	Crypto      *CryptoInput      `json:"crypto,omitempty"`

	Metadata types.Metadata `json:"metadata,omitempty"`
}

func (r *AddPaymentMethodRequest) Validate(ctx context.Context) error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := r.Type.Validate(); err != nil {
		return err
	}
	switch r.Type {
	case types.PaymentMethodTypeCard:
		if r.Card == nil {
			return missingDetails("card")
		}
	case types.PaymentMethodTypeBankAccount:
		if r.BankAccount == nil {
			return missingDetails("bank_account")
		}
	case types.PaymentMethodTypePaypal:
		if r.Paypal == nil {
			return missingDetails("paypal")
		}
	case types.PaymentMethodTypeCrypto:
		if r.Crypto == nil {
			return missingDetails("crypto")
		}
	}
	return nil
}

func missingDetails(field string) error {
	return ierr.NewErrorf("%s details are required for this payment method type", field).
		WithHint("Provide the detail object matching the payment method type").
		WithReportableDetails(map[string]interface{}{"field": field}).
		Mark(ierr.ErrValidation)
}

// UpdatePaymentMethodRequest updates mutable fields only. Card updates
// are limited to expiry and holder name; changing the number means
// adding a new method.
type UpdatePaymentMethodRequest struct {
	CardExpMonth   *int           `json:"card_exp_month,omitempty"`
	CardExpYear    *int           `json:"card_exp_year,omitempty"`
	CardHolderName *string        `json:"card_holder_name,omitempty"`
	Metadata       types.Metadata `json:"metadata,omitempty"`
}

func (r *UpdatePaymentMethodRequest) Validate(ctx context.Context) error {
	if r.CardExpMonth != nil && (*r.CardExpMonth < 1 || *r.CardExpMonth > 12) {
		return ierr.NewError("card expiration month must be between 1 and 12").
			WithReportableDetails(map[string]interface{}{"exp_month": *r.CardExpMonth}).
			Mark(ierr.ErrValidation)
	}
	if r.CardExpYear != nil && *r.CardExpYear < 2000 {
		return ierr.NewError("card expiration year is invalid").
			WithReportableDetails(map[string]interface{}{"exp_year": *r.CardExpYear}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

type PaymentMethodResponse struct {
	*paymentmethod.PaymentMethod
}

type ListPaymentMethodsResponse struct {
	Items []*PaymentMethodResponse `json:"items"`
}

// ExpiringPaymentMethodResponse flags a card method expiring within the
// requested window.
type ExpiringPaymentMethodResponse struct {
	*paymentmethod.PaymentMethod
	ExpiresAt string `json:"expires_at"`
}
