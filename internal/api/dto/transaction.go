package dto

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tierforge/tierforge/internal/domain/payment"
	ierr "github.com/tierforge/tierforge/internal/errors"
	"github.com/tierforge/tierforge/internal/types"
	"github.com/tierforge/tierforge/internal/validator"
)

type CreateTransactionRequest struct {
	Amount          decimal.Decimal       `json:"amount" validate:"required"`
	Currency        string                `json:"currency" validate:"required,len=3"`
	CustomerID      string                `json:"customer_id" validate:"required"`
	PaymentMethodID string                `json:"payment_method_id,omitempty"`
	Type            types.TransactionType `json:"type,omitempty"`
	Description     string                `json:"description,omitempty"`
	Metadata        types.Metadata        `json:"metadata,omitempty"`
}

func (r *CreateTransactionRequest) Validate(ctx context.Context) error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return ierr.NewError("transaction amount must be positive").
			WithReportableDetails(map[string]interface{}{"amount": r.Amount.String()}).
			Mark(ierr.ErrValidation)
	}
	if !types.IsValidCurrency(r.Currency) {
		return ierr.NewErrorf("unsupported currency: %s", r.Currency).
			WithHint("Use a supported ISO currency code").
			Mark(ierr.ErrValidation)
	}
	if r.Type != "" {
		return r.Type.Validate()
	}
	return nil
}

type RefundTransactionRequest struct {
	// Amount defaults to the parent's remaining net amount.
	Amount *decimal.Decimal `json:"amount,omitempty"`
	Reason string           `json:"reason,omitempty"`
}

func (r *RefundTransactionRequest) Validate(ctx context.Context) error {
	if r.Amount != nil && r.Amount.LessThanOrEqual(decimal.Zero) {
		return ierr.NewError("refund amount must be positive").
			WithReportableDetails(map[string]interface{}{"amount": r.Amount.String()}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

type TransactionResponse struct {
	*payment.Transaction
}

type ListTransactionsResponse struct {
	Items      []*TransactionResponse   `json:"items"`
	Pagination types.PaginationResponse `json:"pagination"`
}

type TransactionHistoryResponse struct {
	TransactionID string                 `json:"transaction_id"`
	History       []payment.StatusChange `json:"history"`
}

type RelatedTransactionsResponse struct {
	Parent   *TransactionResponse   `json:"parent,omitempty"`
	Children []*TransactionResponse `json:"children"`
}

// TransactionSummaryResponse aggregates counts and per-currency totals.
type TransactionSummaryResponse struct {
	TotalCount         int                             `json:"total_count"`
	CountsByStatus     map[types.TransactionStatus]int `json:"counts_by_status"`
	CountsByType       map[types.TransactionType]int   `json:"counts_by_type"`
	TotalsByCurrency   map[string]decimal.Decimal      `json:"totals_by_currency"`
	RefundedByCurrency map[string]decimal.Decimal      `json:"refunded_by_currency"`
	FormattedTotals    map[string]string               `json:"formatted_totals"`
}
