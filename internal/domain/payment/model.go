package payment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	ierr "github.com/tierforge/tierforge/internal/errors"
	"github.com/tierforge/tierforge/internal/types"
)

// Metadata keys written by transaction processing.
const (
	MetadataKeyGatewayPaymentID = "gateway_payment_id"
	MetadataKeyGatewayRefundID  = "gateway_refund_id"
)

// Refund is one refund issued against a transaction. It is embedded in
// its parent and mirrored as a linked refund-type Transaction.
type Refund struct {
	ID            string                  `json:"id"`
	TransactionID string                  `json:"transaction_id"`
	Amount        decimal.Decimal         `json:"amount"`
	Reason        string                  `json:"reason,omitempty"`
	Status        types.TransactionStatus `json:"status"`
	CreatedAt     time.Time               `json:"created_at"`
}

// StatusChange is one entry of a transaction's append-only history.
type StatusChange struct {
	From types.TransactionStatus `json:"from"`
	To   types.TransactionStatus `json:"to"`
	At   time.Time               `json:"at"`
	Note string                  `json:"note,omitempty"`
}

// Transaction is one monetary operation driven through the gateway.
// It is mutated only by the transaction service.
type Transaction struct {
	ID              string                  `json:"id"`
	Amount          decimal.Decimal         `json:"amount"`
	Currency        string                  `json:"currency"`
	CustomerID      string                  `json:"customer_id"`
	PaymentMethodID string                  `json:"payment_method_id,omitempty"`
	Description     string                  `json:"description,omitempty"`
	Type            types.TransactionType   `json:"type"`
	TxStatus        types.TransactionStatus `json:"transaction_status"`
	ProcessedAt     *time.Time              `json:"processed_at,omitempty"`
	Error           *types.TransactionError `json:"error,omitempty"`
	Refunds         []*Refund               `json:"refunds,omitempty"`
	ParentID        string                  `json:"parent_id,omitempty"`
	StatusHistory   []StatusChange          `json:"status_history"`
	Metadata        types.Metadata          `json:"metadata,omitempty"`
	types.BaseModel
}

// New creates a PENDING transaction with its initial history entry.
func New(ctx context.Context, amount decimal.Decimal, currency string, customerID string, paymentMethodID string, txType types.TransactionType, description string) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, ierr.NewError("transaction amount must be positive").
			WithHint("Amount must be greater than zero").
			WithReportableDetails(map[string]interface{}{"amount": amount.String()}).
			Mark(ierr.ErrValidation)
	}
	if !types.IsValidCurrency(currency) {
		return nil, ierr.NewError("invalid currency code").
			WithHint("Currency must be a three-letter ISO code").
			WithReportableDetails(map[string]interface{}{"currency": currency}).
			Mark(ierr.ErrValidation)
	}
	if customerID == "" {
		return nil, ierr.NewError("customer id is required").
			WithHint("Customer id cannot be empty").
			Mark(ierr.ErrValidation)
	}
	if err := txType.Validate(); err != nil {
		return nil, err
	}

	base := types.GetDefaultBaseModel(ctx)
	txn := &Transaction{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TRANSACTION),
		Amount:          amount,
		Currency:        currency,
		CustomerID:      customerID,
		PaymentMethodID: paymentMethodID,
		Description:     description,
		Type:            txType,
		TxStatus:        types.TransactionStatusPending,
		Metadata:        types.Metadata{},
		BaseModel:       base,
	}
	txn.StatusHistory = []StatusChange{{
		From: "",
		To:   types.TransactionStatusPending,
		At:   base.CreatedAt,
		Note: "created",
	}}
	return txn, nil
}

// SetStatus moves the transaction to a new status, enforcing the state
// machine, appending to the history, and stamping ProcessedAt exactly
// once on first arrival at a terminal status.
func (t *Transaction) SetStatus(to types.TransactionStatus, note string) error {
	if !t.TxStatus.CanTransitionTo(to) {
		return ierr.NewErrorf("invalid status transition %s -> %s", t.TxStatus, to).
			WithHint("The transaction state machine does not permit this transition").
			WithReportableDetails(map[string]interface{}{
				"transaction_id": t.ID,
				"from":           t.TxStatus,
				"to":             to,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	now := time.Now().UTC()
	t.StatusHistory = append(t.StatusHistory, StatusChange{
		From: t.TxStatus,
		To:   to,
		At:   now,
		Note: note,
	})
	t.TxStatus = to
	t.UpdatedAt = now
	if to.IsTerminal() && t.ProcessedAt == nil {
		t.ProcessedAt = &now
	}
	return nil
}

// RefundedAmount is the sum of all refunds issued against the
// transaction.
func (t *Transaction) RefundedAmount() decimal.Decimal {
	total := decimal.Zero
	for _, r := range t.Refunds {
		total = total.Add(r.Amount)
	}
	return total
}

// NetAmount is the transaction amount minus all issued refunds.
func (t *Transaction) NetAmount() decimal.Decimal {
	return t.Amount.Sub(t.RefundedAmount())
}

// CanRefund reports whether a refund may be issued against the
// transaction at all.
func (t *Transaction) CanRefund() bool {
	if t.Type != types.TransactionTypeCharge && t.Type != types.TransactionTypeCapture {
		return false
	}
	return t.TxStatus == types.TransactionStatusSucceeded ||
		t.TxStatus == types.TransactionStatusPartiallyRefunded
}

// AddRefund records a confirmed refund, enforcing the Σ refunds ≤ amount
// invariant, and moves the transaction to PARTIALLY_REFUNDED or REFUNDED.
// Callers must hold the parent's critical section and invoke this only
// after the gateway has confirmed the refund.
func (t *Transaction) AddRefund(refund *Refund) error {
	if refund == nil || !refund.Amount.IsPositive() {
		return ierr.NewError("refund amount must be positive").
			WithHint("Refund amount must be greater than zero").
			Mark(ierr.ErrValidation)
	}
	if !t.CanRefund() {
		return ierr.NewError("transaction is not refundable").
			WithHint("Only succeeded or partially refunded charges accept refunds").
			WithReportableDetails(map[string]interface{}{
				"transaction_id":     t.ID,
				"transaction_status": t.TxStatus,
				"type":               t.Type,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	net := t.NetAmount()
	if refund.Amount.GreaterThan(net) {
		return ierr.NewError("refund exceeds net amount").
			WithHint("Refund amount cannot exceed the remaining refundable amount").
			WithReportableDetails(map[string]interface{}{
				"transaction_id": t.ID,
				"refund_amount":  refund.Amount.String(),
				"net_amount":     net.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	refund.TransactionID = t.ID
	t.Refunds = append(t.Refunds, refund)

	target := types.TransactionStatusPartiallyRefunded
	if t.NetAmount().IsZero() {
		target = types.TransactionStatusRefunded
	}
	return t.SetStatus(target, "refund "+refund.ID)
}
