package types

import (
	"github.com/samber/lo"

	ierr "github.com/tierforge/tierforge/internal/errors"
)

// TransactionType identifies the gateway operation a transaction drives.
type TransactionType string

const (
	TransactionTypeCharge        TransactionType = "charge"
	TransactionTypeRefund        TransactionType = "refund"
	TransactionTypeAuthorization TransactionType = "authorization"
	TransactionTypeCapture       TransactionType = "capture"
	TransactionTypeVoid          TransactionType = "void"
)

func (t TransactionType) Validate() error {
	allowed := []TransactionType{
		TransactionTypeCharge,
		TransactionTypeRefund,
		TransactionTypeAuthorization,
		TransactionTypeCapture,
		TransactionTypeVoid,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewErrorf("invalid transaction type: %s", t).
			WithHint("Invalid transaction type").
			WithReportableDetails(map[string]interface{}{"type": t}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// TransactionStatus is the state of a transaction in its lifecycle.
type TransactionStatus string

const (
	TransactionStatusPending           TransactionStatus = "pending"
	TransactionStatusProcessing        TransactionStatus = "processing"
	TransactionStatusSucceeded         TransactionStatus = "succeeded"
	TransactionStatusFailed            TransactionStatus = "failed"
	TransactionStatusRefunded          TransactionStatus = "refunded"
	TransactionStatusPartiallyRefunded TransactionStatus = "partially_refunded"
	TransactionStatusDisputed          TransactionStatus = "disputed"
	TransactionStatusCanceled          TransactionStatus = "canceled"
)

// transactionTransitions is the allowed state machine:
// PENDING → PROCESSING → {SUCCEEDED, FAILED};
// SUCCEEDED → {REFUNDED, PARTIALLY_REFUNDED, DISPUTED};
// any non-terminal state → CANCELED.
var transactionTransitions = map[TransactionStatus][]TransactionStatus{
	TransactionStatusPending: {
		TransactionStatusProcessing,
		TransactionStatusCanceled,
	},
	TransactionStatusProcessing: {
		TransactionStatusSucceeded,
		TransactionStatusFailed,
		TransactionStatusCanceled,
	},
	TransactionStatusSucceeded: {
		TransactionStatusRefunded,
		TransactionStatusPartiallyRefunded,
		TransactionStatusDisputed,
	},
	TransactionStatusPartiallyRefunded: {
		TransactionStatusRefunded,
		TransactionStatusPartiallyRefunded,
		TransactionStatusDisputed,
	},
}

// IsTerminal reports whether no further processing may start from the status.
// SUCCEEDED and PARTIALLY_REFUNDED still accept refund attachments but are
// terminal for dispatch purposes.
func (s TransactionStatus) IsTerminal() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusProcessing:
		return false
	}
	return true
}

// CanTransitionTo reports whether the state machine permits moving from s
// to target.
func (s TransactionStatus) CanTransitionTo(target TransactionStatus) bool {
	return lo.Contains(transactionTransitions[s], target)
}

// Error codes attached to failed transactions.
const (
	ErrCodeCardDeclined     = "card_declined"
	ErrCodeRetriesExhausted = "retries_exhausted"
	ErrCodeGatewayError     = "gateway_error"
	ErrCodeCanceled         = "canceled"
)

// TransactionError is the structured failure recorded on a transaction.
type TransactionError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
