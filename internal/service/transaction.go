package service

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tierforge/tierforge/internal/api/dto"
	"github.com/tierforge/tierforge/internal/domain/payment"
	ierr "github.com/tierforge/tierforge/internal/errors"
	"github.com/tierforge/tierforge/internal/gateway"
	"github.com/tierforge/tierforge/internal/types"
)

const metadataKeyCancelRequested = "cancellation_requested"

// TransactionService orchestrates the transaction state machine,
// gateway dispatch, and refund accounting.
type TransactionService interface {
	CreateTransaction(ctx context.Context, req *dto.CreateTransactionRequest) (*dto.TransactionResponse, error)
	GetTransaction(ctx context.Context, id string) (*dto.TransactionResponse, error)
	ListTransactions(ctx context.Context, filter *payment.TransactionFilter) (*dto.ListTransactionsResponse, error)
	ProcessTransaction(ctx context.Context, id string) (*dto.TransactionResponse, error)
	RefundTransaction(ctx context.Context, id string, req *dto.RefundTransactionRequest) (*dto.TransactionResponse, error)
	CancelTransaction(ctx context.Context, id string) (*dto.TransactionResponse, error)
	GetTransactionHistory(ctx context.Context, id string) (*dto.TransactionHistoryResponse, error)
	GetRelatedTransactions(ctx context.Context, id string) (*dto.RelatedTransactionsResponse, error)
	GetTransactionSummary(ctx context.Context, filter *payment.TransactionFilter) (*dto.TransactionSummaryResponse, error)
}

type transactionService struct {
	ServiceParams

	// txnLocks serializes processing per transaction id so two callers
	// cannot both dispatch the same transaction to the gateway.
	// parentLocks serializes refund accounting per parent transaction.
	txnLocks    keyedLocks
	parentLocks keyedLocks
}

func NewTransactionService(params ServiceParams) TransactionService {
	return &transactionService{ServiceParams: params}
}

type keyedLocks struct {
	locks sync.Map
}

func (k *keyedLocks) lock(key string) *sync.Mutex {
	mu, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m
}

func (s *transactionService) CreateTransaction(ctx context.Context, req *dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	if err := req.Validate(ctx); err != nil {
		return nil, err
	}

	txType := req.Type
	if txType == "" {
		txType = types.TransactionTypeCharge
	}

	txn, err := payment.New(ctx, req.Amount, req.Currency, req.CustomerID, req.PaymentMethodID, txType, req.Description)
	if err != nil {
		return nil, err
	}
	for key, value := range req.Metadata {
		txn.Metadata[key] = value
	}

	if req.PaymentMethodID != "" {
		if _, err := s.PaymentMethodRepo.Get(ctx, req.PaymentMethodID); err != nil {
			return nil, err
		}
	}

	if err := s.TransactionRepo.Create(ctx, txn); err != nil {
		return nil, err
	}

	s.Logger.Infow("created transaction",
		"transaction_id", txn.ID,
		"type", txn.Type,
		"amount", txn.Amount,
		"currency", txn.Currency,
		"customer_id", txn.CustomerID)
	return &dto.TransactionResponse{Transaction: txn}, nil
}

func (s *transactionService) GetTransaction(ctx context.Context, id string) (*dto.TransactionResponse, error) {
	txn, err := s.TransactionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.TransactionResponse{Transaction: txn}, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, filter *payment.TransactionFilter) (*dto.ListTransactionsResponse, error) {
	if filter == nil {
		filter = payment.NewTransactionFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	txns, err := s.TransactionRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.TransactionResponse, 0, len(txns))
	for _, txn := range txns {
		items = append(items, &dto.TransactionResponse{Transaction: txn})
	}
	return &dto.ListTransactionsResponse{
		Items:      items,
		Pagination: types.NewPaginationResponse(len(items), filter.GetLimit(), filter.GetOffset()),
	}, nil
}

// ProcessTransaction moves a PENDING transaction through the gateway.
// Re-invoking on a transaction that is not PENDING returns its current
// state without dispatching again.
func (s *transactionService) ProcessTransaction(ctx context.Context, id string) (*dto.TransactionResponse, error) {
	mu := s.txnLocks.lock(id)
	defer mu.Unlock()

	txn, err := s.TransactionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if txn.TxStatus != types.TransactionStatusPending {
		s.Logger.Debugw("transaction not pending, skipping dispatch",
			"transaction_id", id,
			"status", txn.TxStatus)
		return &dto.TransactionResponse{Transaction: txn}, nil
	}

	if err := txn.SetStatus(types.TransactionStatusProcessing, "dispatching to gateway"); err != nil {
		return nil, err
	}
	if err := s.TransactionRepo.Update(ctx, txn); err != nil {
		return nil, err
	}

	switch txn.Type {
	case types.TransactionTypeRefund:
		err = s.dispatchRefund(ctx, txn)
	default:
		err = s.dispatchCharge(ctx, txn)
	}
	if err != nil {
		return nil, err
	}
	return &dto.TransactionResponse{Transaction: txn}, nil
}

func (s *transactionService) dispatchCharge(ctx context.Context, txn *payment.Transaction) error {
	gw, err := s.GatewayRegistry.Default()
	if err != nil {
		return s.failTransaction(ctx, txn, types.ErrCodeGatewayError, err.Error())
	}

	resp, gwErr := gateway.WithRetry(ctx, s.RetryPolicy, s.Logger, "process_payment", func(callCtx context.Context) (*gateway.PaymentResponse, error) {
		return gw.ProcessPayment(callCtx, &gateway.ProcessPaymentRequest{
			Amount:          txn.Amount,
			Currency:        txn.Currency,
			CustomerID:      txn.CustomerID,
			PaymentMethodID: txn.PaymentMethodID,
			Description:     txn.Description,
			IdempotencyKey:  txn.ID,
			Metadata:        txn.Metadata,
		})
	})
	if gwErr != nil {
		return s.failTransaction(ctx, txn, errCodeFor(gwErr), gwErr.Error())
	}

	txn.Metadata[payment.MetadataKeyGatewayPaymentID] = resp.ID
	if err := txn.SetStatus(types.TransactionStatusSucceeded, "gateway confirmed payment"); err != nil {
		return err
	}
	if err := s.TransactionRepo.Update(ctx, txn); err != nil {
		return err
	}

	s.Logger.Infow("transaction succeeded",
		"transaction_id", txn.ID,
		"gateway_payment_id", resp.ID,
		"amount", txn.Amount)
	return nil
}

// dispatchRefund executes a refund-type transaction. The parent's
// refund list is only touched after the gateway confirms, under the
// parent's lock.
func (s *transactionService) dispatchRefund(ctx context.Context, txn *payment.Transaction) error {
	if txn.ParentID == "" {
		return s.failTransaction(ctx, txn, types.ErrCodeGatewayError, "refund transaction has no parent")
	}

	parentMu := s.parentLocks.lock(txn.ParentID)
	defer parentMu.Unlock()

	parent, err := s.TransactionRepo.Get(ctx, txn.ParentID)
	if err != nil {
		return s.failTransaction(ctx, txn, types.ErrCodeGatewayError, "parent transaction not found")
	}

	gatewayPaymentID, ok := parent.Metadata[payment.MetadataKeyGatewayPaymentID]
	if !ok || gatewayPaymentID == "" {
		return s.failTransaction(ctx, txn, types.ErrCodeGatewayError, "parent transaction carries no gateway payment id")
	}
	if !parent.CanRefund() {
		return s.failTransaction(ctx, txn, types.ErrCodeGatewayError, "parent transaction is not refundable")
	}
	if txn.Amount.GreaterThan(parent.NetAmount()) {
		return s.failTransaction(ctx, txn, types.ErrCodeGatewayError, "refund exceeds parent net amount")
	}

	gw, err := s.GatewayRegistry.Default()
	if err != nil {
		return s.failTransaction(ctx, txn, types.ErrCodeGatewayError, err.Error())
	}

	resp, gwErr := gateway.WithRetry(ctx, s.RetryPolicy, s.Logger, "refund_payment", func(callCtx context.Context) (*gateway.RefundResponse, error) {
		return gw.RefundPayment(callCtx, &gateway.RefundPaymentRequest{
			PaymentID: gatewayPaymentID,
			Amount:    txn.Amount,
			Reason:    txn.Description,
		})
	})
	if gwErr != nil {
		// Parent state and refund list stay untouched on failure.
		return s.failTransaction(ctx, txn, errCodeFor(gwErr), gwErr.Error())
	}

	refund := &payment.Refund{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REFUND),
		TransactionID: txn.ID,
		Amount:        txn.Amount,
		Reason:        txn.Description,
		Status:        types.TransactionStatusSucceeded,
		CreatedAt:     time.Now().UTC(),
	}
	if err := parent.AddRefund(refund); err != nil {
		return err
	}
	if err := s.TransactionRepo.Update(ctx, parent); err != nil {
		return err
	}

	txn.Metadata[payment.MetadataKeyGatewayRefundID] = resp.ID
	if err := txn.SetStatus(types.TransactionStatusSucceeded, "gateway confirmed refund"); err != nil {
		return err
	}
	if err := s.TransactionRepo.Update(ctx, txn); err != nil {
		return err
	}

	s.Logger.Infow("refund succeeded",
		"transaction_id", txn.ID,
		"parent_id", parent.ID,
		"gateway_refund_id", resp.ID,
		"amount", txn.Amount,
		"parent_status", parent.TxStatus)
	return nil
}

func (s *transactionService) failTransaction(ctx context.Context, txn *payment.Transaction, code string, message string) error {
	txn.Error = &types.TransactionError{Code: code, Message: message}
	if err := txn.SetStatus(types.TransactionStatusFailed, message); err != nil {
		return err
	}
	if err := s.TransactionRepo.Update(ctx, txn); err != nil {
		return err
	}
	s.Logger.Warnw("transaction failed",
		"transaction_id", txn.ID,
		"error_code", code,
		"error_message", message)
	return nil
}

func errCodeFor(err error) string {
	switch {
	case ierr.IsPaymentDeclined(err):
		return types.ErrCodeCardDeclined
	case ierr.IsNetwork(err):
		return types.ErrCodeRetriesExhausted
	default:
		return types.ErrCodeGatewayError
	}
}

// RefundTransaction creates and immediately processes a linked
// refund-type transaction against a SUCCEEDED or PARTIALLY_REFUNDED
// parent. A nil amount refunds the remaining net amount.
func (s *transactionService) RefundTransaction(ctx context.Context, id string, req *dto.RefundTransactionRequest) (*dto.TransactionResponse, error) {
	if req == nil {
		req = &dto.RefundTransactionRequest{}
	}
	if err := req.Validate(ctx); err != nil {
		return nil, err
	}

	parent, err := s.TransactionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !parent.CanRefund() {
		return nil, ierr.NewError("transaction is not refundable").
			WithHint("Only succeeded charge transactions can be refunded").
			WithReportableDetails(map[string]interface{}{
				"transaction_id": id,
				"status":         parent.TxStatus,
				"type":           parent.Type,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	amount := parent.NetAmount()
	if req.Amount != nil {
		amount = *req.Amount
	}
	if amount.LessThanOrEqual(decimal.Zero) || amount.GreaterThan(parent.NetAmount()) {
		return nil, ierr.NewError("refund amount must be positive and within the remaining net amount").
			WithReportableDetails(map[string]interface{}{
				"transaction_id": id,
				"requested":      amount.String(),
				"net_amount":     parent.NetAmount().String(),
			}).
			Mark(ierr.ErrValidation)
	}

	reason := req.Reason
	if reason == "" {
		reason = "refund for " + id
	}

	child, err := payment.New(ctx, amount, parent.Currency, parent.CustomerID, parent.PaymentMethodID, types.TransactionTypeRefund, reason)
	if err != nil {
		return nil, err
	}
	child.ParentID = parent.ID

	if err := s.TransactionRepo.Create(ctx, child); err != nil {
		return nil, err
	}

	return s.ProcessTransaction(ctx, child.ID)
}

// CancelTransaction cancels a PENDING transaction immediately. For a
// PROCESSING transaction cancellation is gateway dependent: the request
// is recorded and the transaction proceeds to its terminal state.
func (s *transactionService) CancelTransaction(ctx context.Context, id string) (*dto.TransactionResponse, error) {
	mu := s.txnLocks.lock(id)
	defer mu.Unlock()

	txn, err := s.TransactionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch txn.TxStatus {
	case types.TransactionStatusPending:
		txn.Error = &types.TransactionError{Code: types.ErrCodeCanceled, Message: "canceled before dispatch"}
		if err := txn.SetStatus(types.TransactionStatusCanceled, "canceled by caller"); err != nil {
			return nil, err
		}
		if err := s.TransactionRepo.Update(ctx, txn); err != nil {
			return nil, err
		}
		s.Logger.Infow("transaction canceled", "transaction_id", id)
	case types.TransactionStatusProcessing:
		txn.Metadata[metadataKeyCancelRequested] = "true"
		if err := s.TransactionRepo.Update(ctx, txn); err != nil {
			return nil, err
		}
		s.Logger.Infow("cancellation requested for in-flight transaction", "transaction_id", id)
	default:
		return nil, ierr.NewErrorf("cannot cancel a %s transaction", txn.TxStatus).
			WithHint("Only pending or processing transactions can be canceled").
			WithReportableDetails(map[string]interface{}{
				"transaction_id": id,
				"status":         txn.TxStatus,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	return &dto.TransactionResponse{Transaction: txn}, nil
}

func (s *transactionService) GetTransactionHistory(ctx context.Context, id string) (*dto.TransactionHistoryResponse, error) {
	txn, err := s.TransactionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.TransactionHistoryResponse{
		TransactionID: txn.ID,
		History:       txn.StatusHistory,
	}, nil
}

// GetRelatedTransactions resolves the parent-child refund graph around
// a transaction: for a refund it returns its parent and siblings, for a
// charge its refund children.
func (s *transactionService) GetRelatedTransactions(ctx context.Context, id string) (*dto.RelatedTransactionsResponse, error) {
	txn, err := s.TransactionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rootID := txn.ID
	var parent *payment.Transaction
	if txn.ParentID != "" {
		rootID = txn.ParentID
		parent, err = s.TransactionRepo.Get(ctx, txn.ParentID)
		if err != nil {
			return nil, err
		}
	} else {
		parent = txn
	}

	children, err := s.TransactionRepo.ListByParent(ctx, rootID)
	if err != nil {
		return nil, err
	}

	childItems := make([]*dto.TransactionResponse, 0, len(children))
	for _, child := range children {
		childItems = append(childItems, &dto.TransactionResponse{Transaction: child})
	}
	return &dto.RelatedTransactionsResponse{
		Parent:   &dto.TransactionResponse{Transaction: parent},
		Children: childItems,
	}, nil
}

// GetTransactionSummary aggregates counts by status and type plus
// per-currency totals of succeeded charges and their refunds.
func (s *transactionService) GetTransactionSummary(ctx context.Context, filter *payment.TransactionFilter) (*dto.TransactionSummaryResponse, error) {
	if filter == nil {
		filter = payment.NewNoLimitTransactionFilter()
	}

	txns, err := s.TransactionRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	summary := &dto.TransactionSummaryResponse{
		TotalCount:         len(txns),
		CountsByStatus:     make(map[types.TransactionStatus]int),
		CountsByType:       make(map[types.TransactionType]int),
		TotalsByCurrency:   make(map[string]decimal.Decimal),
		RefundedByCurrency: make(map[string]decimal.Decimal),
		FormattedTotals:    make(map[string]string),
	}

	for _, txn := range txns {
		summary.CountsByStatus[txn.TxStatus]++
		summary.CountsByType[txn.Type]++

		if txn.Type == types.TransactionTypeRefund {
			continue
		}
		switch txn.TxStatus {
		case types.TransactionStatusSucceeded,
			types.TransactionStatusPartiallyRefunded,
			types.TransactionStatusRefunded:
			summary.TotalsByCurrency[txn.Currency] = summary.TotalsByCurrency[txn.Currency].Add(txn.Amount)
			refunded := txn.RefundedAmount()
			if refunded.IsPositive() {
				summary.RefundedByCurrency[txn.Currency] = summary.RefundedByCurrency[txn.Currency].Add(refunded)
			}
		}
	}

	for currency, total := range summary.TotalsByCurrency {
		summary.FormattedTotals[currency] = types.FormatAmount(total, currency)
	}
	return summary, nil
}
