package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/tierforge/tierforge/internal/api/dto"
	"github.com/tierforge/tierforge/internal/domain/payment"
	ierr "github.com/tierforge/tierforge/internal/errors"
	"github.com/tierforge/tierforge/internal/gateway"
	"github.com/tierforge/tierforge/internal/testutil"
	"github.com/tierforge/tierforge/internal/types"
)

type TransactionServiceSuite struct {
	testutil.BaseServiceTestSuite
	service TransactionService
}

func TestTransactionService(t *testing.T) {
	suite.Run(t, new(TransactionServiceSuite))
}

func (s *TransactionServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewTransactionService(s.params())
}

func (s *TransactionServiceSuite) params() ServiceParams {
	return ServiceParams{
		Logger:            s.GetLogger(),
		Config:            s.GetConfig(),
		Cache:             s.GetCache(),
		CatalogRepo:       s.GetStores().Catalog,
		TransactionRepo:   s.GetStores().Transaction,
		PaymentMethodRepo: s.GetStores().PaymentMethod,
		GatewayRegistry:   s.GetGatewayRegistry(),
		RetryPolicy:       testutil.FastRetryPolicy(),
	}
}

func (s *TransactionServiceSuite) createCharge(amount string) *dto.TransactionResponse {
	resp, err := s.service.CreateTransaction(s.GetContext(), &dto.CreateTransactionRequest{
		Amount:     decimal.RequireFromString(amount),
		Currency:   "USD",
		CustomerID: "cust_1",
	})
	s.Require().NoError(err)
	return resp
}

func (s *TransactionServiceSuite) TestCreateTransaction() {
	resp := s.createCharge("49.99")

	s.NotEmpty(resp.ID)
	s.Equal(types.TransactionTypeCharge, resp.Type)
	s.Equal(types.TransactionStatusPending, resp.TxStatus)
	s.Len(resp.StatusHistory, 1)
}

func (s *TransactionServiceSuite) TestCreateTransaction_Validation() {
	_, err := s.service.CreateTransaction(s.GetContext(), &dto.CreateTransactionRequest{
		Amount:     decimal.NewFromInt(-5),
		Currency:   "USD",
		CustomerID: "cust_1",
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	// Referenced payment method must exist.
	_, err = s.service.CreateTransaction(s.GetContext(), &dto.CreateTransactionRequest{
		Amount:          decimal.NewFromInt(10),
		Currency:        "USD",
		CustomerID:      "cust_1",
		PaymentMethodID: "pm_missing",
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *TransactionServiceSuite) TestProcessTransaction_Succeeds() {
	created := s.createCharge("49.99")

	processed, err := s.service.ProcessTransaction(s.GetContext(), created.ID)
	s.Require().NoError(err)

	s.Equal(types.TransactionStatusSucceeded, processed.TxStatus)
	s.NotEmpty(processed.Metadata[payment.MetadataKeyGatewayPaymentID])
	s.NotNil(processed.ProcessedAt)

	// PENDING -> PROCESSING -> SUCCEEDED in the history.
	s.Require().Len(processed.StatusHistory, 3)
	s.Equal(types.TransactionStatusProcessing, processed.StatusHistory[1].To)
	s.Equal(types.TransactionStatusSucceeded, processed.StatusHistory[2].To)
}

func (s *TransactionServiceSuite) TestProcessTransaction_Declined() {
	created := s.createCharge("20.13")

	processed, err := s.service.ProcessTransaction(s.GetContext(), created.ID)
	s.Require().NoError(err)

	s.Equal(types.TransactionStatusFailed, processed.TxStatus)
	s.Require().NotNil(processed.Error)
	s.Equal(types.ErrCodeCardDeclined, processed.Error.Code)
}

func (s *TransactionServiceSuite) TestProcessTransaction_TransientRecovers() {
	// The simulated gateway fails this amount twice before succeeding;
	// the retry policy allows three attempts.
	created := s.createCharge("20.77")

	processed, err := s.service.ProcessTransaction(s.GetContext(), created.ID)
	s.Require().NoError(err)
	s.Equal(types.TransactionStatusSucceeded, processed.TxStatus)
}

func (s *TransactionServiceSuite) TestProcessTransaction_RetriesExhausted() {
	svc := NewTransactionService(func() ServiceParams {
		params := s.params()
		params.RetryPolicy = gateway.RetryPolicy{
			MaxAttempts:    2,
			InitialBackoff: testutil.FastRetryPolicy().InitialBackoff,
			CallTimeout:    testutil.FastRetryPolicy().CallTimeout,
		}
		return params
	}())

	created, err := svc.CreateTransaction(s.GetContext(), &dto.CreateTransactionRequest{
		Amount:     decimal.RequireFromString("20.77"),
		Currency:   "USD",
		CustomerID: "cust_1",
	})
	s.Require().NoError(err)

	processed, err := svc.ProcessTransaction(s.GetContext(), created.ID)
	s.Require().NoError(err)

	s.Equal(types.TransactionStatusFailed, processed.TxStatus)
	s.Require().NotNil(processed.Error)
	s.Equal(types.ErrCodeRetriesExhausted, processed.Error.Code)
}

func (s *TransactionServiceSuite) TestProcessTransaction_Reinvoke() {
	created := s.createCharge("49.99")

	first, err := s.service.ProcessTransaction(s.GetContext(), created.ID)
	s.Require().NoError(err)
	s.Equal(types.TransactionStatusSucceeded, first.TxStatus)

	// Re-invoking does not dispatch again or grow the history.
	second, err := s.service.ProcessTransaction(s.GetContext(), created.ID)
	s.Require().NoError(err)
	s.Equal(types.TransactionStatusSucceeded, second.TxStatus)
	s.Len(second.StatusHistory, 3)
	s.Equal(first.Metadata[payment.MetadataKeyGatewayPaymentID], second.Metadata[payment.MetadataKeyGatewayPaymentID])
}

func (s *TransactionServiceSuite) processedCharge(amount string) *dto.TransactionResponse {
	created := s.createCharge(amount)
	processed, err := s.service.ProcessTransaction(s.GetContext(), created.ID)
	s.Require().NoError(err)
	s.Require().Equal(types.TransactionStatusSucceeded, processed.TxStatus)
	return processed
}

func (s *TransactionServiceSuite) TestRefundTransaction_PartialThenFull() {
	parent := s.processedCharge("100")

	partial := decimal.NewFromInt(40)
	refund, err := s.service.RefundTransaction(s.GetContext(), parent.ID, &dto.RefundTransactionRequest{
		Amount: &partial,
		Reason: "customer request",
	})
	s.Require().NoError(err)

	s.Equal(types.TransactionTypeRefund, refund.Type)
	s.Equal(types.TransactionStatusSucceeded, refund.TxStatus)
	s.Equal(parent.ID, refund.ParentID)
	s.NotEmpty(refund.Metadata[payment.MetadataKeyGatewayRefundID])

	reloaded, err := s.service.GetTransaction(s.GetContext(), parent.ID)
	s.Require().NoError(err)
	s.Equal(types.TransactionStatusPartiallyRefunded, reloaded.TxStatus)
	s.True(reloaded.NetAmount().Equal(decimal.NewFromInt(60)))

	// Nil amount refunds the remaining net amount.
	_, err = s.service.RefundTransaction(s.GetContext(), parent.ID, nil)
	s.Require().NoError(err)

	reloaded, err = s.service.GetTransaction(s.GetContext(), parent.ID)
	s.Require().NoError(err)
	s.Equal(types.TransactionStatusRefunded, reloaded.TxStatus)
	s.True(reloaded.NetAmount().IsZero())
	s.Len(reloaded.Refunds, 2)
}

func (s *TransactionServiceSuite) TestRefundTransaction_ExceedsNet() {
	parent := s.processedCharge("100")

	over := decimal.NewFromInt(150)
	_, err := s.service.RefundTransaction(s.GetContext(), parent.ID, &dto.RefundTransactionRequest{Amount: &over})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	// Parent is untouched by the rejected refund.
	reloaded, err := s.service.GetTransaction(s.GetContext(), parent.ID)
	s.Require().NoError(err)
	s.Equal(types.TransactionStatusSucceeded, reloaded.TxStatus)
	s.Empty(reloaded.Refunds)
}

func (s *TransactionServiceSuite) TestRefundTransaction_RequiresRefundableParent() {
	created := s.createCharge("50")

	_, err := s.service.RefundTransaction(s.GetContext(), created.ID, nil)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *TransactionServiceSuite) TestCancelTransaction_Pending() {
	created := s.createCharge("50")

	canceled, err := s.service.CancelTransaction(s.GetContext(), created.ID)
	s.Require().NoError(err)

	s.Equal(types.TransactionStatusCanceled, canceled.TxStatus)
	s.Require().NotNil(canceled.Error)
	s.Equal(types.ErrCodeCanceled, canceled.Error.Code)
	s.NotNil(canceled.ProcessedAt)
}

func (s *TransactionServiceSuite) TestCancelTransaction_Terminal() {
	processed := s.processedCharge("50")

	_, err := s.service.CancelTransaction(s.GetContext(), processed.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *TransactionServiceSuite) TestGetTransactionHistory() {
	processed := s.processedCharge("50")

	history, err := s.service.GetTransactionHistory(s.GetContext(), processed.ID)
	s.Require().NoError(err)
	s.Equal(processed.ID, history.TransactionID)
	s.Len(history.History, 3)
}

func (s *TransactionServiceSuite) TestGetRelatedTransactions() {
	parent := s.processedCharge("100")

	partial := decimal.NewFromInt(25)
	refund, err := s.service.RefundTransaction(s.GetContext(), parent.ID, &dto.RefundTransactionRequest{Amount: &partial})
	s.Require().NoError(err)

	// From the parent's side.
	related, err := s.service.GetRelatedTransactions(s.GetContext(), parent.ID)
	s.Require().NoError(err)
	s.Equal(parent.ID, related.Parent.ID)
	s.Require().Len(related.Children, 1)
	s.Equal(refund.ID, related.Children[0].ID)

	// From the refund's side the same graph comes back.
	related, err = s.service.GetRelatedTransactions(s.GetContext(), refund.ID)
	s.Require().NoError(err)
	s.Equal(parent.ID, related.Parent.ID)
	s.Require().Len(related.Children, 1)
}

func (s *TransactionServiceSuite) TestListTransactions() {
	s.createCharge("10")
	s.createCharge("20")

	resp, err := s.service.ListTransactions(s.GetContext(), nil)
	s.Require().NoError(err)
	s.Len(resp.Items, 2)
	s.Equal(2, resp.Pagination.Total)
}

func (s *TransactionServiceSuite) TestGetTransactionSummary() {
	s.processedCharge("100")
	parent := s.processedCharge("200")
	s.createCharge("50") // stays pending

	partial := decimal.NewFromInt(80)
	_, err := s.service.RefundTransaction(s.GetContext(), parent.ID, &dto.RefundTransactionRequest{Amount: &partial})
	s.Require().NoError(err)

	summary, err := s.service.GetTransactionSummary(s.GetContext(), nil)
	s.Require().NoError(err)

	s.Equal(4, summary.TotalCount)
	s.Equal(1, summary.CountsByStatus[types.TransactionStatusPending])
	s.Equal(1, summary.CountsByStatus[types.TransactionStatusPartiallyRefunded])
	s.Equal(2, summary.CountsByStatus[types.TransactionStatusSucceeded])
	s.Equal(3, summary.CountsByType[types.TransactionTypeCharge])
	s.Equal(1, summary.CountsByType[types.TransactionTypeRefund])

	// Succeeded charge volume counts gross; refunds tracked separately.
	s.True(summary.TotalsByCurrency["USD"].Equal(decimal.NewFromInt(300)))
	s.True(summary.RefundedByCurrency["USD"].Equal(decimal.NewFromInt(80)))
	s.NotEmpty(summary.FormattedTotals["USD"])
}
