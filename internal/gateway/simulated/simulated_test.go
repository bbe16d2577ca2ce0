package simulated

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ierr "github.com/tierforge/tierforge/internal/errors"
	"github.com/tierforge/tierforge/internal/gateway"
	"github.com/tierforge/tierforge/internal/types"
)

func paymentRequest(amount string) *gateway.ProcessPaymentRequest {
	return &gateway.ProcessPaymentRequest{
		Amount:         decimal.RequireFromString(amount),
		Currency:       "USD",
		CustomerID:     "cust_1",
		IdempotencyKey: "txn_test",
	}
}

func TestProcessPayment_Succeeds(t *testing.T) {
	gw := New(nil)

	resp, err := gw.ProcessPayment(context.Background(), paymentRequest("49.99"))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "succeeded", resp.Status)
	assert.True(t, resp.Amount.Equal(decimal.RequireFromString("49.99")))

	got, err := gw.GetPayment(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, got.ID)
}

func TestProcessPayment_Validation(t *testing.T) {
	gw := New(nil)
	ctx := context.Background()

	_, err := gw.ProcessPayment(ctx, paymentRequest("0"))
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))

	req := paymentRequest("10")
	req.Currency = "DOLLARS"
	_, err = gw.ProcessPayment(ctx, req)
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestProcessPayment_DeclinedCents(t *testing.T) {
	gw := New(nil)

	_, err := gw.ProcessPayment(context.Background(), paymentRequest("20.13"))
	require.Error(t, err)
	assert.True(t, ierr.IsPaymentDeclined(err))
	assert.False(t, ierr.IsRetryable(err))
}

func TestProcessPayment_TransientCentsRecover(t *testing.T) {
	gw := New(nil)
	ctx := context.Background()
	req := paymentRequest("20.77")

	// Same idempotency key: two transient failures, then success.
	for attempt := 1; attempt < FlakyAttempts; attempt++ {
		_, err := gw.ProcessPayment(ctx, req)
		require.Error(t, err, "attempt %d", attempt)
		assert.True(t, ierr.IsRetryable(err))
	}

	resp, err := gw.ProcessPayment(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "succeeded", resp.Status)
}

func TestProcessPayment_TransientKeysAreIndependent(t *testing.T) {
	gw := New(nil)
	ctx := context.Background()

	first := paymentRequest("20.77")
	first.IdempotencyKey = "txn_a"
	_, err := gw.ProcessPayment(ctx, first)
	require.Error(t, err)

	// A different key starts its own failure counter.
	second := paymentRequest("20.77")
	second.IdempotencyKey = "txn_b"
	_, err = gw.ProcessPayment(ctx, second)
	require.Error(t, err)
	assert.True(t, ierr.IsRetryable(err))
}

func TestRefundPayment_Ledger(t *testing.T) {
	gw := New(nil)
	ctx := context.Background()

	payment, err := gw.ProcessPayment(ctx, paymentRequest("100"))
	require.NoError(t, err)

	refund, err := gw.RefundPayment(ctx, &gateway.RefundPaymentRequest{
		PaymentID: payment.ID,
		Amount:    decimal.NewFromInt(40),
	})
	require.NoError(t, err)
	assert.Equal(t, "succeeded", refund.Status)
	assert.Equal(t, payment.ID, refund.PaymentID)

	// 70 more would exceed the original 100.
	_, err = gw.RefundPayment(ctx, &gateway.RefundPaymentRequest{
		PaymentID: payment.ID,
		Amount:    decimal.NewFromInt(70),
	})
	require.Error(t, err)
	assert.True(t, ierr.IsInvalidOperation(err))

	// The remaining 60 clears it out.
	_, err = gw.RefundPayment(ctx, &gateway.RefundPaymentRequest{
		PaymentID: payment.ID,
		Amount:    decimal.NewFromInt(60),
	})
	require.NoError(t, err)
}

func TestRefundPayment_UnknownPayment(t *testing.T) {
	gw := New(nil)
	_, err := gw.RefundPayment(context.Background(), &gateway.RefundPaymentRequest{
		PaymentID: "gwpay_missing",
		Amount:    decimal.NewFromInt(10),
	})
	require.Error(t, err)
	assert.True(t, ierr.IsNotFound(err))
}

func TestListPayments(t *testing.T) {
	gw := New(nil)
	ctx := context.Background()

	for _, customer := range []string{"cust_a", "cust_a", "cust_b"} {
		req := paymentRequest("10")
		req.CustomerID = customer
		_, err := gw.ProcessPayment(ctx, req)
		require.NoError(t, err)
	}

	all, err := gw.ListPayments(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	filtered, err := gw.ListPayments(ctx, &gateway.ListPaymentsRequest{CustomerID: "cust_a"})
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	limited, err := gw.ListPayments(ctx, &gateway.ListPaymentsRequest{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSubscriptionLifecycle(t *testing.T) {
	gw := New(nil)
	ctx := context.Background()

	sub, err := gw.CreateSubscription(ctx, &gateway.CreateSubscriptionRequest{
		CustomerID: "cust_1",
		PlanID:     "tier_pro",
	})
	require.NoError(t, err)
	assert.Equal(t, "active", sub.Status)

	updated, err := gw.UpdateSubscription(ctx, &gateway.UpdateSubscriptionRequest{
		SubscriptionID: sub.ID,
		PlanID:         "tier_business",
	})
	require.NoError(t, err)
	assert.Equal(t, "tier_business", updated.PlanID)

	canceled, err := gw.CancelSubscription(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, "canceled", canceled.Status)

	subs, err := gw.ListSubscriptions(ctx, "cust_1")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "canceled", subs[0].Status)

	_, err = gw.CancelSubscription(ctx, "gwsub_missing")
	require.Error(t, err)
	assert.True(t, ierr.IsNotFound(err))
}

func TestCreateCustomerAndPaymentMethod(t *testing.T) {
	gw := New(nil)
	ctx := context.Background()

	_, err := gw.CreateCustomer(ctx, &gateway.CreateCustomerRequest{})
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))

	cust, err := gw.CreateCustomer(ctx, &gateway.CreateCustomerRequest{Email: "buyer@example.com", Name: "Buyer"})
	require.NoError(t, err)
	assert.NotEmpty(t, cust.ID)

	pm, err := gw.CreatePaymentMethod(ctx, &gateway.CreatePaymentMethodRequest{
		CustomerID: cust.ID,
		Type:       types.PaymentMethodTypeCard,
		Token:      "tok_visa",
	})
	require.NoError(t, err)
	assert.Equal(t, cust.ID, pm.CustomerID)
}
