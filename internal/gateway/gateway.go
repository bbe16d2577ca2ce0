package gateway

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tierforge/tierforge/internal/types"
)

// Gateway is the boundary to a payment backend. Implementations may
// return transient network failures (marked ErrNetwork, retryable) or
// deterministic domain failures (ErrPaymentDeclined, ErrValidation),
// which callers must not retry.
type Gateway interface {
	CreateCustomer(ctx context.Context, req *CreateCustomerRequest) (*CustomerResponse, error)
	CreatePaymentMethod(ctx context.Context, req *CreatePaymentMethodRequest) (*PaymentMethodResponse, error)
	ProcessPayment(ctx context.Context, req *ProcessPaymentRequest) (*PaymentResponse, error)
	RefundPayment(ctx context.Context, req *RefundPaymentRequest) (*RefundResponse, error)
	GetPayment(ctx context.Context, paymentID string) (*PaymentResponse, error)
	ListPayments(ctx context.Context, req *ListPaymentsRequest) ([]*PaymentResponse, error)
	CreateSubscription(ctx context.Context, req *CreateSubscriptionRequest) (*SubscriptionResponse, error)
	UpdateSubscription(ctx context.Context, req *UpdateSubscriptionRequest) (*SubscriptionResponse, error)
	CancelSubscription(ctx context.Context, subscriptionID string) (*SubscriptionResponse, error)
	ListSubscriptions(ctx context.Context, customerID string) ([]*SubscriptionResponse, error)
}

type CreateCustomerRequest struct {
	Email    string         `json:"email"`
	Name     string         `json:"name,omitempty"`
	Metadata types.Metadata `json:"metadata,omitempty"`
}

type CustomerResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type CreatePaymentMethodRequest struct {
	CustomerID string                  `json:"customer_id"`
	Type       types.PaymentMethodType `json:"type"`
	Token      string                  `json:"token"`
}

type PaymentMethodResponse struct {
	ID         string                  `json:"id"`
	CustomerID string                  `json:"customer_id"`
	Type       types.PaymentMethodType `json:"type"`
}

type ProcessPaymentRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	CustomerID      string          `json:"customer_id"`
	PaymentMethodID string          `json:"payment_method_id"`
	Description     string          `json:"description,omitempty"`
	IdempotencyKey  string          `json:"idempotency_key,omitempty"`
	Metadata        types.Metadata  `json:"metadata,omitempty"`
}

type PaymentResponse struct {
	ID         string          `json:"id"`
	Status     string          `json:"status"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	CustomerID string          `json:"customer_id,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

type RefundPaymentRequest struct {
	PaymentID string          `json:"payment_id"`
	Amount    decimal.Decimal `json:"amount"`
	Reason    string          `json:"reason,omitempty"`
}

type RefundResponse struct {
	ID        string          `json:"id"`
	PaymentID string          `json:"payment_id"`
	Status    string          `json:"status"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

type ListPaymentsRequest struct {
	CustomerID string `json:"customer_id,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

type CreateSubscriptionRequest struct {
	CustomerID      string          `json:"customer_id"`
	PlanID          string          `json:"plan_id"`
	PaymentMethodID string          `json:"payment_method_id,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
}

type UpdateSubscriptionRequest struct {
	SubscriptionID string          `json:"subscription_id"`
	PlanID         string          `json:"plan_id,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
}

type SubscriptionResponse struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	PlanID     string    `json:"plan_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}
