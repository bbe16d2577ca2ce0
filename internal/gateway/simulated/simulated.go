// Package simulated provides a deterministic in-process payment
// backend for local runs and tests. Specific amount cent values
// trigger failure paths so callers can exercise decline and retry
// handling without a real processor.
package simulated

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	ierr "github.com/tierforge/tierforge/internal/errors"
	"github.com/tierforge/tierforge/internal/gateway"
	"github.com/tierforge/tierforge/internal/logger"
	"github.com/tierforge/tierforge/internal/types"
)

// Amount cent values that trigger deterministic failures.
const (
	// CentsDeclined makes ProcessPayment fail with a card decline.
	CentsDeclined = 13
	// CentsTransient makes a call fail with a retryable network error
	// until it has been attempted FlakyAttempts times.
	CentsTransient = 77
	// FlakyAttempts is the attempt on which a transient amount succeeds.
	FlakyAttempts = 3
)

type Simulated struct {
	mu            sync.Mutex
	log           *logger.Logger
	customers     map[string]*gateway.CustomerResponse
	methods       map[string]*gateway.PaymentMethodResponse
	payments      map[string]*gateway.PaymentResponse
	refunded      map[string]decimal.Decimal
	subscriptions map[string]*gateway.SubscriptionResponse
	flakySeen     map[string]int
	now           func() time.Time
}

var _ gateway.Gateway = (*Simulated)(nil)

func New(log *logger.Logger) *Simulated {
	return &Simulated{
		log:           log,
		customers:     make(map[string]*gateway.CustomerResponse),
		methods:       make(map[string]*gateway.PaymentMethodResponse),
		payments:      make(map[string]*gateway.PaymentResponse),
		refunded:      make(map[string]decimal.Decimal),
		subscriptions: make(map[string]*gateway.SubscriptionResponse),
		flakySeen:     make(map[string]int),
		now:           time.Now,
	}
}

func (s *Simulated) CreateCustomer(ctx context.Context, req *gateway.CreateCustomerRequest) (*gateway.CustomerResponse, error) {
	if req.Email == "" {
		return nil, ierr.NewError("customer email is required").
			WithHint("Email cannot be empty").
			Mark(ierr.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cust := &gateway.CustomerResponse{
		ID:        types.GenerateUUIDWithPrefix("gwcust"),
		Email:     req.Email,
		Name:      req.Name,
		CreatedAt: s.now().UTC(),
	}
	s.customers[cust.ID] = cust
	return cust, nil
}

func (s *Simulated) CreatePaymentMethod(ctx context.Context, req *gateway.CreatePaymentMethodRequest) (*gateway.PaymentMethodResponse, error) {
	if req.CustomerID == "" || req.Token == "" {
		return nil, ierr.NewError("customer id and token are required").
			WithHint("Payment method needs a customer and a tokenized instrument").
			Mark(ierr.ErrValidation)
	}
	if err := req.Type.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	pm := &gateway.PaymentMethodResponse{
		ID:         types.GenerateUUIDWithPrefix("gwpm"),
		CustomerID: req.CustomerID,
		Type:       req.Type,
	}
	s.methods[pm.ID] = pm
	return pm, nil
}

func (s *Simulated) ProcessPayment(ctx context.Context, req *gateway.ProcessPaymentRequest) (*gateway.PaymentResponse, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, ierr.NewError("payment amount must be positive").
			WithReportableDetails(map[string]interface{}{"amount": req.Amount.String()}).
			Mark(ierr.ErrValidation)
	}
	if !types.IsValidCurrency(req.Currency) {
		return nil, ierr.NewErrorf("unsupported currency: %s", req.Currency).
			WithHint("Use a supported ISO currency code").
			Mark(ierr.ErrValidation)
	}

	switch cents(req.Amount) {
	case CentsDeclined:
		return nil, ierr.NewError("card was declined by the issuer").
			WithHint("The card issuer declined this charge").
			WithReportableDetails(map[string]interface{}{"amount": req.Amount.String()}).
			Mark(ierr.ErrPaymentDeclined)
	case CentsTransient:
		if s.flake(flakeKey("payment", req)) {
			return nil, transientErr("process_payment")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	payment := &gateway.PaymentResponse{
		ID:         types.GenerateUUIDWithPrefix("gwpay"),
		Status:     "succeeded",
		Amount:     req.Amount,
		Currency:   req.Currency,
		CustomerID: req.CustomerID,
		CreatedAt:  s.now().UTC(),
	}
	s.payments[payment.ID] = payment
	s.refunded[payment.ID] = decimal.Zero
	if s.log != nil {
		s.log.Debugw("simulated payment captured", "payment_id", payment.ID, "amount", payment.Amount)
	}
	return payment, nil
}

func (s *Simulated) RefundPayment(ctx context.Context, req *gateway.RefundPaymentRequest) (*gateway.RefundResponse, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, ierr.NewError("refund amount must be positive").
			WithReportableDetails(map[string]interface{}{"amount": req.Amount.String()}).
			Mark(ierr.ErrValidation)
	}
	if cents(req.Amount) == CentsTransient && s.flake("refund:"+req.PaymentID+":"+req.Amount.String()) {
		return nil, transientErr("refund_payment")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	payment, ok := s.payments[req.PaymentID]
	if !ok {
		return nil, ierr.NewErrorf("payment %s not found", req.PaymentID).
			WithReportableDetails(map[string]interface{}{"payment_id": req.PaymentID}).
			Mark(ierr.ErrNotFound)
	}
	already := s.refunded[req.PaymentID]
	if already.Add(req.Amount).GreaterThan(payment.Amount) {
		return nil, ierr.NewError("refund exceeds remaining refundable amount").
			WithReportableDetails(map[string]interface{}{
				"payment_id": req.PaymentID,
				"refunded":   already.String(),
				"requested":  req.Amount.String(),
			}).
			Mark(ierr.ErrInvalidOperation)
	}
	s.refunded[req.PaymentID] = already.Add(req.Amount)
	return &gateway.RefundResponse{
		ID:        types.GenerateUUIDWithPrefix("gwref"),
		PaymentID: req.PaymentID,
		Status:    "succeeded",
		Amount:    req.Amount,
		CreatedAt: s.now().UTC(),
	}, nil
}

func (s *Simulated) GetPayment(ctx context.Context, paymentID string) (*gateway.PaymentResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payment, ok := s.payments[paymentID]
	if !ok {
		return nil, ierr.NewErrorf("payment %s not found", paymentID).
			WithReportableDetails(map[string]interface{}{"payment_id": paymentID}).
			Mark(ierr.ErrNotFound)
	}
	clone := *payment
	return &clone, nil
}

func (s *Simulated) ListPayments(ctx context.Context, req *gateway.ListPaymentsRequest) ([]*gateway.PaymentResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*gateway.PaymentResponse, 0, len(s.payments))
	for _, p := range s.payments {
		if req != nil && req.CustomerID != "" && p.CustomerID != req.CustomerID {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if req != nil && req.Limit > 0 && len(out) > req.Limit {
		out = out[:req.Limit]
	}
	return out, nil
}

func (s *Simulated) CreateSubscription(ctx context.Context, req *gateway.CreateSubscriptionRequest) (*gateway.SubscriptionResponse, error) {
	if req.CustomerID == "" || req.PlanID == "" {
		return nil, ierr.NewError("customer id and plan id are required").
			WithHint("Subscription needs a customer and a plan").
			Mark(ierr.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sub := &gateway.SubscriptionResponse{
		ID:         types.GenerateUUIDWithPrefix("gwsub"),
		CustomerID: req.CustomerID,
		PlanID:     req.PlanID,
		Status:     "active",
		CreatedAt:  s.now().UTC(),
	}
	s.subscriptions[sub.ID] = sub
	return sub, nil
}

func (s *Simulated) UpdateSubscription(ctx context.Context, req *gateway.UpdateSubscriptionRequest) (*gateway.SubscriptionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subscriptions[req.SubscriptionID]
	if !ok {
		return nil, subscriptionNotFound(req.SubscriptionID)
	}
	if req.PlanID != "" {
		sub.PlanID = req.PlanID
	}
	clone := *sub
	return &clone, nil
}

func (s *Simulated) CancelSubscription(ctx context.Context, subscriptionID string) (*gateway.SubscriptionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subscriptions[subscriptionID]
	if !ok {
		return nil, subscriptionNotFound(subscriptionID)
	}
	sub.Status = "canceled"
	clone := *sub
	return &clone, nil
}

func (s *Simulated) ListSubscriptions(ctx context.Context, customerID string) ([]*gateway.SubscriptionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*gateway.SubscriptionResponse, 0)
	for _, sub := range s.subscriptions {
		if customerID != "" && sub.CustomerID != customerID {
			continue
		}
		clone := *sub
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// flake returns true while a transient key has been seen fewer than
// FlakyAttempts times, so retried calls eventually succeed.
func (s *Simulated) flake(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flakySeen[key]++
	return s.flakySeen[key] < FlakyAttempts
}

func flakeKey(op string, req *gateway.ProcessPaymentRequest) string {
	if req.IdempotencyKey != "" {
		return op + ":" + req.IdempotencyKey
	}
	return op + ":" + req.CustomerID + ":" + req.Amount.String()
}

func cents(amount decimal.Decimal) int {
	return int(amount.Mul(decimal.NewFromInt(100)).IntPart() % 100)
}

func transientErr(op string) error {
	return ierr.NewErrorf("simulated network failure during %s", op).
		WithHint("Temporary gateway connectivity failure").
		Mark(ierr.ErrNetwork)
}

func subscriptionNotFound(id string) error {
	return ierr.NewErrorf("subscription %s not found", id).
		WithReportableDetails(map[string]interface{}{"subscription_id": id}).
		Mark(ierr.ErrNotFound)
}
