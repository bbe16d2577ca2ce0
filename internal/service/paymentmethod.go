package service

import (
	"context"
	"time"

	"github.com/tierforge/tierforge/internal/api/dto"
	"github.com/tierforge/tierforge/internal/domain/paymentmethod"
	ierr "github.com/tierforge/tierforge/internal/errors"
	"github.com/tierforge/tierforge/internal/gateway"
	"github.com/tierforge/tierforge/internal/types"
)

// PaymentMethodService owns per-customer payment instruments and
// default selection.
type PaymentMethodService interface {
	AddPaymentMethod(ctx context.Context, req *dto.AddPaymentMethodRequest) (*dto.PaymentMethodResponse, error)
	GetPaymentMethod(ctx context.Context, id string) (*dto.PaymentMethodResponse, error)
	ListPaymentMethods(ctx context.Context, customerID string) (*dto.ListPaymentMethodsResponse, error)
	SetDefaultPaymentMethod(ctx context.Context, customerID string, id string) (*dto.PaymentMethodResponse, error)
	UpdatePaymentMethod(ctx context.Context, id string, req *dto.UpdatePaymentMethodRequest) (*dto.PaymentMethodResponse, error)
	DeletePaymentMethod(ctx context.Context, id string) error
	CheckForExpiringPaymentMethods(ctx context.Context, days int) ([]*dto.ExpiringPaymentMethodResponse, error)
}

type paymentMethodService struct {
	ServiceParams
	now func() time.Time
}

func NewPaymentMethodService(params ServiceParams) PaymentMethodService {
	return &paymentMethodService{ServiceParams: params, now: time.Now}
}

func (s *paymentMethodService) AddPaymentMethod(ctx context.Context, req *dto.AddPaymentMethodRequest) (*dto.PaymentMethodResponse, error) {
	if err := req.Validate(ctx); err != nil {
		return nil, err
	}

	pm, err := paymentmethod.New(ctx, req.CustomerID, req.Type)
	if err != nil {
		return nil, err
	}
	pm.Metadata = req.Metadata

	if err := s.attachDetails(pm, req); err != nil {
		return nil, err
	}
	if err := pm.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.PaymentMethodRepo.ListByCustomer(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	// First method for a customer always becomes the default.
	pm.IsDefault = len(existing) == 0 || req.SetAsDefault

	if err := s.PaymentMethodRepo.Create(ctx, pm); err != nil {
		return nil, err
	}

	if pm.IsDefault {
		if err := s.unsetOtherDefaults(ctx, existing, pm.ID); err != nil {
			return nil, err
		}
	}

	s.Logger.Infow("added payment method",
		"payment_method_id", pm.ID,
		"customer_id", pm.CustomerID,
		"type", pm.Type,
		"is_default", pm.IsDefault)
	return &dto.PaymentMethodResponse{PaymentMethod: pm}, nil
}

func (s *paymentMethodService) attachDetails(pm *paymentmethod.PaymentMethod, req *dto.AddPaymentMethodRequest) error {
	switch req.Type {
	case types.PaymentMethodTypeCard:
		if err := gateway.ValidateCardNumber(req.Card.Number); err != nil {
			return err
		}
		pm.Card = &paymentmethod.CardDetails{
			Brand:        gateway.DetectCardBrand(req.Card.Number),
			Last4:        gateway.CardLast4(req.Card.Number),
			MaskedNumber: gateway.MaskCardNumber(req.Card.Number),
			ExpMonth:     req.Card.ExpMonth,
			ExpYear:      req.Card.ExpYear,
			HolderName:   req.Card.HolderName,
		}
	case types.PaymentMethodTypeBankAccount:
		pm.BankAccount = &paymentmethod.BankAccountDetails{
			BankName:     req.BankAccount.BankName,
			AccountLast4: lastFour(req.BankAccount.AccountNumber),
			RoutingLast4: lastFour(req.BankAccount.RoutingNumber),
			AccountType:  req.BankAccount.AccountType,
		}
	case types.PaymentMethodTypePaypal:
		pm.Paypal = &paymentmethod.PaypalDetails{Email: req.Paypal.Email}
	case types.PaymentMethodTypeCrypto:
		pm.Crypto = &paymentmethod.CryptoDetails{
			Network: req.Crypto.Network,
			Address: req.Crypto.Address,
		}
	}
	return nil
}

func lastFour(value string) string {
	if len(value) < 4 {
		return value
	}
	return value[len(value)-4:]
}

func (s *paymentMethodService) unsetOtherDefaults(ctx context.Context, methods []*paymentmethod.PaymentMethod, keepID string) error {
	for _, other := range methods {
		if other.ID == keepID || !other.IsDefault {
			continue
		}
		other.IsDefault = false
		if err := s.PaymentMethodRepo.Update(ctx, other); err != nil {
			return err
		}
	}
	return nil
}

func (s *paymentMethodService) GetPaymentMethod(ctx context.Context, id string) (*dto.PaymentMethodResponse, error) {
	pm, err := s.PaymentMethodRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.PaymentMethodResponse{PaymentMethod: pm}, nil
}

func (s *paymentMethodService) ListPaymentMethods(ctx context.Context, customerID string) (*dto.ListPaymentMethodsResponse, error) {
	if customerID == "" {
		return nil, ierr.NewError("customer id is required").
			WithHint("Customer id cannot be empty").
			Mark(ierr.ErrValidation)
	}

	methods, err := s.PaymentMethodRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.PaymentMethodResponse, 0, len(methods))
	for _, pm := range methods {
		items = append(items, &dto.PaymentMethodResponse{PaymentMethod: pm})
	}
	return &dto.ListPaymentMethodsResponse{Items: items}, nil
}

func (s *paymentMethodService) SetDefaultPaymentMethod(ctx context.Context, customerID string, id string) (*dto.PaymentMethodResponse, error) {
	pm, err := s.PaymentMethodRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if pm.CustomerID != customerID {
		return nil, ierr.NewError("payment method does not belong to this customer").
			WithReportableDetails(map[string]interface{}{
				"payment_method_id": id,
				"customer_id":       customerID,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	methods, err := s.PaymentMethodRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	pm.IsDefault = true
	if err := s.PaymentMethodRepo.Update(ctx, pm); err != nil {
		return nil, err
	}
	if err := s.unsetOtherDefaults(ctx, methods, pm.ID); err != nil {
		return nil, err
	}
	return &dto.PaymentMethodResponse{PaymentMethod: pm}, nil
}

func (s *paymentMethodService) UpdatePaymentMethod(ctx context.Context, id string, req *dto.UpdatePaymentMethodRequest) (*dto.PaymentMethodResponse, error) {
	if err := req.Validate(ctx); err != nil {
		return nil, err
	}

	pm, err := s.PaymentMethodRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Copy-on-write: mutate a clone and persist it whole.
	updated := *pm
	if pm.Card != nil {
		card := *pm.Card
		updated.Card = &card
	}

	if req.CardExpMonth != nil || req.CardExpYear != nil || req.CardHolderName != nil {
		if updated.Card == nil {
			return nil, ierr.NewError("card fields can only be updated on card payment methods").
				WithReportableDetails(map[string]interface{}{"payment_method_id": id, "type": pm.Type}).
				Mark(ierr.ErrInvalidOperation)
		}
		if req.CardExpMonth != nil {
			updated.Card.ExpMonth = *req.CardExpMonth
		}
		if req.CardExpYear != nil {
			updated.Card.ExpYear = *req.CardExpYear
		}
		if req.CardHolderName != nil {
			updated.Card.HolderName = *req.CardHolderName
		}
	}
	if req.Metadata != nil {
		updated.Metadata = req.Metadata
	}
	updated.UpdatedAt = s.now().UTC()
	updated.UpdatedBy = types.GetUserID(ctx)

	if err := updated.Validate(); err != nil {
		return nil, err
	}
	if err := s.PaymentMethodRepo.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &dto.PaymentMethodResponse{PaymentMethod: &updated}, nil
}

func (s *paymentMethodService) DeletePaymentMethod(ctx context.Context, id string) error {
	pm, err := s.PaymentMethodRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.PaymentMethodRepo.Delete(ctx, id); err != nil {
		return err
	}

	// Deleting the default promotes the next remaining method.
	if pm.IsDefault {
		remaining, err := s.PaymentMethodRepo.ListByCustomer(ctx, pm.CustomerID)
		if err != nil {
			return err
		}
		if len(remaining) > 0 {
			next := remaining[0]
			next.IsDefault = true
			if err := s.PaymentMethodRepo.Update(ctx, next); err != nil {
				return err
			}
			s.Logger.Infow("promoted payment method to default",
				"payment_method_id", next.ID,
				"customer_id", next.CustomerID)
		}
	}

	s.Logger.Infow("deleted payment method", "payment_method_id", id)
	return nil
}

// CheckForExpiringPaymentMethods scans card methods whose expiry falls
// within the given number of days from now. A card expires at the
// first day of the month after its printed expiration month.
func (s *paymentMethodService) CheckForExpiringPaymentMethods(ctx context.Context, days int) ([]*dto.ExpiringPaymentMethodResponse, error) {
	if days < 0 {
		return nil, ierr.NewError("days must be non-negative").
			WithReportableDetails(map[string]interface{}{"days": days}).
			Mark(ierr.ErrValidation)
	}

	methods, err := s.PaymentMethodRepo.List(ctx, types.NewNoLimitQueryFilter())
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	window := time.Duration(days) * 24 * time.Hour

	out := make([]*dto.ExpiringPaymentMethodResponse, 0)
	for _, pm := range methods {
		if pm.Type != types.PaymentMethodTypeCard || pm.Card == nil {
			continue
		}
		if pm.Card.ExpiresWithin(now, window) {
			out = append(out, &dto.ExpiringPaymentMethodResponse{
				PaymentMethod: pm,
				ExpiresAt:     pm.Card.ExpiresAt().Format(time.RFC3339),
			})
		}
	}
	return out, nil
}
