package paymentmethod

import (
	"context"

	"github.com/tierforge/tierforge/internal/types"
)

type Repository interface {
	Create(ctx context.Context, pm *PaymentMethod) error
	Get(ctx context.Context, id string) (*PaymentMethod, error)
	Update(ctx context.Context, pm *PaymentMethod) error
	List(ctx context.Context, filter *types.QueryFilter) ([]*PaymentMethod, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*PaymentMethod, error)
	Delete(ctx context.Context, id string) error
}
